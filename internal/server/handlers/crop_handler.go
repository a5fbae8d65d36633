package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/service/records"
	"agrismart/internal/service/stats"
)

// CropHandler exposes CRUD and live snapshot endpoints for crops.
type CropHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewCropHandler constructs the HTTP handler adapter.
func NewCropHandler(svc *records.Service, logger *zap.Logger) *CropHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CropHandler{svc: svc, logger: logger}
}

// List returns the current snapshot, narrowed by the optional q search and
// season filter. An unknown season value yields an empty result rather than
// an error, matching exact-match filter semantics.
func (h *CropHandler) List(c *gin.Context) {
	crops, err := h.svc.ListCrops(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	filtered := stats.FilterCrops(crops, c.Query("q"), models.Season(c.Query("season")))
	c.JSON(http.StatusOK, filtered)
}

// Stream serves the live full-snapshot feed for the collection.
func (h *CropHandler) Stream(c *gin.Context) {
	snapshots, err := h.svc.WatchCrops(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Get returns a single crop.
func (h *CropHandler) Get(c *gin.Context) {
	crop, err := h.svc.GetCrop(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, crop)
}

// GetStream serves the live single-document feed; a deleted crop is emitted
// as null.
func (h *CropHandler) GetStream(c *gin.Context) {
	snapshots, err := h.svc.WatchCrop(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Create inserts a new crop and returns its assigned identifier.
func (h *CropHandler) Create(c *gin.Context) {
	var crop models.Crop
	if err := c.ShouldBindJSON(&crop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.AddCrop(c.Request.Context(), crop)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update merges the provided fields into an existing crop.
func (h *CropHandler) Update(c *gin.Context) {
	var update models.CropUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateCrop(c.Request.Context(), c.Param("id"), update); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a crop. Dependent sales keep their denormalized name.
func (h *CropHandler) Delete(c *gin.Context) {
	if err := h.svc.RemoveCrop(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
