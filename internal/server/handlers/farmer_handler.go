package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/service/records"
	"agrismart/internal/service/stats"
)

// FarmerHandler exposes CRUD and live snapshot endpoints for farmers.
type FarmerHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewFarmerHandler constructs the HTTP handler adapter.
func NewFarmerHandler(svc *records.Service, logger *zap.Logger) *FarmerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmerHandler{svc: svc, logger: logger}
}

// List returns the current snapshot, narrowed by the optional q filter.
func (h *FarmerHandler) List(c *gin.Context) {
	farmers, err := h.svc.ListFarmers(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats.FilterFarmers(farmers, c.Query("q")))
}

// Stream serves the live full-snapshot feed for the collection.
func (h *FarmerHandler) Stream(c *gin.Context) {
	snapshots, err := h.svc.WatchFarmers(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Get returns a single farmer.
func (h *FarmerHandler) Get(c *gin.Context) {
	farmer, err := h.svc.GetFarmer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, farmer)
}

// GetStream serves the live single-document feed; a deleted farmer is
// emitted as null.
func (h *FarmerHandler) GetStream(c *gin.Context) {
	snapshots, err := h.svc.WatchFarmer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Create inserts a new farmer and returns its assigned identifier.
func (h *FarmerHandler) Create(c *gin.Context) {
	var farmer models.Farmer
	if err := c.ShouldBindJSON(&farmer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.AddFarmer(c.Request.Context(), farmer)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update merges the provided fields into an existing farmer.
func (h *FarmerHandler) Update(c *gin.Context) {
	var update models.FarmerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateFarmer(c.Request.Context(), c.Param("id"), update); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a farmer. Dependent sales keep their denormalized name.
func (h *FarmerHandler) Delete(c *gin.Context) {
	if err := h.svc.RemoveFarmer(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
