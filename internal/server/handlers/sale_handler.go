package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/service/export"
	"agrismart/internal/service/records"
	"agrismart/internal/service/stats"
)

// SaleHandler exposes CRUD, live snapshot and export endpoints for sales.
type SaleHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewSaleHandler constructs the HTTP handler adapter.
func NewSaleHandler(svc *records.Service, logger *zap.Logger) *SaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleHandler{svc: svc, logger: logger}
}

// List returns the current snapshot narrowed by the optional q filter,
// together with the totals over the matches.
func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result := stats.FilterSales(sales, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"sales":            result.Sales,
		"filteredRevenue":  result.FilteredRevenue,
		"filteredQuantity": result.FilteredQuantity,
	})
}

// Stream serves the live full-snapshot feed for the collection.
func (h *SaleHandler) Stream(c *gin.Context) {
	snapshots, err := h.svc.WatchSales(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Get returns a single sale.
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.svc.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// GetStream serves the live single-document feed; a deleted sale is emitted
// as null.
func (h *SaleHandler) GetStream(c *gin.Context) {
	snapshots, err := h.svc.WatchSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// Create inserts a new sale and returns its assigned identifier.
func (h *SaleHandler) Create(c *gin.Context) {
	var sale models.Sale
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.AddSale(c.Request.Context(), sale)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update merges the provided fields into an existing sale.
func (h *SaleHandler) Update(c *gin.Context) {
	var update models.SaleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateSale(c.Request.Context(), c.Param("id"), update); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a sale record.
func (h *SaleHandler) Delete(c *gin.Context) {
	if err := h.svc.RemoveSale(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export downloads the (optionally filtered) sales as an xlsx workbook.
func (h *SaleHandler) Export(c *gin.Context) {
	sales, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result := stats.FilterSales(sales, c.Query("q"))
	workbook, err := export.SalesWorkbook(result.Sales)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer func() { _ = workbook.Close() }()

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format(models.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("failed streaming sales workbook", zap.Error(err))
	}
}
