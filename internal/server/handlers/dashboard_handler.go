package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/service/dashboard"
)

const defaultSnapshotLimit = 30

// DashboardHandler exposes the aggregate statistics endpoints.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Stats returns the dashboard state computed from fresh collection reads.
func (h *DashboardHandler) Stats(c *gin.Context) {
	computed, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, computed)
}

// Stream serves live recomputed dashboard stats. The first event arrives
// only after all three collections have delivered their initial snapshot.
func (h *DashboardHandler) Stream(c *gin.Context) {
	snapshots, err := h.svc.Watch(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	streamSnapshots(c, snapshots)
}

// History lists persisted daily snapshots, most recent first.
func (h *DashboardHandler) History(c *gin.Context) {
	limit := int64(defaultSnapshotLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	snapshots, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
