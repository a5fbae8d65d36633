package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/domain/apperr"
)

// writeError maps the error taxonomy onto HTTP responses. Anything outside
// the taxonomy surfaces as a single generic message.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *apperr.ValidationError
	var providerErr *apperr.ProviderError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &providerErr):
		status := http.StatusUnauthorized
		if providerErr.Code == apperr.CodeRateLimited {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": providerErr.Message()})
	default:
		if logger != nil {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

// streamSnapshots forwards channel emissions to the client as server-sent
// events until the stream ends or the client disconnects.
func streamSnapshots[T any](c *gin.Context, snapshots <-chan T) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snapshot)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
