package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/service/auth"
)

// AuthHandler exposes the login flow and session inspection endpoints.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Login verifies credentials against the identity provider and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and a password of at least 6 characters are required"})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DemoLogin opens a demo session, bypassing the identity provider.
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	session, err := h.svc.DemoLogin()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "demo login is disabled"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout closes the caller's session and clears the demo bypass flag.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(bearerToken(c))
	c.Status(http.StatusNoContent)
}

// Session reports the caller's current session state.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Session(bearerToken(c)))
}

// Gate is the middleware protecting record and dashboard routes. It runs
// fresh on every request; a blocked caller is pointed at the login entry.
func (h *AuthHandler) Gate(c *gin.Context) {
	if h.svc.Gate(bearerToken(c)) == auth.Blocked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "authentication required",
			"redirect": "/auth/login",
		})
		return
	}
	c.Next()
}
