package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrismart/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router wires together.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Farmers   *handlers.FarmerHandler
	Crops     *handlers.CropHandler
	Sales     *handlers.SaleHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, debug bool, logger *zap.Logger) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/demo", h.Auth.DemoLogin)
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.GET("/session", h.Auth.Session)

	// Everything under /api sits behind the session gate, re-evaluated on
	// each request.
	api := r.Group("/api", h.Auth.Gate)

	farmers := api.Group("/farmers")
	farmers.GET("", h.Farmers.List)
	farmers.GET("/stream", h.Farmers.Stream)
	farmers.POST("", h.Farmers.Create)
	farmers.GET("/:id", h.Farmers.Get)
	farmers.GET("/:id/stream", h.Farmers.GetStream)
	farmers.PATCH("/:id", h.Farmers.Update)
	farmers.DELETE("/:id", h.Farmers.Delete)

	crops := api.Group("/crops")
	crops.GET("", h.Crops.List)
	crops.GET("/stream", h.Crops.Stream)
	crops.POST("", h.Crops.Create)
	crops.GET("/:id", h.Crops.Get)
	crops.GET("/:id/stream", h.Crops.GetStream)
	crops.PATCH("/:id", h.Crops.Update)
	crops.DELETE("/:id", h.Crops.Delete)

	sales := api.Group("/sales")
	sales.GET("", h.Sales.List)
	sales.GET("/stream", h.Sales.Stream)
	sales.GET("/export", h.Sales.Export)
	sales.POST("", h.Sales.Create)
	sales.GET("/:id", h.Sales.Get)
	sales.GET("/:id/stream", h.Sales.GetStream)
	sales.PATCH("/:id", h.Sales.Update)
	sales.DELETE("/:id", h.Sales.Delete)

	api.GET("/dashboard", h.Dashboard.Stats)
	api.GET("/dashboard/stream", h.Dashboard.Stream)
	api.GET("/dashboard/snapshots", h.Dashboard.History)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
