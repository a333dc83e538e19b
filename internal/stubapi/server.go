// Package stubapi is a local stand-in for the real backend: every
// collaborator endpoint the back-office client calls, served from an
// in-memory store over the uniform response envelope. It backs local
// development and the client integration tests.
package stubapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// New builds a Server around a store.
func New(addr string, store *Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           BuildRouter(store, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("stub backend listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// BuildRouter wires all stub routes. Exported for tests, which mount it on
// an httptest server.
func BuildRouter(store *Store, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())
	// Browser clients hit the stub directly during development.
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	h := &handlers{store: store, log: log}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metricsHandler())

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id/variants", h.listVariants)

		api.GET("/orders/:id", h.getOrder)
		api.GET("/orders/:id/details", h.getOrderDetails)
		api.POST("/orders", h.createOrder)
		api.PUT("/orders/:id", h.updateOrder)

		api.POST("/order-details", h.createDetail)
		api.PUT("/order-details/:id", h.updateDetail)

		api.GET("/posts", h.listPosts)
		api.POST("/posts", h.createPost)
		api.PUT("/posts/:id", h.updatePost)
		api.DELETE("/posts/:id", h.deletePost)

		api.GET("/statistics/sales", h.salesSummary)
	}

	return router
}
