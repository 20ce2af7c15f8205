package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"fare/internal/handler"
	"fare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	FareHandler    *handler.FareHandler
	StreamHandler  *handler.StreamHandler
	PredictHandler *handler.PredictHandler
	Logger         *zap.Logger
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered. Handlers
// left nil in deps are not routed.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.PredictHandler != nil {
		router.POST("/predict", deps.PredictHandler.Predict)
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		fares := v1.Group("/fares")
		{
			if deps.FareHandler != nil {
				fares.POST("/estimate", deps.FareHandler.Estimate)
			}
			if deps.StreamHandler != nil {
				fares.GET("/stream", deps.StreamHandler.Stream)
			}
		}
	}

	return router
}
