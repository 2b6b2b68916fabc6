package api

import (
	"net/http"

	"api_sales/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options tunes the routes registered by InitRoutes.
type Options struct {
	// MaxUploadBytes caps CSV import bodies. Zero disables the cap.
	MaxUploadBytes int64
	// Gatherer backs GET /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// InitRoutes registers the sales CRUD, ETL and system endpoints on the
// given Gin engine.
func InitRoutes(e *gin.Engine, salesService *sales.Service, logger *zap.Logger, opts Options) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	salesHandler := NewSalesHandler(salesService, logger, opts.MaxUploadBytes)

	e.Use(requestID(), requestLogger(logger))

	e.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "sales ETL API"})
	})
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	e.GET("/healthz", salesHandler.handleHealth)
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	salesGroup := e.Group("/sales")
	salesGroup.POST("", salesHandler.handleCreateSale)
	salesGroup.GET("", salesHandler.handleListSales)
	salesGroup.GET("/:id", salesHandler.handleGetSale)
	salesGroup.PUT("/:id", salesHandler.handleReplaceSale)
	salesGroup.PATCH("/:id", salesHandler.handlePatchSale)
	salesGroup.DELETE("/:id", salesHandler.handleDeleteSale)

	etl := e.Group("/etl")
	etl.POST("/import-csv", salesHandler.handleImportCSV)
	etl.GET("/monthly-report", salesHandler.handleMonthlyReport)
	etl.GET("/export", salesHandler.handleExport)
}
