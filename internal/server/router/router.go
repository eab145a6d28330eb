package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/server/handlers"
)

// Handlers groups the endpoint adapters the router mounts.
type Handlers struct {
	Records   *handlers.RecordsHandler
	Dashboard *handlers.DashboardHandler
	Export    *handlers.ExportHandler
	Digest    *handlers.DigestHandler
}

// New wires the Gin engine with required routes and middlewares. Request
// metrics are registered on reg and served on /metrics.
func New(h Handlers, reg *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if reg != nil {
		r.Use(newInstrumentation(reg).middleware())
		r.GET("/metrics", metricsHandler(reg))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/factories", h.Records.ListFactories)
	api.POST("/factories", h.Records.CreateFactory)

	api.GET("/production_data", h.Records.ListProductionData)
	api.POST("/production_data", h.Records.CreateProductionData)
	api.PUT("/production_data", h.Records.UpdateProductionData)

	for _, path := range []string{"/purchase_orders", "/purchase-orders"} {
		api.GET(path, h.Records.ListPurchaseOrders)
		api.POST(path, h.Records.CreatePurchaseOrder)
	}

	api.GET("/sales_orders", h.Records.ListSalesOrders)
	api.POST("/sales_orders", h.Records.CreateSalesOrder)

	api.GET("/mock_data", h.Records.MockData)

	api.GET("/dashboard", h.Dashboard.Dashboard)
	api.POST("/ai_insights", h.Dashboard.Insights)

	api.GET("/export/:entity", h.Export.Export)

	api.POST("/digest", h.Digest.RunDigest)
	api.GET("/snapshots", h.Digest.Snapshots)
	api.GET("/scorecards", h.Digest.Scorecards)
	api.POST("/send-message", h.Digest.SendMessage)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
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
