// Package dashboard serves the JSON API consumed by the browser UI. The capability
// endpoints never fail on remote problems; they return whatever the gateway produced.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonerrors "opsflow/internal/common/errors"
	"opsflow/internal/common/logger"
	"opsflow/internal/common/metrics"
	"opsflow/internal/gateway/dispatcher"
	"opsflow/internal/models"
	"opsflow/pkg/registry"
)

const requestIDHeader = "X-Request-ID"

// Gateway is the capability surface the dashboard calls into.
type Gateway interface {
	AnalyzeDocument(ctx context.Context, image []byte) string
	GenerateMarketing(ctx context.Context, brief string) models.MarketingContent
	SuggestInventoryActions(ctx context.Context, items []models.InventoryRecord) string
	Status() dispatcher.Status
}

type Options struct {
	Gateway        Gateway
	Logger         logger.Logger
	ActionLogSize  int
	MetricsEnabled bool
	Modules        *registry.ModuleRegistry // defaults to registry.Default()
}

type Server struct {
	gateway      Gateway
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
	actions      *ActionLog
	modules      *registry.ModuleRegistry
	started      time.Time
	metrics      bool
}

func NewServer(opts Options) *Server {
	log := opts.Logger.With(map[string]interface{}{"component": "dashboard"})
	modules := opts.Modules
	if modules == nil {
		modules = registry.Default()
	}
	return &Server{
		gateway:      opts.Gateway,
		logger:       log,
		errorHandler: commonerrors.NewErrorHandler(log),
		actions:      NewActionLog(opts.ActionLogSize),
		modules:      modules,
		started:      time.Now(),
		metrics:      opts.MetricsEnabled,
	}
}

// Router builds the gin engine with every dashboard route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), cors())
	if s.metrics {
		r.Use(metrics.GinMiddleware("dashboard"))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)

	api := r.Group("/api/v1")
	{
		api.GET("/status", s.status)
		api.GET("/modules", s.listModules)
		api.GET("/inventory", s.inventory)
		api.GET("/shipments", s.shipments)
		api.GET("/agents", s.agents)
		api.GET("/logs", s.logs)

		api.POST("/invoice/analyze", s.analyzeInvoice)
		api.POST("/invoice/approve", s.approveInvoice)
		api.POST("/marketing/generate", s.generateMarketing)
		api.POST("/inventory/suggest", s.suggestInventory)
	}
	return r
}

// Actions exposes the session log.
func (s *Server) Actions() *ActionLog {
	return s.actions
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request served", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  c.GetString("requestID"),
		})
	}
}
