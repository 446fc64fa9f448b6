package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightsmile/clinic-api/internal/middleware"
)

// Handler registers a resource's routes under the API group; route-level
// auth and permission checks live with the handler itself.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSConfig     middleware.CORSConfig
	UploadsDir     string
	MetricsPrefix  string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	db       *sqlx.DB
	handlers []Handler
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New(auth *middleware.AuthMiddleware, db *sqlx.DB, config Config, handlers ...Handler) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		db:       db,
		handlers: handlers,
		metrics:  newRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	r.setup(config)
	return r
}

func (r *Router) setup(config Config) {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stored attachments are served by path; the DB row carries the name.
	if config.UploadsDir != "" {
		files := r.engine.Group("/files", r.auth.RequireAuth())
		files.Static("", config.UploadsDir)
	}

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	for _, h := range r.handlers {
		h.RegisterRoutes(api, r.auth)
	}
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		health.GET("/ready", func(c *gin.Context) {
			if err := r.db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
