package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/flybeeper/flight-history/internal/config"
	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/metrics"
	"github.com/flybeeper/flight-history/internal/travel"
	"github.com/flybeeper/flight-history/pkg/utils"
)

// Version версия сервиса, выставляется из main
var Version = "dev"

// Server HTTP сервер анализа истории местоположений
type Server struct {
	router        *gin.Engine
	httpServer    *http.Server
	logger        *utils.Logger
	config        *config.Config
	flightHandler *FlightHandler
}

// NewServer создает новый HTTP сервер
func NewServer(cfg *config.Config, logger *utils.Logger) (*Server, error) {
	analyzer, err := flight.NewAnalyzer(cfg.Detection, logger.WithField("component", "analyzer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	calculator, err := travel.NewCalculator(cfg.Travel)
	if err != nil {
		return nil, fmt.Errorf("failed to create travel calculator: %w", err)
	}

	// Production mode для Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(LoggerMiddleware(logger))
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst))
	router.Use(SecurityHeadersMiddleware())
	if cfg.Monitoring.MetricsEnabled {
		router.Use(metrics.HTTPMetricsMiddleware())
	}

	server := &Server{
		router:        router,
		logger:        logger,
		config:        cfg,
		flightHandler: NewFlightHandler(analyzer, calculator, cfg.Upload.MaxBytes, logger),
	}

	server.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	server.setupRoutes()

	return server, nil
}

// setupRoutes регистрирует маршруты
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/flights", s.flightHandler.DetectFlights)
		v1.POST("/distance", s.flightHandler.TravelDistance)
	}

	if s.config.Monitoring.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// Router возвращает gin engine (используется в тестах)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"address": s.config.Server.Address,
		"mode":    gin.Mode(),
	}).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown корректное завершение сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   Version,
	})
}

// ==================== Middleware ====================

// LoggerMiddleware логирование запросов
func LoggerMiddleware(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.WithFields(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"bytes_in":   c.Request.ContentLength,
		}).Info("HTTP request completed")
	}
}

// CORSMiddleware настройка CORS
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	})
}

// RateLimitMiddleware ограничение частоты запросов
func RateLimitMiddleware(limit float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "rate_limit_exceeded",
				"message": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware заголовки безопасности
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
