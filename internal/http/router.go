package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mooddecode-nlp/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// El rate limiter es opcional: con nil los endpoints de analisis quedan sin limite.
func NewRouter(logger *zap.Logger, analysisH *AnalysisHandler, limiter service.RequestRateLimiter) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/", analysisH.Root)
	r.GET("/health", analysisH.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analyze := r.Group("")
	if limiter != nil {
		analyze.Use(rateLimitMiddleware(logger, limiter))
	}
	analyze.POST("/analyze_mood", analysisH.AnalyzeMood)
	analyze.POST("/detect_crisis", analysisH.DetectCrisis)
	analyze.POST("/summarize", analysisH.Summarize)

	return r
}

// requestIDMiddleware asigna un id por request y lo expone en la respuesta.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// rateLimitMiddleware corta requests cuando el cliente supera su cuota.
func rateLimitMiddleware(logger *zap.Logger, limiter service.RequestRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			logger.Warn("rate limit exceeded", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
