package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mooddecode-nlp/internal/alert"
	"mooddecode-nlp/internal/domain"
	"mooddecode-nlp/internal/metrics"
	"mooddecode-nlp/internal/service"
)

const alertExcerptMaxLen = 140

// AnalysisHandler mantiene dependencias para los endpoints de analisis de texto.
type AnalysisHandler struct {
	logger       *zap.Logger
	analysisServ *service.AnalysisService
	alerts       alert.Sender
}

// NewAnalysisHandler crea una instancia de AnalysisHandler con dependencias necesarias.
func NewAnalysisHandler(logger *zap.Logger, analysisServ *service.AnalysisService, alerts alert.Sender) *AnalysisHandler {
	return &AnalysisHandler{
		logger:       logger,
		analysisServ: analysisServ,
		alerts:       alerts,
	}
}

// AnalyzeMood maneja POST /analyze_mood.
func (h *AnalysisHandler) AnalyzeMood(c *gin.Context) {
	metrics.AnalysisRequests.WithLabelValues(service.TaskMood).Inc()

	text, ok := h.bindText(c)
	if !ok {
		return
	}

	result, err := h.analysisServ.AnalyzeMood(c.Request.Context(), text)
	if err != nil {
		metrics.AnalysisFailures.WithLabelValues(service.TaskMood).Inc()
		h.logger.Error("mood analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not analyze mood"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DetectCrisis maneja POST /detect_crisis.
func (h *AnalysisHandler) DetectCrisis(c *gin.Context) {
	metrics.AnalysisRequests.WithLabelValues(service.TaskCrisis).Inc()

	text, ok := h.bindText(c)
	if !ok {
		return
	}

	result, err := h.analysisServ.DetectCrisis(c.Request.Context(), text)
	if err != nil {
		metrics.AnalysisFailures.WithLabelValues(service.TaskCrisis).Inc()
		h.logger.Error("crisis detection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not detect crisis"})
		return
	}

	// Notificamos de manera asincrona para no bloquear ni afectar la respuesta.
	if result.CrisisDetected && result.Severity == domain.SeverityHigh {
		go h.notifyCrisis(result, text)
	}

	c.JSON(http.StatusOK, result)
}

// Summarize maneja POST /summarize.
func (h *AnalysisHandler) Summarize(c *gin.Context) {
	metrics.AnalysisRequests.WithLabelValues(service.TaskSummary).Inc()

	text, ok := h.bindText(c)
	if !ok {
		return
	}

	result, err := h.analysisServ.Summarize(c.Request.Context(), text)
	if err != nil {
		metrics.AnalysisFailures.WithLabelValues(service.TaskSummary).Inc()
		h.logger.Error("summarization failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not summarize text"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Root maneja GET / con un banner informativo del servicio.
func (h *AnalysisHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "MoodDecode NLP API is running!",
		"endpoints": gin.H{
			"mood_analysis":      "/analyze_mood",
			"crisis_detection":   "/detect_crisis",
			"text_summarization": "/summarize",
		},
		"status": "healthy",
	})
}

// Health maneja GET /health.
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "api": "MoodDecode NLP API"})
}

// bindText extrae el campo text del body. El string vacio es valido;
// la clave ausente o un body malformado no.
func (h *AnalysisHandler) bindText(c *gin.Context) (string, bool) {
	var req struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		h.logger.Warn("invalid analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return "", false
	}
	return *req.Text, true
}

func (h *AnalysisHandler) notifyCrisis(result domain.CrisisResult, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := alert.CrisisAlert{
		Severity:   result.Severity,
		Confidence: result.Confidence,
		Excerpt:    excerpt(text, alertExcerptMaxLen),
		DetectedAt: time.Now().UTC(),
	}
	if err := h.alerts.SendCrisisAlert(ctx, a); err != nil {
		h.logger.Warn("crisis alert failed", zap.Error(err))
		return
	}
	h.logger.Info("crisis alert sent", zap.String("severity", result.Severity))
}

func excerpt(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
