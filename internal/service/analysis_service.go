package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mooddecode-nlp/internal/domain"
	"mooddecode-nlp/internal/llm"
	"mooddecode-nlp/internal/metrics"
)

// Nombres de tarea usados como label de metricas.
const (
	TaskMood    = "mood"
	TaskCrisis  = "crisis"
	TaskSummary = "summary"
)

// Parametros de completion por tarea.
const (
	moodTemperature    = 0.2
	moodMaxTokens      = 100
	crisisTemperature  = 0.1
	crisisMaxTokens    = 150
	summaryTemperature = 0.4
	summaryMaxTokens   = 300
)

// AnalysisService usa el LLM para clasificar emociones, evaluar riesgo de crisis y resumir textos.
type AnalysisService struct {
	llmClient llm.Client
	logger    *zap.Logger
}

func NewAnalysisService(llmClient llm.Client, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		llmClient: llmClient,
		logger:    logger,
	}
}

// AnalyzeMood clasifica el tono emocional del texto en una de las emociones soportadas.
func (s *AnalysisService) AnalyzeMood(ctx context.Context, text string) (domain.MoodResult, error) {
	raw, err := s.complete(ctx, TaskMood, llm.CompletionRequest{
		System:      moodSystemPrompt,
		User:        buildMoodPrompt(text),
		Temperature: moodTemperature,
		MaxTokens:   moodMaxTokens,
	})
	if err != nil {
		return domain.MoodResult{}, err
	}

	var parsed struct {
		Emotion    string   `json:"emotion"`
		Confidence *float64 `json:"confidence"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return domain.MoodResult{}, err
	}

	emotion := strings.ToLower(strings.TrimSpace(parsed.Emotion))
	if emotion == "" {
		return domain.MoodResult{}, fmt.Errorf("llm response missing emotion")
	}
	if !domain.IsValidEmotion(emotion) {
		return domain.MoodResult{}, fmt.Errorf("llm returned unknown emotion: %q", emotion)
	}
	if parsed.Confidence == nil {
		return domain.MoodResult{}, fmt.Errorf("llm response missing confidence")
	}

	return domain.MoodResult{
		Emotion:    emotion,
		Confidence: clamp01(*parsed.Confidence),
	}, nil
}

// DetectCrisis evalua indicadores de crisis de salud mental en el texto.
func (s *AnalysisService) DetectCrisis(ctx context.Context, text string) (domain.CrisisResult, error) {
	raw, err := s.complete(ctx, TaskCrisis, llm.CompletionRequest{
		System:      crisisSystemPrompt,
		User:        buildCrisisPrompt(text),
		Temperature: crisisTemperature,
		MaxTokens:   crisisMaxTokens,
	})
	if err != nil {
		return domain.CrisisResult{}, err
	}

	var parsed struct {
		CrisisDetected *bool    `json:"crisis_detected"`
		Severity       string   `json:"severity"`
		Confidence     *float64 `json:"confidence"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return domain.CrisisResult{}, err
	}

	if parsed.CrisisDetected == nil {
		return domain.CrisisResult{}, fmt.Errorf("llm response missing crisis_detected")
	}
	severity := strings.ToLower(strings.TrimSpace(parsed.Severity))
	if severity == "" {
		return domain.CrisisResult{}, fmt.Errorf("llm response missing severity")
	}
	if !domain.IsValidSeverity(severity) {
		return domain.CrisisResult{}, fmt.Errorf("llm returned unknown severity: %q", severity)
	}
	if parsed.Confidence == nil {
		return domain.CrisisResult{}, fmt.Errorf("llm response missing confidence")
	}

	return domain.CrisisResult{
		CrisisDetected: *parsed.CrisisDetected,
		Severity:       severity,
		Confidence:     clamp01(*parsed.Confidence),
	}, nil
}

// Summarize genera un resumen conciso del texto.
func (s *AnalysisService) Summarize(ctx context.Context, text string) (domain.SummaryResult, error) {
	raw, err := s.complete(ctx, TaskSummary, llm.CompletionRequest{
		System:      summarySystemPrompt,
		User:        buildSummaryPrompt(text),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return domain.SummaryResult{}, err
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return domain.SummaryResult{}, err
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return domain.SummaryResult{}, fmt.Errorf("llm response missing summary")
	}

	return domain.SummaryResult{Summary: summary}, nil
}

func (s *AnalysisService) complete(ctx context.Context, task string, req llm.CompletionRequest) (string, error) {
	start := time.Now()
	raw, err := s.llmClient.Complete(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("llm complete failed", zap.Error(err), zap.String("task", task))
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return raw, nil
}

// decodeModelJSON limpia la respuesta del modelo y la parsea sobre out.
func decodeModelJSON(raw string, out any) error {
	cleaned := cleanModelJSON(raw)

	candidate := firstJSONObject(cleaned)
	if candidate == "" {
		candidate = firstJSONObject(raw)
	}
	if candidate == "" {
		candidate = cleaned
	}

	if err := json.Unmarshal([]byte(candidate), out); err != nil {
		return fmt.Errorf("parse llm response: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
