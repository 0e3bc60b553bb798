package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mooddecode-nlp/internal/alert"
	"mooddecode-nlp/internal/llm"
	"mooddecode-nlp/internal/service"
)

type mockAlertSender struct {
	mu   sync.Mutex
	sent []alert.CrisisAlert
	done chan struct{}
	err  error
}

func newMockAlertSender() *mockAlertSender {
	return &mockAlertSender{done: make(chan struct{}, 1)}
}

func (m *mockAlertSender) SendCrisisAlert(_ context.Context, a alert.CrisisAlert) error {
	m.mu.Lock()
	m.sent = append(m.sent, a)
	m.mu.Unlock()
	select {
	case m.done <- struct{}{}:
	default:
	}
	return m.err
}

func (m *mockAlertSender) sentAlerts() []alert.CrisisAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]alert.CrisisAlert, len(m.sent))
	copy(out, m.sent)
	return out
}

type stubRateLimiter struct {
	allow bool
}

func (s *stubRateLimiter) Allow(_ string) bool {
	return s.allow
}

func setupRouter(llmClient llm.Client, alerts alert.Sender, limiter service.RequestRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	svc := service.NewAnalysisService(llmClient, logger)
	handler := NewAnalysisHandler(logger, svc, alerts)
	return NewRouter(logger, handler, limiter)
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeMoodEndpoint(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"emotion": "happy", "confidence": 0.9}`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/analyze_mood", `{"text": "what a great day"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Emotion    string  `json:"emotion"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Emotion != "happy" {
		t.Fatalf("expected emotion happy, got %s", resp.Emotion)
	}
	if resp.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %f", resp.Confidence)
	}
}

func TestAnalyzeMoodEndpointMissingText(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"emotion": "happy", "confidence": 0.9}`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/analyze_mood", `{"other": "field"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if llmClient.Calls != 0 {
		t.Fatalf("expected no llm calls, got %d", llmClient.Calls)
	}
}

func TestAnalyzeMoodEndpointMalformedBody(t *testing.T) {
	router := setupRouter(&llm.MockClient{}, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/analyze_mood", `{"text": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalyzeMoodEndpointEmptyText(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"emotion": "neutral", "confidence": 0.5}`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/analyze_mood", `{"text": ""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected empty text to be accepted, got %d", rec.Code)
	}
	if llmClient.Calls != 1 {
		t.Fatalf("expected llm called once, got %d", llmClient.Calls)
	}
}

func TestAnalyzeMoodEndpointProviderGarbage(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `not json at all`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/analyze_mood", `{"text": "hola"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected error message in response")
	}
}

func TestDetectCrisisEndpoint(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"crisis_detected": false, "severity": "low", "confidence": 0.7}`,
	}
	alerts := newMockAlertSender()
	router := setupRouter(llmClient, alerts, nil)

	rec := postJSON(t, router, "/detect_crisis", `{"text": "I'm having a bad day"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		CrisisDetected bool    `json:"crisis_detected"`
		Severity       string  `json:"severity"`
		Confidence     float64 `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.CrisisDetected {
		t.Fatalf("expected crisis_detected false")
	}
	if resp.Severity != "low" {
		t.Fatalf("expected severity low, got %s", resp.Severity)
	}

	if len(alerts.sentAlerts()) != 0 {
		t.Fatalf("expected no alert for low severity")
	}
}

func TestDetectCrisisEndpointHighSeverityTriggersAlert(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"crisis_detected": true, "severity": "high", "confidence": 0.95}`,
	}
	alerts := newMockAlertSender()
	router := setupRouter(llmClient, alerts, nil)

	rec := postJSON(t, router, "/detect_crisis", `{"text": "I don't want to be here anymore"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	select {
	case <-alerts.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected crisis alert to be sent")
	}

	sent := alerts.sentAlerts()
	if len(sent) != 1 {
		t.Fatalf("expected one alert, got %d", len(sent))
	}
	if sent[0].Severity != "high" {
		t.Fatalf("expected alert severity high, got %s", sent[0].Severity)
	}
	if sent[0].Excerpt == "" {
		t.Fatalf("expected alert excerpt to carry text")
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"summary": "A brief recap."}`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), nil)

	rec := postJSON(t, router, "/summarize", `{"text": "a very long story"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Summary != "A brief recap." {
		t.Fatalf("unexpected summary: %q", resp.Summary)
	}
}

func TestRateLimitMiddlewareDenies(t *testing.T) {
	llmClient := &llm.MockClient{
		Response: `{"emotion": "happy", "confidence": 0.9}`,
	}
	router := setupRouter(llmClient, newMockAlertSender(), &stubRateLimiter{allow: false})

	rec := postJSON(t, router, "/analyze_mood", `{"text": "hola"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if llmClient.Calls != 0 {
		t.Fatalf("expected no llm calls when rate limited, got %d", llmClient.Calls)
	}
}

func TestRateLimitMiddlewareSkipsHealth(t *testing.T) {
	router := setupRouter(&llm.MockClient{}, newMockAlertSender(), &stubRateLimiter{allow: false})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health exempt from rate limit, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(&llm.MockClient{}, newMockAlertSender(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		API    string `json:"api"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("expected status healthy, got %s", resp.Status)
	}
}

func TestRootEndpoint(t *testing.T) {
	router := setupRouter(&llm.MockClient{}, newMockAlertSender(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
		Status    string            `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Endpoints["mood_analysis"] != "/analyze_mood" {
		t.Fatalf("expected endpoint map, got %+v", resp.Endpoints)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(&llm.MockClient{}, newMockAlertSender(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected incoming request id to be kept, got %q", got)
	}
}
