package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlp_requests_total",
			Help: "Total number of analysis requests received per task",
		},
		[]string{"task"},
	)

	AnalysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlp_request_failures_total",
			Help: "Total number of analysis requests that ended in error per task",
		},
		[]string{"task"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "llm_request_duration_seconds",
			Help: "Duration of outbound LLM completion calls in seconds",
		},
		[]string{"task"},
	)
)
