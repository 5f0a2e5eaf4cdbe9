// Package telemetry collects prometheus metrics for the pipeline.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry owns a private registry so tests and embedded use never fight
// over the global one. A nil *Telemetry is a valid no-op recorder.
type Telemetry struct {
	registry *prometheus.Registry

	orchestrations *prometheus.CounterVec
	llmCalls       *prometheus.CounterVec
	llmDuration    *prometheus.HistogramVec
	tokensCounted  prometheus.Counter
}

// New creates a Telemetry with all collectors registered.
func New() *Telemetry {
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		registry: reg,
		orchestrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackr_orchestrations_total",
			Help: "Completed orchestration cycles by outcome.",
		}, []string{"outcome"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackr_llm_calls_total",
			Help: "Language model calls by pipeline stage and result.",
		}, []string{"stage", "result"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackr_llm_call_duration_seconds",
			Help:    "Language model call latency by pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		tokensCounted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stackr_tokens_estimated_total",
			Help: "Tokens counted by the estimator for budget display.",
		}),
	}
	reg.MustRegister(t.orchestrations, t.llmCalls, t.llmDuration, t.tokensCounted)
	return t
}

// Handler exposes the registry for the /metrics endpoint.
func (t *Telemetry) Handler() http.Handler {
	if t == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordOrchestration counts one finished cycle with outcome "ok" or "error".
func (t *Telemetry) RecordOrchestration(outcome string) {
	if t == nil {
		return
	}
	t.orchestrations.WithLabelValues(outcome).Inc()
}

// RecordLLMCall counts one completion call and its latency.
func (t *Telemetry) RecordLLMCall(stage string, d time.Duration, err error) {
	if t == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	t.llmCalls.WithLabelValues(stage, result).Inc()
	t.llmDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddTokens accumulates estimated token counts.
func (t *Telemetry) AddTokens(n int) {
	if t == nil || n <= 0 {
		return
	}
	t.tokensCounted.Add(float64(n))
}
