// Package metrics exposes planner and model-call counters to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexanderramin/midai/internal/llm"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "midai"

// Metrics owns a private registry so tests and multiple servers never collide
// on the global one. It implements llm.Observer and service.UseCaseObserver.
type Metrics struct {
	registry *prometheus.Registry

	llmCalls       *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	useCases       *prometheus.CounterVec
	useCaseLatency *prometheus.HistogramVec
	planWarnings   *prometheus.CounterVec
	prepSources    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		llmCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Model calls by task and outcome.",
		}, []string{"task", "outcome"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "Model call latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"task"}),
		useCases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Service use-case executions by outcome.",
		}, []string{"use_case", "outcome"}),
		useCaseLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Service use-case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
		planWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_warnings_total",
			Help:      "Capacity warnings emitted while building plans, by code.",
		}, []string{"code"}),
		prepSources: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prep_generated_total",
			Help:      "Meeting preps by generator and fallback reason.",
		}, []string{"source", "fallback"}),
	}
}

// Registry returns the registry backing this instance.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnCallComplete(e llm.LLMCallEvent) {
	outcome := "ok"
	if !e.Success {
		outcome = strings.ToLower(e.ErrorCode)
		if outcome == "" {
			outcome = "error"
		}
	}
	m.llmCalls.WithLabelValues(string(e.Task), outcome).Inc()
	m.llmLatency.WithLabelValues(string(e.Task)).Observe(float64(e.LatencyMs) / 1000)
}

func (m *Metrics) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	outcome := "ok"
	if !e.Success {
		outcome = "error"
	}
	m.useCases.WithLabelValues(e.Name, outcome).Inc()
	m.useCaseLatency.WithLabelValues(e.Name).Observe(e.Duration.Seconds())

	if codes, ok := e.Fields[service.FieldWarningCodes].([]string); ok {
		for _, c := range codes {
			m.planWarnings.WithLabelValues(c).Inc()
		}
	}
	if src, ok := e.Fields[service.FieldPrepSource].(string); ok {
		fallback, _ := e.Fields[service.FieldFallback].(string)
		m.prepSources.WithLabelValues(src, fallback).Inc()
	}
}
