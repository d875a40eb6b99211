// Package metrics exposes Prometheus instrumentation for the analysis
// engine: run counts and durations, per-stage timings, solver iteration
// counts and breaker outcomes.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the engine.
type Registry struct {
	// Analysis run metrics
	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	AnalysesInFlight   prometheus.Gauge
	StageDuration      *prometheus.HistogramVec
	StageFailuresTotal *prometheus.CounterVec

	// Topology metrics
	TopologyNodesTotal       prometheus.Gauge
	TopologyEdgesTotal       prometheus.Gauge
	TopologyLoopsDetected    prometheus.Gauge
	TopologyValidationIssues *prometheus.CounterVec

	// Fault calculation metrics
	FaultCalculationsTotal *prometheus.CounterVec
	MaxFaultCurrentKA      prometheus.Gauge
	BreakerChecksTotal     *prometheus.CounterVec

	// Load-flow metrics
	LoadFlowSolvesTotal *prometheus.CounterVec
	LoadFlowIterations  prometheus.Histogram
	LoadFlowMismatch    prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAnalysisMetrics()
	r.initTopologyMetrics()
	r.initFaultMetrics()
	r.initLoadFlowMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
