package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFaultMetrics() {
	r.FaultCalculationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcalc_fault_calculations_total",
			Help: "Per-bus short-circuit calculations by status",
		},
		[]string{"status"},
	)

	r.MaxFaultCurrentKA = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridcalc_max_fault_current_ka",
			Help: "Maximum fault current found in the most recent analysis",
		},
	)

	r.BreakerChecksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcalc_breaker_checks_total",
			Help: "Breaker adequacy checks by outcome",
		},
		[]string{"outcome"},
	)
}
