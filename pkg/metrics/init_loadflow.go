package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLoadFlowMetrics() {
	r.LoadFlowSolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcalc_loadflow_solves_total",
			Help: "Load-flow solves by convergence outcome",
		},
		[]string{"outcome"},
	)

	r.LoadFlowIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gridcalc_loadflow_iterations",
			Help:    "Newton-Raphson iterations per solve",
			Buckets: []float64{1, 2, 3, 5, 8, 12, 20, 50},
		},
	)

	r.LoadFlowMismatch = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridcalc_loadflow_final_mismatch_pu",
			Help: "Final power mismatch of the most recent solve",
		},
	)
}
