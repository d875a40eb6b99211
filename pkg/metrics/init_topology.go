package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.TopologyNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridcalc_topology_nodes_total",
			Help: "Number of nodes in the most recently analyzed topology",
		},
	)

	r.TopologyEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridcalc_topology_edges_total",
			Help: "Number of edges in the most recently analyzed topology",
		},
	)

	r.TopologyLoopsDetected = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridcalc_topology_loops_detected",
			Help: "Number of loops found in the most recently analyzed topology",
		},
	)

	r.TopologyValidationIssues = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcalc_topology_validation_issues_total",
			Help: "Topology validation issues by severity",
		},
		[]string{"severity"},
	)
}
