package metrics

import (
	"time"
)

// RecordAnalysis records one completed analysis run.
func (r *Registry) RecordAnalysis(status string, duration time.Duration) {
	r.AnalysesTotal.WithLabelValues(status).Inc()
	r.AnalysisDuration.Observe(duration.Seconds())
}

// RecordStage records one stage execution; failed stages also bump the
// failure counter.
func (r *Registry) RecordStage(stage string, duration time.Duration, failed bool) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if failed {
		r.StageFailuresTotal.WithLabelValues(stage).Inc()
	}
}

// UpdateTopology records the size and loop count of the analyzed network.
func (r *Registry) UpdateTopology(nodes, edges, loops int) {
	r.TopologyNodesTotal.Set(float64(nodes))
	r.TopologyEdgesTotal.Set(float64(edges))
	r.TopologyLoopsDetected.Set(float64(loops))
}

// RecordValidationIssue counts one topology validation finding.
func (r *Registry) RecordValidationIssue(severity string) {
	r.TopologyValidationIssues.WithLabelValues(severity).Inc()
}

// RecordFaultCalculation counts one per-bus fault calculation.
func (r *Registry) RecordFaultCalculation(status string) {
	r.FaultCalculationsTotal.WithLabelValues(status).Inc()
}

// RecordBreakerCheck counts one breaker adequacy check.
func (r *Registry) RecordBreakerCheck(adequate bool) {
	outcome := "pass"
	if !adequate {
		outcome = "fail"
	}
	r.BreakerChecksTotal.WithLabelValues(outcome).Inc()
}

// RecordLoadFlow records the outcome of one load-flow solve.
func (r *Registry) RecordLoadFlow(converged bool, iterations int, mismatch float64) {
	outcome := "converged"
	if !converged {
		outcome = "diverged"
	}
	r.LoadFlowSolvesTotal.WithLabelValues(outcome).Inc()
	r.LoadFlowIterations.Observe(float64(iterations))
	r.LoadFlowMismatch.Set(mismatch)
}
