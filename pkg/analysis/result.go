package analysis

import (
	"time"

	"github.com/pwrsyspro/gridcalc/pkg/loadflow"
	"github.com/pwrsyspro/gridcalc/pkg/shortcircuit"
	"github.com/pwrsyspro/gridcalc/pkg/topology"
)

// Status distinguishes a usable result from one needing caller action.
type Status string

const (
	// StatusComplete means every requested stage finished.
	StatusComplete Status = "complete"
	// StatusIncomplete means some stage degraded (load-flow divergence,
	// wall-clock budget) but the remaining results are trustworthy.
	// Re-running with adjusted tolerances may complete it.
	StatusIncomplete Status = "incomplete"
	// StatusInvalid means the topology or input data needs fixing before
	// any analysis can run.
	StatusInvalid Status = "invalid"
)

// ShortCircuitSummary aggregates the fault scan.
type ShortCircuitSummary struct {
	BusesAnalyzed     int     `json:"buses_analyzed"`
	MaxFaultCurrentKA float64 `json:"max_fault_current_ka"`
	MaxFaultBus       string  `json:"max_fault_bus"`
}

// BreakerSummary aggregates breaker adequacy checks.
type BreakerSummary struct {
	Total int `json:"total"`
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
}

// LoadFlowSummary aggregates the load-flow stage in engineering units.
type LoadFlowSummary struct {
	Converged     bool    `json:"converged"`
	Iterations    int     `json:"iterations"`
	TotalLoadMW   float64 `json:"total_load_mw"`
	TotalLossesMW float64 `json:"total_losses_mw"`
}

// Summary is the compiled overview handed to the report generator.
type Summary struct {
	ShortCircuit ShortCircuitSummary `json:"short_circuit"`
	Breakers     BreakerSummary      `json:"breakers"`
	LoadFlow     *LoadFlowSummary    `json:"load_flow,omitempty"`
}

// Result is the complete outcome of one analysis run.
type Result struct {
	RunID    string        `json:"run_id"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`

	Issues []topology.Issue `json:"issues,omitempty"`

	// ShortCircuit holds per-bus fault results; FaultErrors records the
	// buses whose evaluation failed, keyed by node ID.
	ShortCircuit map[string]shortcircuit.Result `json:"short_circuit"`
	FaultErrors  map[string]string              `json:"fault_errors,omitempty"`

	LoadFlow *loadflow.Result `json:"load_flow,omitempty"`

	Breakers map[string]shortcircuit.BreakerValidation `json:"breakers"`

	Summary Summary `json:"summary"`
}
