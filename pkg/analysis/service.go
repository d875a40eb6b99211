// Package analysis orchestrates a full network study: per-unit setup,
// impedance conversion, Y-bus assembly, the per-bus fault scan, load flow
// and breaker validation, compiled into one result.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pwrsyspro/gridcalc/pkg/config"
	"github.com/pwrsyspro/gridcalc/pkg/logging"
	"github.com/pwrsyspro/gridcalc/pkg/metrics"
	"github.com/pwrsyspro/gridcalc/pkg/perunit"
	"github.com/pwrsyspro/gridcalc/pkg/shortcircuit"
	"github.com/pwrsyspro/gridcalc/pkg/topology"
	"github.com/pwrsyspro/gridcalc/pkg/validation"
	"github.com/pwrsyspro/gridcalc/pkg/ybus"
)

// DefaultSourceImpedancePU is the utility source impedance assumed when
// the caller supplies none.
var DefaultSourceImpedancePU = complex(0.05, 0.5)

// Options selects the optional stages and boundary assumptions of a run.
type Options struct {
	// RunLoadFlow enables the Newton-Raphson stage.
	RunLoadFlow bool
	// SourceImpedancePU overrides the assumed upstream network impedance.
	SourceImpedancePU complex128
	// MinimumFault selects the minimum-fault voltage factor (c_min)
	// instead of the maximum-fault one.
	MinimumFault bool
}

// Service runs integrated analyses. It holds no per-run state, so one
// Service may serve concurrent runs.
type Service struct {
	cfg *config.EngineConfig
	log logging.Logger
	reg *metrics.Registry
}

// NewService builds a service. Nil config, logger or registry select the
// package defaults.
func NewService(cfg *config.EngineConfig, log logging.Logger, reg *metrics.Registry) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Service{cfg: cfg, log: log, reg: reg}
}

// run carries the per-run state threaded through the stages.
type run struct {
	ctx   context.Context
	log   logging.Logger
	graph *topology.Graph
	specs map[string]validation.ComponentSpec
	opts  Options

	pu *perunit.Context
	yb *ybus.YBus

	result *Result
}

// Run executes the analysis pipeline over a topology snapshot. Structural
// topology errors yield a StatusInvalid result; non-convergence and budget
// exhaustion degrade to StatusIncomplete. The error return is reserved for
// programming errors (nil graph, bad config), not analysis outcomes.
func (s *Service) Run(ctx context.Context, g *topology.Graph, specs map[string]validation.ComponentSpec, opts Options) (*Result, error) {
	if s.cfg.WallClockBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.WallClockBudget)
		defer cancel()
	}
	if opts.SourceImpedancePU == 0 {
		opts.SourceImpedancePU = DefaultSourceImpedancePU
	}

	runID := uuid.NewString()
	log := s.log.With(logging.Component("analysis"), logging.RunID(runID))
	start := time.Now()

	s.reg.AnalysesInFlight.Inc()
	defer s.reg.AnalysesInFlight.Dec()

	r := &run{
		ctx:   ctx,
		log:   log,
		graph: g,
		specs: specs,
		opts:  opts,
		result: &Result{
			RunID:        runID,
			Status:       StatusComplete,
			ShortCircuit: make(map[string]shortcircuit.Result),
			FaultErrors:  make(map[string]string),
			Breakers:     make(map[string]shortcircuit.BreakerValidation),
		},
	}

	log.Info("analysis started",
		logging.Count(g.NodeCount()),
		logging.Bool("load_flow", opts.RunLoadFlow))

	s.pipeline(r)

	r.result.Duration = time.Since(start)
	s.reg.RecordAnalysis(string(r.result.Status), r.result.Duration)
	log.Info("analysis finished",
		logging.String("status", string(r.result.Status)),
		logging.Latency(r.result.Duration))

	return r.result, nil
}

// pipeline runs the stages in order, honoring the isolation rules: a
// structural failure stops topology-dependent stages, everything else
// degrades the status and continues.
func (s *Service) pipeline(r *run) {
	if !s.stageTopology(r) {
		r.result.Status = StatusInvalid
		return
	}
	if s.budgetExceeded(r) {
		return
	}

	s.stagePerUnit(r)
	s.stageImpedances(r)
	if s.budgetExceeded(r) {
		return
	}

	s.stageYBus(r)
	if s.budgetExceeded(r) {
		return
	}

	s.stageFaultScan(r)
	if s.budgetExceeded(r) {
		return
	}

	if r.opts.RunLoadFlow {
		s.stageLoadFlow(r)
	}

	s.stageBreakers(r)
	s.compileSummary(r)
}

// budgetExceeded marks the run incomplete when the wall-clock budget or
// the caller's context has expired.
func (s *Service) budgetExceeded(r *run) bool {
	if err := r.ctx.Err(); err != nil {
		r.log.Warn("analysis budget exhausted", logging.Error(err))
		r.result.Status = StatusIncomplete
		return true
	}
	return false
}
