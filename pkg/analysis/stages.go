package analysis

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/pwrsyspro/gridcalc/pkg/loadflow"
	"github.com/pwrsyspro/gridcalc/pkg/logging"
	"github.com/pwrsyspro/gridcalc/pkg/parallel"
	"github.com/pwrsyspro/gridcalc/pkg/perunit"
	"github.com/pwrsyspro/gridcalc/pkg/shortcircuit"
	"github.com/pwrsyspro/gridcalc/pkg/topology"
	"github.com/pwrsyspro/gridcalc/pkg/ybus"
)

// Stage names used in logs and metrics.
const (
	stageNameTopology     = "topology"
	stageNamePerUnit      = "per_unit"
	stageNameImpedances   = "impedances"
	stageNameYBus         = "ybus"
	stageNameShortCircuit = "short_circuit"
	stageNameLoadFlow     = "load_flow"
	stageNameBreakers     = "breakers"
)

func (s *Service) timeStage(r *run, name string, failed *bool) func() {
	start := time.Now()
	return func() {
		s.reg.RecordStage(name, time.Since(start), *failed)
	}
}

// stageTopology computes levels and bus groups, then validates. It returns
// false when the topology carries structural errors.
func (s *Service) stageTopology(r *run) bool {
	failed := false
	defer s.timeStage(r, stageNameTopology, &failed)()

	r.graph.ComputeLevels()
	r.graph.IdentifyBuses()

	loops := r.graph.DetectLoops()
	s.reg.UpdateTopology(r.graph.NodeCount(), r.graph.EdgeCount(), len(loops))
	if len(loops) > 0 {
		r.log.Warn("topology contains loops", logging.Stage(stageNameTopology), logging.Count(len(loops)))
	}

	issues := r.graph.Validate()
	for _, issue := range issues {
		s.reg.RecordValidationIssue(string(issue.Severity))
	}
	r.result.Issues = issues

	if topology.HasErrors(issues) {
		failed = true
		for _, issue := range issues {
			if issue.Severity == topology.SeverityError {
				r.log.Error("topology error", logging.Stage(stageNameTopology),
					logging.Node(issue.NodeID), logging.String("issue", issue.Message))
			}
		}
		return false
	}
	return true
}

// stagePerUnit registers every voltage level with the per-unit context.
func (s *Service) stagePerUnit(r *run) {
	failed := false
	defer s.timeStage(r, stageNamePerUnit, &failed)()

	pu, err := perunit.NewContext(s.cfg.BaseMVA)
	if err != nil {
		// Config validation rejects a non-positive base before this point.
		failed = true
		r.result.Status = StatusInvalid
		return
	}
	for _, kv := range r.graph.VoltageLevels() {
		if _, err := pu.AddVoltageLevel(kv); err != nil {
			r.log.Warn("skipping voltage level", logging.Stage(stageNamePerUnit),
				logging.VoltageKV(kv), logging.Error(err))
		}
	}
	r.pu = pu
}

// stageImpedances converts every edge's cable or transformer impedance to
// per-unit on the system base and stores it on the edge.
func (s *Service) stageImpedances(r *run) {
	failed := false
	defer s.timeStage(r, stageNameImpedances, &failed)()

	converted, missing := 0, 0
	r.graph.Edges(func(e *topology.Edge) {
		source := r.graph.Node(e.SourceID)
		target := r.graph.Node(e.TargetID)
		if source == nil || target == nil {
			return
		}

		// The winding impedance lives on the edge leaving the transformer;
		// putting it on both adjacent edges would double-count it.
		if source.Type == topology.TypeTransformer {
			spec, ok := r.specs[source.ID]
			if ok && spec.ImpedanceZPercent > 0 {
				ratingMVA := spec.RatingKVA / 1000
				if ratingMVA <= 0 {
					ratingMVA = 1.0
				}
				z, err := r.pu.TransformerImpedancePU(spec.ImpedanceZPercent, ratingMVA, s.cfg.Transformer.XRRatio)
				if err != nil {
					r.log.Warn("transformer conversion failed", logging.Stage(stageNameImpedances),
						logging.Edge(e.ID), logging.Error(err))
					return
				}
				e.ImpedancePU = z
				converted++
				return
			}
		}

		if e.CableSpecID == "" {
			return
		}
		spec, ok := r.specs[e.CableSpecID]
		if !ok {
			missing++
			r.log.Warn("missing cable spec", logging.Stage(stageNameImpedances),
				logging.Edge(e.ID), logging.String("spec", e.CableSpecID))
			return
		}
		z, err := r.pu.CableImpedancePU(spec.ImpedanceR, spec.ImpedanceX, e.LengthM/1000, source.VoltageKV)
		if err != nil {
			r.log.Warn("cable conversion failed", logging.Stage(stageNameImpedances),
				logging.Edge(e.ID), logging.Error(err))
			return
		}
		e.ImpedancePU = z
		converted++
	})

	r.log.Info("impedances converted", logging.Stage(stageNameImpedances),
		logging.Count(converted), logging.Int("missing_specs", missing))
}

// stageYBus assembles the admittance matrix over all nodes. Parallel edges
// between the same node pair combine by admittance.
func (s *Service) stageYBus(r *run) {
	failed := false
	defer s.timeStage(r, stageNameYBus, &failed)()

	branches := make(map[ybus.Branch]complex128)
	r.graph.Edges(func(e *topology.Edge) {
		if e.ImpedancePU == 0 {
			return
		}
		key := ybus.Branch{From: e.SourceID, To: e.TargetID}
		if existing, ok := branches[key]; ok {
			branches[key] = 1.0 / (1.0/existing + 1.0/e.ImpedancePU)
			return
		}
		branches[key] = e.ImpedancePU
	})

	yb, err := ybus.Build(r.graph.NodeIDs(), branches)
	if err != nil {
		failed = true
		r.log.Warn("ybus assembly failed", logging.Stage(stageNameYBus), logging.Error(err))
		return
	}
	if n := len(yb.SkippedBranches); n > 0 {
		r.log.Warn("zero-impedance branches skipped", logging.Stage(stageNameYBus), logging.Count(n))
	}
	r.yb = yb
}

// stageFaultScan runs a three-phase fault study at every bus-like and
// load-like node. Buses are independent, so the scan fans out over the
// worker pool; a failure at one bus never blocks the others.
func (s *Service) stageFaultScan(r *run) {
	failed := false
	defer s.timeStage(r, stageNameShortCircuit, &failed)()

	motorZ, hasMotors := s.motorEquivalent(r)

	sources := r.graph.Sources()
	if len(sources) == 0 {
		failed = true
		return
	}

	cMax := func(kv float64) float64 {
		cmax, cmin := s.cfg.VoltageFactor(kv)
		if r.opts.MinimumFault {
			return cmin
		}
		return cmax
	}

	pool, err := parallel.NewWorkerPool(s.cfg.FaultScanWorkers)
	if err != nil {
		pool, _ = parallel.NewWorkerPool(1)
	}

	var mu sync.Mutex
	r.graph.Nodes(func(node *topology.Node) {
		if !node.Type.IsBusLike() && !node.Type.IsLoadLike() {
			return
		}
		pool.Submit(func() {
			res, err := s.faultAtNode(r, node, sources, motorZ, hasMotors, cMax(node.VoltageKV))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.result.FaultErrors[node.ID] = err.Error()
				s.reg.RecordFaultCalculation("error")
				r.log.Warn("fault calculation failed", logging.Stage(stageNameShortCircuit),
					logging.Node(node.ID), logging.Error(err))
				return
			}
			r.result.ShortCircuit[node.ID] = res
			s.reg.RecordFaultCalculation("ok")
		})
	})
	pool.Wait()
}

// faultAtNode finds the shortest source path to the node, sums the path
// impedance and evaluates the IEC 60909 equations there.
func (s *Service) faultAtNode(r *run, node *topology.Node, sources []string, motorZ complex128, hasMotors bool, c float64) (shortcircuit.Result, error) {
	var path []string
	for _, src := range sources {
		p, err := r.graph.FindPath(src, node.ID)
		if err != nil {
			continue
		}
		if path == nil || len(p) < len(path) {
			path = p
		}
	}
	if path == nil {
		return shortcircuit.Result{}, fmt.Errorf("%w: %s", topology.ErrNoPath, node.ID)
	}

	zFault := r.graph.PathImpedance(path)

	calc, err := shortcircuit.NewCalculator(shortcircuit.Params{
		VoltageKV:         node.VoltageKV,
		BaseMVA:           s.cfg.BaseMVA,
		SourceImpedancePU: r.opts.SourceImpedancePU,
		VoltageFactor:     c,
		FrequencyHz:       s.cfg.FrequencyHz,
	}, nil)
	if err != nil {
		return shortcircuit.Result{}, err
	}

	if hasMotors {
		return calc.ThreePhaseFaultWithMotors(zFault, motorZ)
	}
	return calc.ThreePhaseFault(zFault)
}

// motorEquivalent reduces all motor nodes with nameplate data to one
// parallel contribution impedance.
func (s *Service) motorEquivalent(r *run) (complex128, bool) {
	var motors []shortcircuit.Motor
	r.graph.Nodes(func(node *topology.Node) {
		if node.Type != topology.TypeMotor {
			return
		}
		spec, ok := r.specs[node.ID]
		if !ok || spec.PowerKW <= 0 {
			return
		}
		motors = append(motors, shortcircuit.Motor{
			PowerKW:   spec.PowerKW,
			VoltageKV: node.VoltageKV,
		})
	})
	return shortcircuit.MotorContribution(motors, s.cfg.BaseMVA, s.cfg.Motor)
}

// stageLoadFlow classifies buses, solves, and records the outcome. The
// first source (sorted by ID) is the slack; further sources become PV
// buses; load-like nodes carry spec-derived PQ injections.
func (s *Service) stageLoadFlow(r *run) {
	failed := false
	defer s.timeStage(r, stageNameLoadFlow, &failed)()

	if r.yb == nil {
		failed = true
		return
	}

	sources := append([]string(nil), r.graph.Sources()...)
	sort.Strings(sources)

	tanPhi := math.Tan(math.Acos(s.cfg.Motor.PowerFactor))

	var buses []loadflow.Bus
	r.graph.Nodes(func(node *topology.Node) {
		bus := loadflow.Bus{ID: node.ID, Type: loadflow.PQ, VSpecifiedPU: 1.0}

		switch {
		case node.Type == topology.TypeSource && node.ID == sources[0]:
			bus.Type = loadflow.Slack
		case node.Type == topology.TypeSource:
			bus.Type = loadflow.PV
		case node.Type.IsLoadLike():
			if spec, ok := r.specs[node.ID]; ok && spec.PowerKW > 0 {
				p := spec.PowerKW / 1000 / s.cfg.BaseMVA
				bus.PSpecifiedPU = -p
				bus.QSpecifiedPU = -p * tanPhi
			}
		}
		buses = append(buses, bus)
	})

	solver, err := loadflow.NewSolver(buses, r.yb, s.cfg.LoadFlow)
	if err != nil {
		failed = true
		r.result.Status = StatusIncomplete
		r.log.Warn("load flow setup failed", logging.Stage(stageNameLoadFlow), logging.Error(err))
		return
	}

	res := solver.Solve()
	r.result.LoadFlow = &res
	s.reg.RecordLoadFlow(res.Converged, res.Iterations, res.MaxMismatch)
	if !res.Converged {
		failed = true
		r.result.Status = StatusIncomplete
		r.log.Warn("load flow did not converge", logging.Stage(stageNameLoadFlow),
			logging.Iterations(res.Iterations), logging.Mismatch(res.MaxMismatch))
		return
	}
	r.log.Info("load flow converged", logging.Stage(stageNameLoadFlow),
		logging.Iterations(res.Iterations))
}

// stageBreakers validates every breaker against the worst downstream fault.
// It consumes the fault-scan output and is unaffected by load-flow state.
func (s *Service) stageBreakers(r *run) {
	failed := false
	defer s.timeStage(r, stageNameBreakers, &failed)()

	r.graph.Nodes(func(node *topology.Node) {
		if node.Type != topology.TypeBreaker {
			return
		}

		rating := 10.0
		if spec, ok := r.specs[node.ID]; ok && spec.ShortCircuitRatingKA > 0 {
			rating = spec.ShortCircuitRatingKA
		}

		maxFault := 0.0
		for _, downID := range r.graph.DownstreamClosure(node.ID) {
			if sc, ok := r.result.ShortCircuit[downID]; ok && sc.InitialKA > maxFault {
				maxFault = sc.InitialKA
			}
		}
		if maxFault == 0 {
			return
		}

		v, err := shortcircuit.ValidateBreaker(maxFault, rating, s.cfg.BreakerSafetyMargin)
		if err != nil {
			r.log.Warn("breaker validation failed", logging.Stage(stageNameBreakers),
				logging.Node(node.ID), logging.Error(err))
			return
		}
		r.result.Breakers[node.ID] = v
		s.reg.RecordBreakerCheck(v.IsAdequate)
	})
}

// compileSummary aggregates the stage outputs.
func (s *Service) compileSummary(r *run) {
	sum := Summary{}

	for busID, sc := range r.result.ShortCircuit {
		sum.ShortCircuit.BusesAnalyzed++
		if sc.InitialKA > sum.ShortCircuit.MaxFaultCurrentKA {
			sum.ShortCircuit.MaxFaultCurrentKA = sc.InitialKA
			sum.ShortCircuit.MaxFaultBus = busID
		}
	}
	s.reg.MaxFaultCurrentKA.Set(sum.ShortCircuit.MaxFaultCurrentKA)

	for _, v := range r.result.Breakers {
		sum.Breakers.Total++
		if v.IsAdequate {
			sum.Breakers.Pass++
		} else {
			sum.Breakers.Fail++
		}
	}

	if lf := r.result.LoadFlow; lf != nil {
		sum.LoadFlow = &LoadFlowSummary{
			Converged:     lf.Converged,
			Iterations:    lf.Iterations,
			TotalLoadMW:   lf.TotalLoadP * s.cfg.BaseMVA,
			TotalLossesMW: lf.TotalLossesP * s.cfg.BaseMVA,
		}
	}

	r.result.Summary = sum
}
