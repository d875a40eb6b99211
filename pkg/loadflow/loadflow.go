// Package loadflow solves the AC power-flow equations with the
// Newton-Raphson method on a polar bus-voltage state.
package loadflow

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/pwrsyspro/gridcalc/pkg/config"
	"github.com/pwrsyspro/gridcalc/pkg/ybus"
)

// BusType partitions buses by which quantities are boundary conditions.
type BusType int

const (
	// Slack is the reference bus: voltage and angle fixed.
	Slack BusType = iota
	// PV is a generator bus: real power and voltage magnitude fixed.
	PV
	// PQ is a load bus: real and reactive power fixed.
	PQ
)

func (t BusType) String() string {
	switch t {
	case Slack:
		return "slack"
	case PV:
		return "pv"
	case PQ:
		return "pq"
	default:
		return fmt.Sprintf("BusType(%d)", int(t))
	}
}

// Bus is one bus's boundary conditions. Power is in per-unit with
// generation positive and load negative.
type Bus struct {
	ID   string
	Type BusType

	PSpecifiedPU      float64
	QSpecifiedPU      float64
	VSpecifiedPU      float64
	ThetaSpecifiedRad float64
}

// BusState is the solved operating point of one bus.
type BusState struct {
	ID            string  `json:"id"`
	Type          BusType `json:"-"`
	VMagnitudePU  float64 `json:"v_magnitude_pu"`
	VAngleRad     float64 `json:"v_angle_rad"`
	PCalculatedPU float64 `json:"p_calculated_pu"`
	QCalculatedPU float64 `json:"q_calculated_pu"`
}

// Voltage returns the bus voltage as a phasor.
func (s BusState) Voltage() complex128 {
	return cmplx.Rect(s.VMagnitudePU, s.VAngleRad)
}

// Result is the terminal state of one load-flow solve. A non-converged
// solve still carries the last computed state; callers check Converged
// before trusting the numbers.
type Result struct {
	Converged   bool    `json:"converged"`
	Iterations  int     `json:"iterations"`
	MaxMismatch float64 `json:"max_mismatch_pu"`

	Buses map[string]BusState `json:"buses"`

	TotalGenerationP float64 `json:"total_generation_p_pu"`
	TotalGenerationQ float64 `json:"total_generation_q_pu"`
	TotalLoadP       float64 `json:"total_load_p_pu"`
	TotalLoadQ       float64 `json:"total_load_q_pu"`
	TotalLossesP     float64 `json:"total_losses_p_pu"`
	TotalLossesQ     float64 `json:"total_losses_q_pu"`
}

// Solver runs Newton-Raphson iterations over a fixed bus set and Y-bus.
// The solver is built once per analysis; Solve may be called repeatedly
// with the same inputs (an already-converged state returns immediately).
type Solver struct {
	yb  *ybus.YBus
	cfg config.LoadFlowConfig

	buses    []Bus // ordered by matrix index
	nonSlack []int // matrix indices of non-slack buses
	pq       []int // matrix indices of PQ buses
	slack    int

	// warm state kept between Solve calls for idempotent re-solves
	v      []float64
	theta  []float64
	primed bool
}

// NewSolver validates the bus set against the admittance matrix and
// prepares the unknown ordering: angles of all non-slack buses first,
// then magnitudes of PQ buses.
func NewSolver(buses []Bus, yb *ybus.YBus, cfg config.LoadFlowConfig) (*Solver, error) {
	if len(buses) != yb.Size() {
		return nil, fmt.Errorf("%w: %d buses, %d matrix rows", ErrSizeMismatch, len(buses), yb.Size())
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 20
	}
	if cfg.TolerancePU <= 0 {
		cfg.TolerancePU = 1e-6
	}

	s := &Solver{
		yb:    yb,
		cfg:   cfg,
		buses: make([]Bus, yb.Size()),
		slack: -1,
	}

	for _, b := range buses {
		idx, ok := yb.Index(b.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBusNotInMatrix, b.ID)
		}
		if b.VSpecifiedPU == 0 {
			b.VSpecifiedPU = 1.0
		}
		s.buses[idx] = b
	}

	for idx, b := range s.buses {
		switch b.Type {
		case Slack:
			if s.slack >= 0 {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleSlackBuses, s.buses[s.slack].ID, b.ID)
			}
			s.slack = idx
		case PQ:
			s.nonSlack = append(s.nonSlack, idx)
			s.pq = append(s.pq, idx)
		case PV:
			s.nonSlack = append(s.nonSlack, idx)
		}
	}
	if s.slack < 0 {
		return nil, ErrNoSlackBus
	}
	return s, nil
}

// Solve iterates until the power mismatch drops below tolerance or the
// iteration budget is spent. Divergence and a singular Jacobian both end
// in a Converged=false result rather than an error; Iterations counts
// state updates, so re-solving a converged state reports zero.
func (s *Solver) Solve() Result {
	n := len(s.buses)

	if !s.primed {
		// Flat start, overridden by slack and PV boundary conditions.
		s.v = make([]float64, n)
		s.theta = make([]float64, n)
		for i, b := range s.buses {
			s.v[i] = 1.0
			switch b.Type {
			case Slack:
				s.v[i] = b.VSpecifiedPU
				s.theta[i] = b.ThetaSpecifiedRad
			case PV:
				s.v[i] = b.VSpecifiedPU
			}
		}
		s.primed = true
	}

	var (
		converged    bool
		iterations   int
		maxMismatch  = math.Inf(1)
		pCalc, qCalc []float64
	)

	for {
		pCalc, qCalc = s.calculatePower(s.v, s.theta)

		mismatch, maxAbs := s.mismatchVector(pCalc, qCalc)
		maxMismatch = maxAbs
		if maxMismatch < s.cfg.TolerancePU {
			converged = true
			break
		}
		if iterations >= s.cfg.MaxIterations {
			break
		}

		jac := s.buildJacobian(s.v, s.theta, pCalc, qCalc)
		delta, err := jac.Solve(asComplex(mismatch))
		if err != nil {
			// Singular Jacobian: terminal non-converged state.
			break
		}
		s.applyCorrection(delta)
		iterations++
	}

	return s.compileResult(converged, iterations, maxMismatch, pCalc, qCalc)
}

// calculatePower evaluates the power-flow equations at the given state:
//
//	P_i = Σ V_i·V_j·|Y_ij|·cos(θ_i − θ_j − φ_ij)
//	Q_i = Σ V_i·V_j·|Y_ij|·sin(θ_i − θ_j − φ_ij)
func (s *Solver) calculatePower(v, theta []float64) (p, q []float64) {
	n := len(s.buses)
	p = make([]float64, n)
	q = make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			y := s.yb.Matrix.At(i, j)
			if y == 0 {
				continue
			}
			yMag := cmplx.Abs(y)
			yAngle := cmplx.Phase(y)
			a := theta[i] - theta[j] - yAngle
			p[i] += v[i] * v[j] * yMag * math.Cos(a)
			q[i] += v[i] * v[j] * yMag * math.Sin(a)
		}
	}
	return p, q
}

// mismatchVector assembles specified-minus-calculated power: ΔP for every
// non-slack bus, then ΔQ for PQ buses only. The returned maximum covers
// exactly those entries.
func (s *Solver) mismatchVector(pCalc, qCalc []float64) ([]float64, float64) {
	mismatch := make([]float64, 0, len(s.nonSlack)+len(s.pq))
	maxAbs := 0.0

	for _, i := range s.nonSlack {
		dp := s.buses[i].PSpecifiedPU - pCalc[i]
		mismatch = append(mismatch, dp)
		if a := math.Abs(dp); a > maxAbs {
			maxAbs = a
		}
	}
	for _, i := range s.pq {
		dq := s.buses[i].QSpecifiedPU - qCalc[i]
		mismatch = append(mismatch, dq)
		if a := math.Abs(dq); a > maxAbs {
			maxAbs = a
		}
	}
	return mismatch, maxAbs
}

// applyCorrection adds the Newton step to the state: angle corrections for
// non-slack buses followed by magnitude corrections for PQ buses.
func (s *Solver) applyCorrection(delta []complex128) {
	for k, i := range s.nonSlack {
		s.theta[i] += real(delta[k])
	}
	off := len(s.nonSlack)
	for k, i := range s.pq {
		s.v[i] += real(delta[off+k])
	}
}

func (s *Solver) compileResult(converged bool, iterations int, maxMismatch float64, pCalc, qCalc []float64) Result {
	res := Result{
		Converged:   converged,
		Iterations:  iterations,
		MaxMismatch: maxMismatch,
		Buses:       make(map[string]BusState, len(s.buses)),
	}

	for i, b := range s.buses {
		res.Buses[b.ID] = BusState{
			ID:            b.ID,
			Type:          b.Type,
			VMagnitudePU:  s.v[i],
			VAngleRad:     s.theta[i],
			PCalculatedPU: pCalc[i],
			QCalculatedPU: qCalc[i],
		}
		if pCalc[i] > 0 {
			res.TotalGenerationP += pCalc[i]
		} else {
			res.TotalLoadP += -pCalc[i]
		}
		if qCalc[i] > 0 {
			res.TotalGenerationQ += qCalc[i]
		} else {
			res.TotalLoadQ += -qCalc[i]
		}
	}
	res.TotalLossesP = res.TotalGenerationP - res.TotalLoadP
	res.TotalLossesQ = res.TotalGenerationQ - res.TotalLoadQ
	return res
}

func asComplex(xs []float64) []complex128 {
	out := make([]complex128, len(xs))
	for i, x := range xs {
		out[i] = complex(x, 0)
	}
	return out
}
