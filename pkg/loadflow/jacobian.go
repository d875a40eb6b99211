package loadflow

import (
	"math"
	"math/cmplx"

	"github.com/pwrsyspro/gridcalc/pkg/ybus"
)

// buildJacobian assembles the full analytic Jacobian at the current state:
//
//	J = [ ∂P/∂θ  ∂P/∂V ]
//	    [ ∂Q/∂θ  ∂Q/∂V ]
//
// Rows follow the mismatch ordering (ΔP for non-slack buses, ΔQ for PQ
// buses); columns follow the unknown ordering (θ for non-slack buses, V
// for PQ buses). With a_ij = θ_i − θ_j − φ_ij the off-diagonal blocks are
//
//	∂P_i/∂θ_j =  V_i·V_j·|Y_ij|·sin(a_ij)
//	∂P_i/∂V_j =  V_i·|Y_ij|·cos(a_ij)
//	∂Q_i/∂θ_j = −V_i·V_j·|Y_ij|·cos(a_ij)
//	∂Q_i/∂V_j =  V_i·|Y_ij|·sin(a_ij)
//
// and the diagonals reduce to the injected powers with the self-admittance
// term split out (G_ii, B_ii the rectangular parts of Y_ii):
//
//	∂P_i/∂θ_i = −Q_i − B_ii·V_i²
//	∂P_i/∂V_i =  P_i/V_i + G_ii·V_i
//	∂Q_i/∂θ_i =  P_i − G_ii·V_i²
//	∂Q_i/∂V_i =  Q_i/V_i − B_ii·V_i
func (s *Solver) buildJacobian(v, theta, pCalc, qCalc []float64) *ybus.Matrix {
	nTheta := len(s.nonSlack)
	nV := len(s.pq)
	jac := ybus.NewMatrix(nTheta + nV)

	set := func(row, col int, val float64) {
		jac.Set(row, col, complex(val, 0))
	}

	// H block: ∂P/∂θ.
	for r, i := range s.nonSlack {
		for c, j := range s.nonSlack {
			if i == j {
				bii := imag(s.yb.Matrix.At(i, i))
				set(r, c, -qCalc[i]-bii*v[i]*v[i])
				continue
			}
			y := s.yb.Matrix.At(i, j)
			if y == 0 {
				continue
			}
			a := theta[i] - theta[j] - cmplx.Phase(y)
			set(r, c, v[i]*v[j]*cmplx.Abs(y)*math.Sin(a))
		}
	}

	// N block: ∂P/∂V.
	for r, i := range s.nonSlack {
		for c, j := range s.pq {
			col := nTheta + c
			if i == j {
				gii := real(s.yb.Matrix.At(i, i))
				set(r, col, pCalc[i]/v[i]+gii*v[i])
				continue
			}
			y := s.yb.Matrix.At(i, j)
			if y == 0 {
				continue
			}
			a := theta[i] - theta[j] - cmplx.Phase(y)
			set(r, col, v[i]*cmplx.Abs(y)*math.Cos(a))
		}
	}

	// J block: ∂Q/∂θ.
	for r, i := range s.pq {
		row := nTheta + r
		for c, j := range s.nonSlack {
			if i == j {
				gii := real(s.yb.Matrix.At(i, i))
				set(row, c, pCalc[i]-gii*v[i]*v[i])
				continue
			}
			y := s.yb.Matrix.At(i, j)
			if y == 0 {
				continue
			}
			a := theta[i] - theta[j] - cmplx.Phase(y)
			set(row, c, -v[i]*v[j]*cmplx.Abs(y)*math.Cos(a))
		}
	}

	// L block: ∂Q/∂V.
	for r, i := range s.pq {
		row := nTheta + r
		for c, j := range s.pq {
			col := nTheta + c
			if i == j {
				bii := imag(s.yb.Matrix.At(i, i))
				set(row, col, qCalc[i]/v[i]-bii*v[i])
				continue
			}
			y := s.yb.Matrix.At(i, j)
			if y == 0 {
				continue
			}
			a := theta[i] - theta[j] - cmplx.Phase(y)
			set(row, col, v[i]*cmplx.Abs(y)*math.Sin(a))
		}
	}

	return jac
}
