package ybus

import (
	"math/cmplx"
)

// Matrix is a dense square complex matrix in row-major order.
type Matrix struct {
	n    int
	data []complex128
}

// NewMatrix creates an n×n zero matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]complex128, n*n)}
}

// Size returns the matrix dimension.
func (m *Matrix) Size() int {
	return m.n
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) complex128 {
	return m.data[i*m.n+j]
}

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v complex128) {
	m.data[i*m.n+j] = v
}

// Add accumulates v into element (i, j).
func (m *Matrix) Add(i, j int, v complex128) {
	m.data[i*m.n+j] += v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	cp := NewMatrix(m.n)
	copy(cp.data, m.data)
	return cp
}

// RowSum returns the sum of row i.
func (m *Matrix) RowSum(i int) complex128 {
	sum := complex(0, 0)
	for j := 0; j < m.n; j++ {
		sum += m.At(i, j)
	}
	return sum
}

// singularityThreshold bounds the pivot magnitude below which factorization
// treats the matrix as singular.
const singularityThreshold = 1e-12

// luFactor computes an in-place LU factorization with partial pivoting.
// Returns the row permutation, or ErrSingularMatrix when no usable pivot
// remains (an electrically isolated node produces exactly this).
func (m *Matrix) luFactor() ([]int, error) {
	n := m.n
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for col := 0; col < n; col++ {
		// Partial pivoting: pick the largest remaining magnitude in the column
		pivotRow := col
		pivotMag := cmplx.Abs(m.At(col, col))
		for row := col + 1; row < n; row++ {
			if mag := cmplx.Abs(m.At(row, col)); mag > pivotMag {
				pivotMag = mag
				pivotRow = row
			}
		}
		if pivotMag < singularityThreshold {
			return nil, ErrSingularMatrix
		}
		if pivotRow != col {
			m.swapRows(col, pivotRow)
			perm[col], perm[pivotRow] = perm[pivotRow], perm[col]
		}

		pivot := m.At(col, col)
		for row := col + 1; row < n; row++ {
			factor := m.At(row, col) / pivot
			m.Set(row, col, factor)
			for k := col + 1; k < n; k++ {
				m.Add(row, k, -factor*m.At(col, k))
			}
		}
	}

	return perm, nil
}

func (m *Matrix) swapRows(a, b int) {
	for j := 0; j < m.n; j++ {
		va, vb := m.At(a, j), m.At(b, j)
		m.Set(a, j, vb)
		m.Set(b, j, va)
	}
}

// Solve solves m·x = b by LU factorization. m is not modified.
func (m *Matrix) Solve(b []complex128) ([]complex128, error) {
	if len(b) != m.n {
		return nil, ErrDimensionMismatch
	}

	lu := m.Clone()
	perm, err := lu.luFactor()
	if err != nil {
		return nil, err
	}
	return lu.luSolve(perm, b), nil
}

// luSolve applies forward and back substitution on a factored matrix.
func (m *Matrix) luSolve(perm []int, b []complex128) []complex128 {
	n := m.n

	// Forward substitution with permuted right-hand side
	y := make([]complex128, n)
	for i := 0; i < n; i++ {
		y[i] = b[perm[i]]
		for j := 0; j < i; j++ {
			y[i] -= m.At(i, j) * y[j]
		}
	}

	// Back substitution
	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		x[i] = y[i]
		for j := i + 1; j < n; j++ {
			x[i] -= m.At(i, j) * x[j]
		}
		x[i] /= m.At(i, i)
	}
	return x
}

// Inverse returns m⁻¹, or ErrSingularMatrix.
func (m *Matrix) Inverse() (*Matrix, error) {
	n := m.n
	lu := m.Clone()
	perm, err := lu.luFactor()
	if err != nil {
		return nil, err
	}

	inv := NewMatrix(n)
	e := make([]complex128, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		x := lu.luSolve(perm, e)
		for row := 0; row < n; row++ {
			inv.Set(row, col, x[row])
		}
	}
	return inv, nil
}
