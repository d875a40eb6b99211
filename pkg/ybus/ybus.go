// Package ybus assembles the nodal admittance matrix of a network from
// per-unit branch impedances and derives the bus impedance matrix.
package ybus

import "fmt"

// Branch identifies a directed node pair carrying an impedance.
type Branch struct {
	From string
	To   string
}

// YBus is the nodal admittance matrix together with its node ordering.
type YBus struct {
	Matrix *Matrix

	order []string
	index map[string]int

	// SkippedBranches lists branches whose impedance was zero at assembly
	// time. A zero branch impedance would mean infinite admittance; the
	// caller must treat these as unconverted or shorted branches.
	SkippedBranches []Branch
}

// Build assembles the Y-bus from a node ordering and branch impedances.
// For every branch with impedance z ≠ 0, y = 1/z is subtracted from both
// off-diagonal positions and added to both diagonal positions. Zero
// impedances are skipped and reported in SkippedBranches.
func Build(nodeIDs []string, impedances map[Branch]complex128) (*YBus, error) {
	n := len(nodeIDs)
	yb := &YBus{
		Matrix: NewMatrix(n),
		order:  make([]string, n),
		index:  make(map[string]int, n),
	}
	copy(yb.order, nodeIDs)
	for i, id := range nodeIDs {
		yb.index[id] = i
	}

	for branch, z := range impedances {
		i, ok := yb.index[branch.From]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, branch.From)
		}
		j, ok := yb.index[branch.To]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, branch.To)
		}

		if z == 0 {
			yb.SkippedBranches = append(yb.SkippedBranches, branch)
			continue
		}

		y := 1.0 / z
		yb.Matrix.Add(i, j, -y)
		yb.Matrix.Add(j, i, -y)
		yb.Matrix.Add(i, i, y)
		yb.Matrix.Add(j, j, y)
	}

	return yb, nil
}

// AddShunt adds a shunt (node-to-ground) admittance to a node's diagonal.
func (yb *YBus) AddShunt(nodeID string, y complex128) error {
	i, ok := yb.index[nodeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	yb.Matrix.Add(i, i, y)
	return nil
}

// Index returns the matrix row of a node ID.
func (yb *YBus) Index(nodeID string) (int, bool) {
	i, ok := yb.index[nodeID]
	return i, ok
}

// Order returns the node ordering of the matrix rows.
func (yb *YBus) Order() []string {
	out := make([]string, len(yb.order))
	copy(out, yb.order)
	return out
}

// Size returns the matrix dimension.
func (yb *YBus) Size() int {
	return yb.Matrix.Size()
}

// At returns the admittance between two nodes by ID.
func (yb *YBus) At(fromID, toID string) (complex128, error) {
	i, ok := yb.index[fromID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, fromID)
	}
	j, ok := yb.index[toID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, toID)
	}
	return yb.Matrix.At(i, j), nil
}

// ZBus inverts the admittance matrix into the bus impedance matrix.
// A singular Y-bus (disconnected sub-network) is reported as
// ErrSingularMatrix, never silently zeroed.
func (yb *YBus) ZBus() (*Matrix, error) {
	return yb.Matrix.Inverse()
}
