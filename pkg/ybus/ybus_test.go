package ybus

import (
	"errors"
	"math/cmplx"
	"testing"
)

// Two-node network with one branch: diagonals +y, off-diagonals -y.
func TestBuildTwoNode(t *testing.T) {
	z := complex(0.01, 0.1)
	yb, err := Build([]string{"a", "b"}, map[Branch]complex128{
		{From: "a", To: "b"}: z,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	y := 1.0 / z
	got, _ := yb.At("a", "a")
	if cmplx.Abs(got-y) > 1e-12 {
		t.Errorf("Y[a][a] = %v, want %v", got, y)
	}
	got, _ = yb.At("a", "b")
	if cmplx.Abs(got+y) > 1e-12 {
		t.Errorf("Y[a][b] = %v, want %v", got, -y)
	}
	got, _ = yb.At("b", "a")
	if cmplx.Abs(got+y) > 1e-12 {
		t.Errorf("Y[b][a] = %v, want %v", got, -y)
	}
}

// Without shunt elements each Y-bus row sums to zero.
func TestBuildRowSumsZero(t *testing.T) {
	yb, err := Build([]string{"a", "b", "c", "d"}, map[Branch]complex128{
		{From: "a", To: "b"}: complex(0.02, 0.08),
		{From: "b", To: "c"}: complex(0.01, 0.05),
		{From: "b", To: "d"}: complex(0.03, 0.12),
		{From: "c", To: "d"}: complex(0.015, 0.06),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < yb.Size(); i++ {
		sum := yb.Matrix.RowSum(i)
		if cmplx.Abs(sum) > 1e-10 {
			t.Errorf("row %d sums to %v, want 0", i, sum)
		}
	}
}

// Zero-impedance branches are skipped and reported, never divided by.
func TestBuildSkipsZeroImpedance(t *testing.T) {
	yb, err := Build([]string{"a", "b", "c"}, map[Branch]complex128{
		{From: "a", To: "b"}: complex(0.01, 0.1),
		{From: "b", To: "c"}: 0,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(yb.SkippedBranches) != 1 {
		t.Fatalf("expected 1 skipped branch, got %d", len(yb.SkippedBranches))
	}
	sk := yb.SkippedBranches[0]
	if sk.From != "b" || sk.To != "c" {
		t.Errorf("skipped branch = %+v, want b->c", sk)
	}
	got, _ := yb.At("c", "c")
	if got != 0 {
		t.Errorf("Y[c][c] = %v, want 0 after skip", got)
	}
}

func TestBuildUnknownNode(t *testing.T) {
	_, err := Build([]string{"a"}, map[Branch]complex128{
		{From: "a", To: "ghost"}: complex(0, 0.1),
	})
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestAddShunt(t *testing.T) {
	yb, err := Build([]string{"a", "b"}, map[Branch]complex128{
		{From: "a", To: "b"}: complex(0.01, 0.1),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	shunt := complex(0, 0.02)
	if err := yb.AddShunt("a", shunt); err != nil {
		t.Fatalf("AddShunt failed: %v", err)
	}
	y := 1.0 / complex(0.01, 0.1)
	got, _ := yb.At("a", "a")
	if cmplx.Abs(got-(y+shunt)) > 1e-12 {
		t.Errorf("Y[a][a] = %v, want %v", got, y+shunt)
	}
	if err := yb.AddShunt("nope", shunt); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

// A Y-bus with an isolated node is singular and ZBus must say so.
func TestZBusIsolatedNodeSingular(t *testing.T) {
	yb, err := Build([]string{"a", "b", "island"}, map[Branch]complex128{
		{From: "a", To: "b"}: complex(0.01, 0.1),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := yb.ZBus(); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("expected ErrSingularMatrix, got %v", err)
	}
}

// A grounded network (shunt at one node) has an invertible Y-bus whose
// inverse round-trips through multiplication.
func TestZBusGrounded(t *testing.T) {
	yb, err := Build([]string{"a", "b", "c"}, map[Branch]complex128{
		{From: "a", To: "b"}: complex(0.02, 0.08),
		{From: "b", To: "c"}: complex(0.01, 0.05),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Source impedance to ground at node a.
	if err := yb.AddShunt("a", 1.0/complex(0.005, 0.05)); err != nil {
		t.Fatalf("AddShunt failed: %v", err)
	}

	zbus, err := yb.ZBus()
	if err != nil {
		t.Fatalf("ZBus failed: %v", err)
	}
	n := yb.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += yb.Matrix.At(i, k) * zbus.At(k, j)
			}
			want := complex(0, 0)
			if i == j {
				want = complex(1, 0)
			}
			if cmplx.Abs(sum-want) > 1e-9 {
				t.Errorf("(Y*Z)[%d][%d] = %v, want %v", i, j, sum, want)
			}
		}
	}
}

func TestOrderAndIndex(t *testing.T) {
	yb, err := Build([]string{"x", "y", "z"}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	order := yb.Order()
	if len(order) != 3 || order[0] != "x" || order[2] != "z" {
		t.Errorf("unexpected order %v", order)
	}
	i, ok := yb.Index("y")
	if !ok || i != 1 {
		t.Errorf("Index(y) = %d, %v", i, ok)
	}
	if _, ok := yb.Index("missing"); ok {
		t.Error("Index returned ok for missing node")
	}
}
