package topology

import (
	"errors"
	"math"
	"testing"
)

func TestComputeLevels(t *testing.T) {
	g := buildRadialNetwork(t)
	g.ComputeLevels()

	want := map[string]int{
		"src": 0,
		"tx":  1,
		"bus": 2,
		"c1":  3,
		"m1":  4,
		"c2":  3,
		"m2":  4,
	}
	for id, level := range want {
		if got := g.Node(id).Level; got != level {
			t.Errorf("level(%s) = %d, want %d", id, got, level)
		}
	}
}

func TestComputeLevelsTakesMinimumAcrossSources(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "s1", Type: TypeSource, VoltageKV: 11})
	g.AddNode(&Node{ID: "s2", Type: TypeSource, VoltageKV: 11})
	g.AddNode(&Node{ID: "a", Type: TypeBus, VoltageKV: 11})
	g.AddNode(&Node{ID: "b", Type: TypeBus, VoltageKV: 11})
	g.AddEdge(&Edge{ID: "e1", SourceID: "s1", TargetID: "a"})
	g.AddEdge(&Edge{ID: "e2", SourceID: "a", TargetID: "b"})
	g.AddEdge(&Edge{ID: "e3", SourceID: "s2", TargetID: "b"})

	g.ComputeLevels()

	// b is level 2 via s1 but level 1 via s2; minimum wins
	if got := g.Node("b").Level; got != 1 {
		t.Errorf("level(b) = %d, want 1", got)
	}
}

func TestComputeLevelsMarksUnreachable(t *testing.T) {
	g := buildRadialNetwork(t)
	g.AddNode(&Node{ID: "island", Type: TypeLoad, VoltageKV: 0.4})
	g.ComputeLevels()

	if got := g.Node("island").Level; got != UnreachableLevel {
		t.Errorf("level(island) = %d, want %d", got, UnreachableLevel)
	}
}

func TestIdentifyBuses(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "src", Type: TypeSource, VoltageKV: 11})
	g.AddNode(&Node{ID: "b1", Type: TypeBus, VoltageKV: 0.4})
	g.AddNode(&Node{ID: "sw", Type: TypeSwitchgear, VoltageKV: 0.4})
	g.AddNode(&Node{ID: "b2", Type: TypeBusbar, VoltageKV: 0.4})
	g.AddNode(&Node{ID: "hv", Type: TypeBus, VoltageKV: 11})
	g.AddEdge(&Edge{ID: "e1", SourceID: "src", TargetID: "hv"})
	g.AddEdge(&Edge{ID: "e2", SourceID: "hv", TargetID: "b1"})
	g.AddEdge(&Edge{ID: "e3", SourceID: "b1", TargetID: "sw"})
	g.AddEdge(&Edge{ID: "e4", SourceID: "sw", TargetID: "b2"})

	buses := g.IdentifyBuses()

	// b1, sw, b2 chain at 0.4 kV; hv sits alone at 11 kV
	if len(buses) != 2 {
		t.Fatalf("expected 2 buses, got %d: %v", len(buses), buses)
	}
	if g.Node("b1").BusName == "" || g.Node("b1").BusName != g.Node("b2").BusName {
		t.Errorf("b1 and b2 should share a bus, got %q and %q",
			g.Node("b1").BusName, g.Node("b2").BusName)
	}
	if g.Node("hv").BusName == g.Node("b1").BusName {
		t.Error("bus group must not span voltage levels")
	}
}

func TestIdentifyBusesIsIdempotent(t *testing.T) {
	g := buildRadialNetwork(t)

	first := g.IdentifyBuses()
	second := g.IdentifyBuses()

	if len(first) != len(second) {
		t.Fatalf("bus count changed between runs: %d vs %d", len(first), len(second))
	}
	for name, members := range first {
		again, ok := second[name]
		if !ok {
			t.Errorf("bus %s missing on second run", name)
			continue
		}
		if len(members) != len(again) {
			t.Errorf("bus %s membership changed: %v vs %v", name, members, again)
		}
	}
}

func TestDetectLoops(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "src", Type: TypeSource, VoltageKV: 11})
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(&Node{ID: id, Type: TypeBus, VoltageKV: 11})
	}
	g.AddEdge(&Edge{ID: "e1", SourceID: "src", TargetID: "a"})
	g.AddEdge(&Edge{ID: "e2", SourceID: "a", TargetID: "b"})
	g.AddEdge(&Edge{ID: "e3", SourceID: "b", TargetID: "c"})
	g.AddEdge(&Edge{ID: "e4", SourceID: "c", TargetID: "a"})

	loops := g.DetectLoops()
	if len(loops) != 1 {
		t.Fatalf("expected exactly 1 loop, got %d: %v", len(loops), loops)
	}
	loop := loops[0]
	for _, id := range []string{"a", "b", "c"} {
		if !loop.Contains(id) {
			t.Errorf("loop %v missing node %s", loop, id)
		}
	}
	if loop.Contains("src") {
		t.Errorf("loop %v must not contain the source", loop)
	}
}

func TestDetectLoopsRadialNetworkHasNone(t *testing.T) {
	g := buildRadialNetwork(t)
	if loops := g.DetectLoops(); len(loops) != 0 {
		t.Errorf("radial network reported loops: %v", loops)
	}
}

func TestFindPath(t *testing.T) {
	g := buildRadialNetwork(t)

	path, err := g.FindPath("src", "m1")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	want := []string{"src", "tx", "bus", "c1", "m1"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %s, want %s", i, path[i], want[i])
		}
	}
}

func TestFindPathNoRoute(t *testing.T) {
	g := buildRadialNetwork(t)

	// Directed graph: no path from motor back to source
	_, err := g.FindPath("m1", "src")
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
}

func TestPathImpedance(t *testing.T) {
	g := buildRadialNetwork(t)

	path, err := g.FindPath("src", "m1")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	z := g.PathImpedance(path)
	want := (0.05 + 0.15i) + (0.01 + 0.03i) + (0.008 + 0.004i)
	if math.Abs(real(z)-real(want)) > 1e-12 || math.Abs(imag(z)-imag(want)) > 1e-12 {
		t.Errorf("PathImpedance = %v, want %v", z, want)
	}
}

func TestFeederLoads(t *testing.T) {
	g := buildRadialNetwork(t)

	loads := g.FeederLoads("bus")
	if len(loads) != 2 {
		t.Fatalf("FeederLoads = %v, want 2 motors", loads)
	}
}

func TestValidateFindsUnreachableNode(t *testing.T) {
	g := buildRadialNetwork(t)
	g.AddNode(&Node{ID: "orphan", Type: TypeLoad, Tag: "L-ORPHAN", VoltageKV: 0.4})
	g.ComputeLevels()

	issues := g.Validate()
	if !HasErrors(issues) {
		t.Fatal("expected error issue for unreachable node")
	}

	found := false
	for _, issue := range issues {
		if issue.NodeID == "orphan" && issue.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("no error issue names the orphan node: %v", issues)
	}
}

func TestValidateWarnsMixedVoltageSources(t *testing.T) {
	g := buildRadialNetwork(t)
	g.AddNode(&Node{ID: "src2", Type: TypeSource, VoltageKV: 33.0})
	g.AddEdge(&Edge{ID: "e7", SourceID: "src2", TargetID: "tx"})
	g.ComputeLevels()

	warned := false
	for _, issue := range g.Validate() {
		if issue.Severity == SeverityWarning && issue.NodeID == "" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected warning for sources at different voltage levels")
	}
}

func TestSnapshotIsDeterministic(t *testing.T) {
	g := buildRadialNetwork(t)
	g.ComputeLevels()
	g.IdentifyBuses()

	a := g.Snapshot()
	b := g.Snapshot()

	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		t.Fatal("snapshot sizes differ between calls")
	}
	for i := range a.Nodes {
		if a.Nodes[i].ID != b.Nodes[i].ID {
			t.Errorf("node order differs at %d: %s vs %s", i, a.Nodes[i].ID, b.Nodes[i].ID)
		}
	}
}
