package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwrsyspro/gridcalc/pkg/config"
	"github.com/pwrsyspro/gridcalc/pkg/metrics"
	"github.com/pwrsyspro/gridcalc/pkg/topology"
	"github.com/pwrsyspro/gridcalc/pkg/validation"
)

// buildPlantNetwork wires a small distribution network:
// source → breaker → transformer → 0.4 kV busbar → {motor, load}.
func buildPlantNetwork(t *testing.T) (*topology.Graph, map[string]validation.ComponentSpec) {
	t.Helper()
	g := topology.NewGraph()

	nodes := []*topology.Node{
		{ID: "src", Type: topology.TypeSource, Tag: "Utility", VoltageKV: 11},
		{ID: "brk", Type: topology.TypeBreaker, Tag: "CB-01", VoltageKV: 11},
		{ID: "tx", Type: topology.TypeTransformer, Tag: "TX-01", VoltageKV: 11},
		{ID: "bus", Type: topology.TypeBusbar, Tag: "MSB", VoltageKV: 0.4},
		{ID: "mtr", Type: topology.TypeMotor, Tag: "P-101", VoltageKV: 0.4},
		{ID: "ld", Type: topology.TypeLoad, Tag: "MCC-1", VoltageKV: 0.4},
	}
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}

	edges := []*topology.Edge{
		{ID: "e1", SourceID: "src", TargetID: "brk", CableSpecID: "c1", LengthM: 50},
		{ID: "e2", SourceID: "brk", TargetID: "tx", CableSpecID: "c1", LengthM: 30},
		{ID: "e3", SourceID: "tx", TargetID: "bus"},
		{ID: "e4", SourceID: "bus", TargetID: "mtr", CableSpecID: "c2", LengthM: 100},
		{ID: "e5", SourceID: "bus", TargetID: "ld", CableSpecID: "c2", LengthM: 80},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e))
	}

	specs := map[string]validation.ComponentSpec{
		"c1":  {ImpedanceR: 0.2, ImpedanceX: 0.08},
		"c2":  {ImpedanceR: 0.8, ImpedanceX: 0.1},
		"tx":  {ImpedanceZPercent: 6, RatingKVA: 1000},
		"brk": {ShortCircuitRatingKA: 25},
		"mtr": {PowerKW: 75},
		"ld":  {PowerKW: 50},
	}
	return g, specs
}

func newTestService() *Service {
	return NewService(config.Default(), nil, metrics.NewRegistry())
}

func TestRunCompleteAnalysis(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	svc := newTestService()

	res, err := svc.Run(context.Background(), g, specs, Options{RunLoadFlow: true})
	require.NoError(t, err)
	require.Equal(t, StatusComplete, res.Status,
		"fault errors: %v, load flow: %+v", res.FaultErrors, res.LoadFlow)
	assert.NotEmpty(t, res.RunID)

	// Every bus-like and load-like node gets a fault result.
	for _, id := range []string{"bus", "mtr", "ld"} {
		sc, ok := res.ShortCircuit[id]
		require.True(t, ok, "no fault result for %s", id)
		assert.Greater(t, sc.InitialKA, 0.0, "fault at %s", id)
	}
	// Source, breaker and transformer nodes are not fault points.
	for _, id := range []string{"src", "brk", "tx"} {
		assert.NotContains(t, res.ShortCircuit, id)
	}

	// The busbar sits closest to the source, so it sees the worst fault.
	assert.Equal(t, "bus", res.Summary.ShortCircuit.MaxFaultBus)
	assert.Equal(t, 3, res.Summary.ShortCircuit.BusesAnalyzed)

	// The 25 kA breaker covers the downstream faults.
	v, ok := res.Breakers["brk"]
	require.True(t, ok, "no validation for breaker brk")
	assert.True(t, v.IsAdequate, "breaker inadequate against %g kA", v.FaultCurrentKA)
	assert.Equal(t, 1, res.Summary.Breakers.Pass)
	assert.Equal(t, 0, res.Summary.Breakers.Fail)

	// Load flow converged and its summary is populated.
	require.NotNil(t, res.LoadFlow)
	assert.True(t, res.LoadFlow.Converged, "load flow diverged: %+v", res.LoadFlow)
	require.NotNil(t, res.Summary.LoadFlow)
	assert.True(t, res.Summary.LoadFlow.Converged)
}

func TestRunWithoutLoadFlow(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	svc := newTestService()

	res, err := svc.Run(context.Background(), g, specs, Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Nil(t, res.LoadFlow)
	assert.Nil(t, res.Summary.LoadFlow)
	assert.NotEmpty(t, res.ShortCircuit)
}

// An unreachable node is a structural error: the run reports invalid and
// no calculation stages execute.
func TestRunInvalidTopology(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	require.NoError(t, g.AddNode(&topology.Node{ID: "orphan", Type: topology.TypeLoad, Tag: "L-99", VoltageKV: 0.4}))

	svc := newTestService()
	res, err := svc.Run(context.Background(), g, specs, Options{RunLoadFlow: true})
	require.NoError(t, err)

	assert.Equal(t, StatusInvalid, res.Status)
	assert.Empty(t, res.ShortCircuit, "fault scan ran on an invalid topology")
	assert.NotEmpty(t, res.Issues)
}

// A failing fault point must not block the rest of the scan.
func TestRunIsolatesPerBusFailures(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	// A load with no voltage level: its calculator cannot be built.
	require.NoError(t, g.AddNode(&topology.Node{ID: "bad", Type: topology.TypeLoad, Tag: "L-00", VoltageKV: 0}))
	require.NoError(t, g.AddEdge(&topology.Edge{ID: "e6", SourceID: "bus", TargetID: "bad", CableSpecID: "c2", LengthM: 10}))

	svc := newTestService()
	res, err := svc.Run(context.Background(), g, specs, Options{})
	require.NoError(t, err)

	assert.Contains(t, res.FaultErrors, "bad")
	for _, id := range []string{"bus", "mtr", "ld"} {
		assert.Contains(t, res.ShortCircuit, id,
			"fault result for %s lost to an unrelated failure", id)
	}
	assert.Equal(t, StatusComplete, res.Status,
		"one isolated failure must not degrade the run")
}

// An undersized breaker shows up as a failed check, not an error.
func TestRunFlagsUndersizedBreaker(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	specs["brk"] = validation.ComponentSpec{ShortCircuitRatingKA: 0.001}

	svc := newTestService()
	res, err := svc.Run(context.Background(), g, specs, Options{})
	require.NoError(t, err)

	v, ok := res.Breakers["brk"]
	require.True(t, ok, "no validation for breaker brk")
	assert.False(t, v.IsAdequate)
	assert.Equal(t, 1, res.Summary.Breakers.Fail)
	assert.Equal(t, StatusComplete, res.Status,
		"an undersized breaker is a finding, not a failure")
}

// Exhausting the wall-clock budget degrades to incomplete, never panics.
func TestRunBudgetExhausted(t *testing.T) {
	g, specs := buildPlantNetwork(t)
	cfg := config.Default()
	cfg.WallClockBudget = time.Nanosecond
	svc := NewService(cfg, nil, metrics.NewRegistry())

	res, err := svc.Run(context.Background(), g, specs, Options{RunLoadFlow: true})
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, res.Status)
}

// Two runs over identical input yield identical numeric results; the
// service keeps no state between runs.
func TestRunIsRepeatable(t *testing.T) {
	svc := newTestService()

	g1, specs := buildPlantNetwork(t)
	first, err := svc.Run(context.Background(), g1, specs, Options{})
	require.NoError(t, err)

	g2, specs2 := buildPlantNetwork(t)
	second, err := svc.Run(context.Background(), g2, specs2, Options{})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	for id, sc := range first.ShortCircuit {
		other, ok := second.ShortCircuit[id]
		require.True(t, ok, "second run missing fault result for %s", id)
		assert.Equal(t, sc.InitialKA, other.InitialKA, "fault at %s differs between runs", id)
	}
}
