package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for the analysis engine

// Component names the engine component emitting the entry
func Component(name string) Field {
	return String("component", name)
}

// Stage names the analysis pipeline stage
func Stage(name string) Field {
	return String("stage", name)
}

// RunID carries the analysis run identifier
func RunID(id string) Field {
	return String("run_id", id)
}

// Node carries a topology node identifier
func Node(id string) Field {
	return String("node_id", id)
}

// Edge carries a topology edge identifier
func Edge(id string) Field {
	return String("edge_id", id)
}

// Bus carries an equipotential bus label
func Bus(name string) Field {
	return String("bus", name)
}

// VoltageKV carries a nominal voltage level in kV
func VoltageKV(v float64) Field {
	return Float64("voltage_kv", v)
}

// FaultKA carries a fault current in kA
func FaultKA(i float64) Field {
	return Float64("fault_ka", i)
}

// Iterations carries a solver iteration count
func Iterations(n int) Field {
	return Int("iterations", n)
}

// Mismatch carries a load-flow mismatch magnitude in pu
func Mismatch(m float64) Field {
	return Float64("mismatch_pu", m)
}

// Latency carries an operation duration
func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

// Count carries a generic element count
func Count(n int) Field {
	return Int("count", n)
}
