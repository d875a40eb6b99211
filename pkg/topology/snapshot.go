package topology

// NodeSnapshot is the serializable view of one node.
type NodeSnapshot struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Tag        string         `json:"tag"`
	VoltageKV  float64        `json:"voltage_kv"`
	Level      int            `json:"level"`
	BusName    string         `json:"bus_name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EdgeSnapshot is the serializable view of one edge.
type EdgeSnapshot struct {
	ID            string  `json:"id"`
	SourceID      string  `json:"source_id"`
	TargetID      string  `json:"target_id"`
	CableSpecID   string  `json:"cable_spec_id,omitempty"`
	LengthM       float64 `json:"length_m"`
	ImpedanceR_PU float64 `json:"impedance_r_pu"`
	ImpedanceX_PU float64 `json:"impedance_x_pu"`
}

// Snapshot is a read-only export of the topology for downstream consumers
// (API layer, report generation). It carries no graph behavior.
type Snapshot struct {
	Nodes []NodeSnapshot      `json:"nodes"`
	Edges []EdgeSnapshot      `json:"edges"`
	Buses map[string][]string `json:"buses"`
}

// Snapshot exports the current topology state in deterministic order.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]NodeSnapshot, 0, len(g.nodes)),
		Edges: make([]EdgeSnapshot, 0, len(g.edges)),
		Buses: g.Buses(),
	}

	g.Nodes(func(n *Node) {
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:         n.ID,
			Type:       string(n.Type),
			Tag:        n.Tag,
			VoltageKV:  n.VoltageKV,
			Level:      n.Level,
			BusName:    n.BusName,
			Properties: n.Properties,
		})
	})

	g.Edges(func(e *Edge) {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			ID:            e.ID,
			SourceID:      e.SourceID,
			TargetID:      e.TargetID,
			CableSpecID:   e.CableSpecID,
			LengthM:       e.LengthM,
			ImpedanceR_PU: real(e.ImpedancePU),
			ImpedanceX_PU: imag(e.ImpedancePU),
		})
	})

	return snap
}
