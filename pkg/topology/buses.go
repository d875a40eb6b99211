package topology

import (
	"fmt"
	"sort"
)

// IdentifyBuses groups bus-like nodes into equipotential buses. Two nodes
// share a bus when they are chained through bus/busbar/switchgear components
// at the same nominal voltage. The pass is idempotent: it clears previous
// assignments and renumbers deterministically by node ID order.
func (g *Graph) IdentifyBuses() map[string][]string {
	g.buses = make(map[string][]string)
	for _, node := range g.nodes {
		node.BusName = ""
	}

	counter := 1
	processed := make(map[string]bool)

	for _, id := range g.NodeIDs() {
		node := g.nodes[id]
		if processed[id] || !node.Type.IsBusLike() {
			continue
		}

		members := g.expandBus(id, node.VoltageKV)
		name := fmt.Sprintf("BUS-%gkV-%02d", node.VoltageKV, counter)
		counter++

		g.buses[name] = members
		for _, mid := range members {
			g.nodes[mid].BusName = name
			processed[mid] = true
		}
	}

	return g.buses
}

// expandBus collects all bus-like nodes reachable from start through
// neighbors (either direction) at the same voltage, sorted by ID.
func (g *Graph) expandBus(start string, voltageKV float64) []string {
	connected := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbors := append(g.Downstream(cur), g.Upstream(cur)...)
		for _, nid := range neighbors {
			if connected[nid] {
				continue
			}
			neighbor := g.nodes[nid]
			if neighbor == nil {
				continue
			}
			// Bus groups never span voltage levels
			if neighbor.Type.IsBusLike() && neighbor.VoltageKV == voltageKV {
				connected[nid] = true
				queue = append(queue, nid)
			}
		}
	}

	members := make([]string, 0, len(connected))
	for id := range connected {
		members = append(members, id)
	}
	sort.Strings(members)
	return members
}

// Buses returns the current bus grouping. Call IdentifyBuses first.
func (g *Graph) Buses() map[string][]string {
	out := make(map[string][]string, len(g.buses))
	for name, members := range g.buses {
		cp := make([]string, len(members))
		copy(cp, members)
		out[name] = cp
	}
	return out
}
