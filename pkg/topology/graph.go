package topology

import (
	"fmt"
	"sort"
)

// ComponentType classifies a network component.
type ComponentType string

const (
	TypeSource      ComponentType = "Source"
	TypeTransformer ComponentType = "Transformer"
	TypeBus         ComponentType = "Bus"
	TypeBusbar      ComponentType = "Busbar"
	TypeSwitchgear  ComponentType = "Switchgear"
	TypeCable       ComponentType = "Cable"
	TypeBreaker     ComponentType = "Breaker"
	TypeMotor       ComponentType = "Motor"
	TypeLoad        ComponentType = "Load"
)

// IsBusLike reports whether components of this type chain into an
// equipotential bus group.
func (t ComponentType) IsBusLike() bool {
	return t == TypeBus || t == TypeBusbar || t == TypeSwitchgear
}

// IsLoadLike reports whether components of this type draw power.
func (t ComponentType) IsLoadLike() bool {
	return t == TypeMotor || t == TypeLoad
}

// UnreachableLevel marks a node no source path reaches.
const UnreachableLevel = -1

// Node is one component in the network topology.
// Level and BusName are assigned by the topology-analysis pass and are the
// only fields mutated after construction; solvers treat nodes as read-only.
type Node struct {
	ID         string
	Type       ComponentType
	Tag        string
	VoltageKV  float64
	Properties map[string]any

	Level   int
	BusName string
}

// Edge is a directed connection between two nodes. ImpedancePU stays zero
// until impedance conversion runs; consumers must treat a zero impedance as
// "not yet converted", not as a superconducting branch.
type Edge struct {
	ID          string
	SourceID    string
	TargetID    string
	CableSpecID string
	LengthM     float64
	ImpedancePU complex128
}

// Graph is the electrical network as a directed multigraph. Adjacency is
// owned by the graph itself; nodes never hold pointers to each other.
type Graph struct {
	nodes map[string]*Node
	edges map[string]*Edge

	adjacency map[string][]string
	reverse   map[string][]string

	sources []string
	buses   map[string][]string
}

// NewGraph creates an empty topology graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Edge),
		adjacency: make(map[string][]string),
		reverse:   make(map[string][]string),
		buses:     make(map[string][]string),
	}
}

// AddNode adds a node to the topology. Source nodes seed level computation
// and always carry level 0.
func (g *Graph) AddNode(node *Node) error {
	if node == nil || node.ID == "" {
		return ErrEmptyNodeID
	}
	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	if node.Type == TypeSource {
		node.Level = 0
		g.sources = append(g.sources, node.ID)
	} else {
		node.Level = UnreachableLevel
	}
	g.nodes[node.ID] = node
	return nil
}

// RemoveNode removes a node and every edge incident to it.
func (g *Graph) RemoveNode(id string) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	for edgeID, edge := range g.edges {
		if edge.SourceID == id || edge.TargetID == id {
			g.removeEdgeLinks(edge)
			delete(g.edges, edgeID)
		}
	}

	if node.Type == TypeSource {
		for i, sid := range g.sources {
			if sid == id {
				g.sources = append(g.sources[:i], g.sources[i+1:]...)
				break
			}
		}
	}
	delete(g.adjacency, id)
	delete(g.reverse, id)
	delete(g.nodes, id)
	return nil
}

// AddEdge adds a directed connection. Both endpoints must already exist.
func (g *Graph) AddEdge(edge *Edge) error {
	if edge == nil || edge.ID == "" {
		return ErrEmptyEdgeID
	}
	if _, exists := g.edges[edge.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEdge, edge.ID)
	}
	if _, ok := g.nodes[edge.SourceID]; !ok {
		return fmt.Errorf("%w: edge %s references node %s", ErrNodeNotFound, edge.ID, edge.SourceID)
	}
	if _, ok := g.nodes[edge.TargetID]; !ok {
		return fmt.Errorf("%w: edge %s references node %s", ErrNodeNotFound, edge.ID, edge.TargetID)
	}

	g.edges[edge.ID] = edge
	g.adjacency[edge.SourceID] = append(g.adjacency[edge.SourceID], edge.TargetID)
	g.reverse[edge.TargetID] = append(g.reverse[edge.TargetID], edge.SourceID)
	return nil
}

// RemoveEdge removes a connection, keeping adjacency consistent on both
// endpoints.
func (g *Graph) RemoveEdge(id string) error {
	edge, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	g.removeEdgeLinks(edge)
	delete(g.edges, id)
	return nil
}

func (g *Graph) removeEdgeLinks(edge *Edge) {
	g.adjacency[edge.SourceID] = removeFirst(g.adjacency[edge.SourceID], edge.TargetID)
	g.reverse[edge.TargetID] = removeFirst(g.reverse[edge.TargetID], edge.SourceID)
}

func removeFirst(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Edge returns the edge with the given ID, or nil.
func (g *Graph) Edge(id string) *Edge {
	return g.edges[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Sources returns the IDs of all source nodes.
func (g *Graph) Sources() []string {
	out := make([]string, len(g.sources))
	copy(out, g.sources)
	return out
}

// NodeIDs returns all node IDs in deterministic order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes calls fn for every node in deterministic order.
func (g *Graph) Nodes(fn func(*Node)) {
	for _, id := range g.NodeIDs() {
		fn(g.nodes[id])
	}
}

// Edges calls fn for every edge in deterministic order.
func (g *Graph) Edges(fn func(*Edge)) {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(g.edges[id])
	}
}

// Downstream returns the direct downstream neighbor IDs of a node.
func (g *Graph) Downstream(id string) []string {
	out := make([]string, len(g.adjacency[id]))
	copy(out, g.adjacency[id])
	return out
}

// Upstream returns the direct upstream neighbor IDs of a node.
func (g *Graph) Upstream(id string) []string {
	out := make([]string, len(g.reverse[id]))
	copy(out, g.reverse[id])
	return out
}

// VoltageLevels returns every distinct nominal voltage present, ascending.
func (g *Graph) VoltageLevels() []float64 {
	seen := make(map[float64]bool)
	levels := make([]float64, 0)
	for _, node := range g.nodes {
		if !seen[node.VoltageKV] {
			seen[node.VoltageKV] = true
			levels = append(levels, node.VoltageKV)
		}
	}
	sort.Float64s(levels)
	return levels
}
