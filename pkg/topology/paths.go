package topology

import "fmt"

// FindPath returns the shortest directed path between two nodes by BFS,
// as a node ID sequence including both endpoints.
func (g *Graph) FindPath(fromID, toID string) ([]string, error) {
	if _, ok := g.nodes[fromID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, toID)
	}

	if fromID == toID {
		return []string{fromID}, nil
	}

	parent := make(map[string]string)
	visited := map[string]bool{fromID: true}
	queue := []string{fromID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			if next == toID {
				return rebuildPath(parent, fromID, toID), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, fromID, toID)
}

func rebuildPath(parent map[string]string, fromID, toID string) []string {
	path := []string{toID}
	for cur := toID; cur != fromID; {
		cur = parent[cur]
		path = append(path, cur)
	}
	// Reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathImpedance sums the per-unit impedance of the edges joining each
// consecutive node pair along the path. Parallel edges between a pair
// contribute the first edge found in deterministic order.
func (g *Graph) PathImpedance(path []string) complex128 {
	total := complex(0, 0)
	for i := 0; i+1 < len(path); i++ {
		if edge := g.edgeBetween(path[i], path[i+1]); edge != nil {
			total += edge.ImpedancePU
		}
	}
	return total
}

func (g *Graph) edgeBetween(sourceID, targetID string) *Edge {
	var found *Edge
	g.Edges(func(e *Edge) {
		if found == nil && e.SourceID == sourceID && e.TargetID == targetID {
			found = e
		}
	})
	return found
}

// DownstreamClosure returns every node reachable from id following directed
// adjacency, excluding id itself, in BFS order.
func (g *Graph) DownstreamClosure(id string) []string {
	return g.closure(id, g.adjacency)
}

// UpstreamClosure returns every node from which id is reachable, excluding
// id itself, in BFS order.
func (g *Graph) UpstreamClosure(id string) []string {
	return g.closure(id, g.reverse)
}

func (g *Graph) closure(id string, adj map[string][]string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}

	out := make([]string, 0)
	visited := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				out = append(out, next)
				queue = append(queue, next)
			}
		}
	}
	return out
}

// FeederLoads returns the load-like nodes (motors and loads) fed downstream
// of the given feeder start node.
func (g *Graph) FeederLoads(feederStartID string) []string {
	loads := make([]string, 0)
	for _, id := range g.DownstreamClosure(feederStartID) {
		if node := g.nodes[id]; node != nil && node.Type.IsLoadLike() {
			loads = append(loads, id)
		}
	}
	return loads
}
