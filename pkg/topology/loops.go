package topology

// Loop is a closed path as a sequence of node IDs. The first node is where
// the back edge lands; the sequence does not repeat it at the end.
type Loop []string

// DetectLoops finds closed paths in the directed network using DFS with
// three-color marking. A back edge to a node still on the active path stack
// closes a loop consisting of the stack segment from that node to the
// current one, inclusive.
//
// Traversal starts at every source, then covers any remaining unvisited
// nodes so loops in disconnected islands are still reported.
func (g *Graph) DetectLoops() []Loop {
	const (
		white = 0 // unvisited
		gray  = 1 // on the active path stack
		black = 2 // fully explored
	)

	color := make(map[string]int)
	loops := make([]Loop, 0)
	path := make([]string, 0)
	onPath := make(map[string]int) // node ID -> index in path

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		onPath[id] = len(path)
		path = append(path, id)

		for _, next := range g.adjacency[id] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				// Back edge: the loop is the path segment from next to id
				start := onPath[next]
				loop := make(Loop, len(path)-start)
				copy(loop, path[start:])
				loops = append(loops, loop)
			}
		}

		path = path[:len(path)-1]
		delete(onPath, id)
		color[id] = black
	}

	for _, sourceID := range g.sources {
		if color[sourceID] == white {
			dfs(sourceID)
		}
	}
	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}

	return loops
}

// HasLoop reports whether the network contains at least one closed path.
func (g *Graph) HasLoop() bool {
	return len(g.DetectLoops()) > 0
}

// Contains reports whether the loop passes through the given node.
func (l Loop) Contains(id string) bool {
	for _, nid := range l {
		if nid == id {
			return true
		}
	}
	return false
}
