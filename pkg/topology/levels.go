package topology

// ComputeLevels assigns every node its BFS distance from the nearest source.
// Source nodes are level 0; a node no source reaches keeps UnreachableLevel.
// Traversal follows directed adjacency only (power flows downstream).
func (g *Graph) ComputeLevels() {
	for _, node := range g.nodes {
		if node.Type == TypeSource {
			node.Level = 0
		} else {
			node.Level = UnreachableLevel
		}
	}

	type entry struct {
		id    string
		level int
	}

	for _, sourceID := range g.sources {
		queue := []entry{{sourceID, 0}}
		visited := map[string]bool{sourceID: true}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			node := g.nodes[cur.id]
			if node.Level == UnreachableLevel || cur.level < node.Level {
				node.Level = cur.level
			}

			for _, next := range g.adjacency[cur.id] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, entry{next, cur.level + 1})
				}
			}
		}
	}
}
