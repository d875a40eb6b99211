package topology

import "fmt"

// Severity ranks a validation finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding from topology validation, carrying the offending
// node where one exists.
type Issue struct {
	Severity Severity
	NodeID   string
	Message  string
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: node %s: %s", i.Severity, i.NodeID, i.Message)
}

// Validate inspects the topology for structural problems. Levels must be
// computed first (ComputeLevels); unreachable nodes are reported as errors,
// dangling non-source nodes and mixed-voltage multi-source setups as
// warnings.
func (g *Graph) Validate() []Issue {
	issues := make([]Issue, 0)

	if len(g.sources) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  "network has no source",
		})
	}

	for _, id := range g.NodeIDs() {
		node := g.nodes[id]
		if node.Type == TypeSource {
			continue
		}

		if len(g.adjacency[id]) == 0 && len(g.reverse[id]) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				NodeID:   id,
				Message:  fmt.Sprintf("component %q has no connections", node.Tag),
			})
		}

		if node.Level == UnreachableLevel {
			issues = append(issues, Issue{
				Severity: SeverityError,
				NodeID:   id,
				Message:  fmt.Sprintf("component %q is not connected to any source", node.Tag),
			})
		}
	}

	if len(g.sources) > 1 {
		voltages := make(map[float64]bool)
		for _, sid := range g.sources {
			voltages[g.nodes[sid].VoltageKV] = true
		}
		if len(voltages) > 1 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Message:  "multiple sources at different voltage levels",
			})
		}
	}

	return issues
}

// HasErrors reports whether any issue is error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
