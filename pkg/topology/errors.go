package topology

import "errors"

var (
	// ErrEmptyNodeID is returned when a node is added without an identity.
	ErrEmptyNodeID = errors.New("topology: node ID must not be empty")

	// ErrEmptyEdgeID is returned when an edge is added without an identity.
	ErrEmptyEdgeID = errors.New("topology: edge ID must not be empty")

	// ErrDuplicateNode is returned when a node ID is already present.
	ErrDuplicateNode = errors.New("topology: duplicate node")

	// ErrDuplicateEdge is returned when an edge ID is already present.
	ErrDuplicateEdge = errors.New("topology: duplicate edge")

	// ErrNodeNotFound is returned when an operation references a missing node.
	ErrNodeNotFound = errors.New("topology: node not found")

	// ErrEdgeNotFound is returned when an operation references a missing edge.
	ErrEdgeNotFound = errors.New("topology: edge not found")

	// ErrNoSource is returned when an analysis needs at least one source node.
	ErrNoSource = errors.New("topology: network has no source")

	// ErrNoPath is returned when no directed path connects two nodes.
	ErrNoPath = errors.New("topology: no path between nodes")
)
