package flowcanvas

import "errors"

// Sentinel errors for graph mutation.
var (
	// ErrNodeNotFound indicates an operation referenced a node id
	// absent from the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeEndpointMissing indicates an edge referenced a node id
	// absent from the graph at insert time.
	ErrEdgeEndpointMissing = errors.New("edge endpoint not in graph")

	// ErrDuplicateNodeID indicates AddNode was called with an id
	// already present.
	ErrDuplicateNodeID = errors.New("duplicate node id")
)

// Sentinel errors for connection classification.
var (
	// ErrBadListIndex indicates a list-slot handle carried an index
	// that cannot be applied safely. The connection is refused.
	ErrBadListIndex = errors.New("list slot index out of range")

	// ErrSlotNotList indicates a list-slot connection targeted a
	// parameter whose current value is not a sequence.
	ErrSlotNotList = errors.New("pattern parameter is not a list")
)
