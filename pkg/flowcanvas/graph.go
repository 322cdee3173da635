package flowcanvas

import (
	"fmt"
	"sync"
)

// Graph is the authoritative pair of node and edge collections plus a
// selection cursor.
//
// All mutation happens synchronously inside a single user-action
// handler; the mutex only guards against incidental cross-goroutine
// reads (autosave serialization), not concurrent writers. Every
// mutation is atomic from the point of view of one user action:
// deleting a node removes its dependent edges in the same critical
// section.
type Graph struct {
	mu       sync.RWMutex
	nodes    []Node
	edges    []Edge
	selected string
	onChange func()
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// OnChange installs a hook invoked after every completed mutation.
// Used to mark persistence dirty; the hook runs outside the lock and
// must not mutate the graph re-entrantly from another goroutine.
func (g *Graph) OnChange(fn func()) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
}

func (g *Graph) changed() {
	g.mu.RLock()
	fn := g.onChange
	g.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Nodes returns a deep copy of the node collection in insertion order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a copy of the edge collection in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.edges...)
}

// Node returns a deep copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.indexOf(id); i >= 0 {
		return g.nodes[i].Clone(), true
	}
	return Node{}, false
}

// Len returns the node and edge counts.
func (g *Graph) Len() (nodes, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes), len(g.edges)
}

// SetNodes replaces the node collection wholesale. Used by import,
// AI-assisted edit, and layout. Edges referencing nodes absent from
// the new collection are dropped to keep the no-dangling invariant.
func (g *Graph) SetNodes(nodes []Node) {
	g.mu.Lock()
	g.nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		g.nodes[i] = n.Clone()
	}
	g.pruneEdgesLocked()
	g.pruneSelectionLocked()
	g.mu.Unlock()
	g.changed()
}

// SetEdges replaces the edge collection wholesale. Edges whose
// endpoints are not present are dropped.
func (g *Graph) SetEdges(edges []Edge) {
	g.mu.Lock()
	g.edges = append([]Edge(nil), edges...)
	g.pruneEdgesLocked()
	g.mu.Unlock()
	g.changed()
}

// AddNode inserts a node. The id must be unique.
func (g *Graph) AddNode(n Node) error {
	g.mu.Lock()
	if g.indexOf(n.ID) >= 0 {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	g.nodes = append(g.nodes, n.Clone())
	g.mu.Unlock()
	g.changed()
	return nil
}

// AddEdge inserts an edge. Both endpoints must exist.
func (g *Graph) AddEdge(e Edge) error {
	g.mu.Lock()
	if g.indexOf(e.Source) < 0 || g.indexOf(e.Target) < 0 {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrEdgeEndpointMissing, e.Source, e.Target)
	}
	g.edges = append(g.edges, e)
	g.mu.Unlock()
	g.changed()
	return nil
}

// MoveNode updates a node's canvas position. Repeated application of
// the same move is idempotent; unknown ids are ignored (render-driven
// changes may race a deletion).
func (g *Graph) MoveNode(id string, pos Position) {
	g.mu.Lock()
	i := g.indexOf(id)
	if i < 0 || g.nodes[i].Position == pos {
		g.mu.Unlock()
		return
	}
	g.nodes[i].Position = pos
	g.mu.Unlock()
	g.changed()
}

// RemoveEdge removes the edge with the given id. Unknown ids are a no-op.
func (g *Graph) RemoveEdge(id string) {
	g.mu.Lock()
	kept := g.edges[:0]
	removed := false
	for _, e := range g.edges {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	g.mu.Unlock()
	if removed {
		g.changed()
	}
}

// Select sets the selection cursor. An empty id clears it; ids not in
// the graph also clear it.
func (g *Graph) Select(id string) {
	g.mu.Lock()
	if id != "" && g.indexOf(id) < 0 {
		id = ""
	}
	g.selected = id
	g.mu.Unlock()
}

// SelectedNodeID returns the current selection, or "" when nothing is
// selected.
func (g *Graph) SelectedNodeID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selected
}

// UpdateNodeData applies fn to the node's data in place. This is the
// only sanctioned configuration mutation path after creation; fields
// fn does not touch are preserved. Returns ErrNodeNotFound for an
// unknown id without calling fn.
func (g *Graph) UpdateNodeData(id string, fn func(*NodeData)) error {
	g.mu.Lock()
	i := g.indexOf(id)
	if i < 0 {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	fn(&g.nodes[i].Data)
	g.mu.Unlock()
	g.changed()
	return nil
}

// DeleteNode removes the node and, atomically, every edge whose
// source or target is id. Selection pointing at the node is cleared.
// Unknown ids are a no-op.
func (g *Graph) DeleteNode(id string) {
	g.mu.Lock()
	i := g.indexOf(id)
	if i < 0 {
		g.mu.Unlock()
		return
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	if g.selected == id {
		g.selected = ""
	}
	g.mu.Unlock()
	g.changed()
}

// Replace swaps in both collections at once, clearing the selection.
// Project loads go through here so a half-applied snapshot is never
// observable.
func (g *Graph) Replace(nodes []Node, edges []Edge) {
	g.mu.Lock()
	g.nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		g.nodes[i] = n.Clone()
	}
	g.edges = append([]Edge(nil), edges...)
	g.pruneEdgesLocked()
	g.selected = ""
	g.mu.Unlock()
	g.changed()
}

func (g *Graph) indexOf(id string) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *Graph) pruneEdgesLocked() {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if g.indexOf(e.Source) >= 0 && g.indexOf(e.Target) >= 0 {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

func (g *Graph) pruneSelectionLocked() {
	if g.selected != "" && g.indexOf(g.selected) < 0 {
		g.selected = ""
	}
}
