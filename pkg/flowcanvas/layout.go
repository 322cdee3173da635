package flowcanvas

// Direction orients an auto-layout pass.
type Direction string

// Layout directions.
const (
	DirectionHorizontal Direction = "LR"
	DirectionVertical   Direction = "TB"
)

// LayoutFunc is the auto-layout boundary. Implementations are pure:
// they take the current collections and return repositioned nodes
// (and possibly rerouted edges) without touching the graph. The core
// never computes positions itself.
type LayoutFunc func(nodes []Node, edges []Edge, dir Direction) ([]Node, []Edge)

// ApplyLayout runs fn over the graph's collections and swaps the
// result in wholesale. Typically called after a bulk insert (import,
// AI-assisted edit) to avoid overlapping placements. A nil fn is a
// no-op.
func (g *Graph) ApplyLayout(fn LayoutFunc, dir Direction) {
	if fn == nil {
		return
	}
	nodes, edges := fn(g.Nodes(), g.Edges(), dir)
	g.Replace(nodes, edges)
}
