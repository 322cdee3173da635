package flowcanvas

import "fmt"

// Classify inspects a user-drawn connection against the current graph,
// applies the configuration effect it implies to the target node, and
// returns the edge to insert.
//
// Guards are evaluated in a fixed priority order; the first match
// wins. Connections matching no guard still produce an edge, untyped,
// since most such links are legitimate plain data flow. The only
// outright refusal is a structurally unsafe list-slot index.
//
// For attachment and parameter connections the produced edge is an
// audit record: the authoritative configuration lives in the target
// node's data, which is mutated here through the graph's sanctioned
// update path. Re-drawing a link that duplicates an attachment is a
// no-op on the data even though a second edge record is produced.
func Classify(conn Connection, g *Graph) (Edge, error) {
	source, ok := g.Node(conn.Source)
	if !ok {
		return Edge{}, fmt.Errorf("classify source: %w: %s", ErrNodeNotFound, conn.Source)
	}
	target, ok := g.Node(conn.Target)
	if !ok {
		return Edge{}, fmt.Errorf("classify target: %w: %s", ErrNodeNotFound, conn.Target)
	}

	srcHandle := ParseHandle(conn.SourceHandle)
	tgtHandle := ParseHandle(conn.TargetHandle)

	edge := Edge{
		ID:           NewEdgeID(),
		Source:       conn.Source,
		Target:       conn.Target,
		SourceHandle: conn.SourceHandle,
		TargetHandle: conn.TargetHandle,
	}

	switch {
	// Case 1: agent instance into a single-valued pattern parameter.
	case target.Data.Category == CategoryPattern &&
		source.Data.Category == CategoryAgent &&
		tgtHandle.Kind == HandleParamSlot:
		ref := componentRef(source)
		err := g.UpdateNodeData(target.ID, func(d *NodeData) {
			ensurePattern(d).Params[tgtHandle.Param] = ref
		})
		if err != nil {
			return Edge{}, err
		}
		edge.ConnectionType = ConnectionAgentToPatternSlot

	// Case 2: agent instance into one slot of a list-valued parameter.
	case target.Data.Category == CategoryPattern &&
		source.Data.Category == CategoryAgent &&
		tgtHandle.Kind == HandleListSlot:
		if tgtHandle.Index < 0 {
			return Edge{}, fmt.Errorf("%w: %s[%d]", ErrBadListIndex, tgtHandle.Param, tgtHandle.Index)
		}
		ref := componentRef(source)
		var slotErr error
		err := g.UpdateNodeData(target.ID, func(d *NodeData) {
			slotErr = setListSlot(ensurePattern(d), tgtHandle.Param, tgtHandle.Index, ref)
		})
		if err != nil {
			return Edge{}, err
		}
		if slotErr != nil {
			return Edge{}, slotErr
		}
		edge.ConnectionType = ConnectionAgentToListItem

	// Case 3: tool attachment channel enables the tool on the agent.
	case source.Data.Category == CategoryTool &&
		target.Data.Category == CategoryAgent &&
		srcHandle.Kind == HandleToolAttachment &&
		tgtHandle.Kind == HandleToolInput:
		ref := componentRef(source)
		err := g.UpdateNodeData(target.ID, func(d *NodeData) {
			a := ensureAgent(d)
			a.SelectedTools = appendUnique(a.SelectedTools, ref)
		})
		if err != nil {
			return Edge{}, err
		}
		edge.ConnectionType = ConnectionToolAttachment

	// Case 4: protocol server attachment records the server alias.
	case source.Data.Category == CategoryMCPServer &&
		target.Data.Category == CategoryAgent &&
		srcHandle.Kind == HandleMCPAttachment &&
		tgtHandle.Kind == HandleToolInput:
		alias := serverAlias(source)
		err := g.UpdateNodeData(target.ID, func(d *NodeData) {
			a := ensureAgent(d)
			a.ConnectedMCPServers = appendUnique(a.ConnectedMCPServers, alias)
		})
		if err != nil {
			return Edge{}, err
		}
		edge.ConnectionType = ConnectionMCPAttachment

	// Case 5: tool data output feeding the agent also enables the tool.
	case source.Data.Category == CategoryTool &&
		target.Data.Category == CategoryAgent &&
		srcHandle.Kind == HandleToolDataOut &&
		tgtHandle.Kind == HandleMessageIn:
		ref := componentRef(source)
		err := g.UpdateNodeData(target.ID, func(d *NodeData) {
			a := ensureAgent(d)
			a.SelectedTools = appendUnique(a.SelectedTools, ref)
		})
		if err != nil {
			return Edge{}, err
		}
		edge.ConnectionType = ConnectionToolDataToAgent

	// Case 6: text input into an agent. The edge alone carries the value.
	case source.IsTextInput() &&
		target.Data.Category == CategoryAgent &&
		tgtHandle.Kind == HandleMessageIn:
		edge.ConnectionType = ConnectionTextToAgent
	}

	return edge, nil
}

// Connect classifies the connection and, on success, inserts the
// resulting edge into the graph.
func Connect(conn Connection, g *Graph) (Edge, error) {
	edge, err := Classify(conn, g)
	if err != nil {
		return Edge{}, err
	}
	if err := g.AddEdge(edge); err != nil {
		return Edge{}, err
	}
	return edge, nil
}

// componentRef resolves the catalog id a connection should record for
// a node, falling back to the node's own id for nodes created outside
// the catalog.
func componentRef(n Node) string {
	if n.Data.ComponentID != "" {
		return n.Data.ComponentID
	}
	return n.ID
}

// serverAlias resolves the alias recorded for a protocol server node,
// falling back to its component id and then its node id.
func serverAlias(n Node) string {
	if n.Data.MCP != nil && n.Data.MCP.ServerAlias != "" {
		return n.Data.MCP.ServerAlias
	}
	return componentRef(n)
}

// setListSlot writes ref into slot index of a list-valued pattern
// parameter. Padding is append-only: existing entries keep their
// positions and missing slots below index are filled with nil.
func setListSlot(p *PatternConfig, param string, index int, ref string) error {
	cur := p.Params[param]
	var list []any
	switch v := cur.(type) {
	case nil:
		list = []any{}
	case []any:
		list = v
	default:
		return fmt.Errorf("%w: %s holds %T", ErrSlotNotList, param, cur)
	}
	for len(list) <= index {
		list = append(list, nil)
	}
	list[index] = ref
	p.Params[param] = list
	return nil
}

// ensurePattern returns the pattern variant, creating an empty one
// when the node predates its configuration.
func ensurePattern(d *NodeData) *PatternConfig {
	if d.Pattern == nil {
		d.Pattern = &PatternConfig{Params: map[string]any{}}
	}
	if d.Pattern.Params == nil {
		d.Pattern.Params = map[string]any{}
	}
	return d.Pattern
}

func ensureAgent(d *NodeData) *AgentConfig {
	if d.Agent == nil {
		d.Agent = &AgentConfig{}
	}
	return d.Agent
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}
