package flowcanvas_test

import (
	"testing"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyGraph builds a graph holding one node of each category used
// by the classifier cases.
func classifyGraph(t *testing.T) (*flowcanvas.Graph, map[string]flowcanvas.Node) {
	t.Helper()
	g := flowcanvas.NewGraph()

	nodes := map[string]flowcanvas.Node{
		"agent": flowcanvas.NewNode(catalog.Descriptor{
			ID: "SummAgent", Category: "agent",
		}, flowcanvas.Position{}),
		"pattern": flowcanvas.NewNode(catalog.Descriptor{
			ID: "RouterPattern", Category: "pattern",
			Params: map[string]catalog.ParamSpec{
				"router_agent_name": {TypeHint: "agent"},
				"steps":             {TypeHint: "list[str]"},
			},
		}, flowcanvas.Position{}),
		"tool": flowcanvas.NewNode(catalog.Descriptor{
			ID: "mathTool", Category: "tool",
			Description: "Returns the result of an expression",
		}, flowcanvas.Position{}),
		"mcp": flowcanvas.NewNode(catalog.Descriptor{
			ID: "fsServer", Category: "mcp_server",
		}, flowcanvas.Position{}),
		"text": flowcanvas.NewTextInputNode(flowcanvas.Position{}),
	}
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	return g, nodes
}

func TestClassify_AgentToPatternParam(t *testing.T) {
	g, nodes := classifyGraph(t)

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["agent"].ID,
		Target:       nodes["pattern"].ID,
		TargetHandle: "pattern_agent_input_router_agent_name",
	}, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionAgentToPatternSlot, edge.ConnectionType)

	p, _ := g.Node(nodes["pattern"].ID)
	assert.Equal(t, "SummAgent", p.Data.Pattern.Params["router_agent_name"])
}

func TestClassify_AgentToPatternParam_NodeIDFallback(t *testing.T) {
	g := flowcanvas.NewGraph()
	agent := newTestNode("agent-1", flowcanvas.CategoryAgent)
	agent.Data.ComponentID = "" // created outside the catalog
	pattern := newTestNode("pattern-1", flowcanvas.CategoryPattern)
	require.NoError(t, g.AddNode(agent))
	require.NoError(t, g.AddNode(pattern))

	_, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       "agent-1",
		Target:       "pattern-1",
		TargetHandle: "pattern_agent_input_router_agent_name",
	}, g)
	require.NoError(t, err)

	p, _ := g.Node("pattern-1")
	assert.Equal(t, "agent-1", p.Data.Pattern.Params["router_agent_name"])
}

func TestClassify_ListSlotPadding(t *testing.T) {
	g, nodes := classifyGraph(t)

	// Connecting into index 2 of an empty list pads with nils.
	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["agent"].ID,
		Target:       nodes["pattern"].ID,
		TargetHandle: "pattern_list_item_input_steps_2",
	}, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionAgentToListItem, edge.ConnectionType)

	p, _ := g.Node(nodes["pattern"].ID)
	assert.Equal(t, []any{nil, nil, "SummAgent"}, p.Data.Pattern.Params["steps"])
}

func TestClassify_ListSlotPreservesExistingEntries(t *testing.T) {
	g, nodes := classifyGraph(t)

	require.NoError(t, g.UpdateNodeData(nodes["pattern"].ID, func(d *flowcanvas.NodeData) {
		d.Pattern.Params["steps"] = []any{"KeepMe", nil, "AndMe"}
	}))

	_, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["agent"].ID,
		Target:       nodes["pattern"].ID,
		TargetHandle: "pattern_list_item_input_steps_1",
	}, g)
	require.NoError(t, err)

	p, _ := g.Node(nodes["pattern"].ID)
	assert.Equal(t, []any{"KeepMe", "SummAgent", "AndMe"}, p.Data.Pattern.Params["steps"])
}

func TestClassify_ListSlotNegativeIndexRefused(t *testing.T) {
	g, nodes := classifyGraph(t)

	_, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["agent"].ID,
		Target:       nodes["pattern"].ID,
		TargetHandle: "pattern_list_item_input_steps_-1",
	}, g)
	assert.ErrorIs(t, err, flowcanvas.ErrBadListIndex)

	// No edge was created, no data touched.
	assert.Empty(t, g.Edges())
	p, _ := g.Node(nodes["pattern"].ID)
	assert.Equal(t, []any{}, p.Data.Pattern.Params["steps"])
}

func TestClassify_ListSlotNonListRefused(t *testing.T) {
	g, nodes := classifyGraph(t)

	require.NoError(t, g.UpdateNodeData(nodes["pattern"].ID, func(d *flowcanvas.NodeData) {
		d.Pattern.Params["steps"] = "not a list"
	}))

	_, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["agent"].ID,
		Target:       nodes["pattern"].ID,
		TargetHandle: "pattern_list_item_input_steps_0",
	}, g)
	assert.ErrorIs(t, err, flowcanvas.ErrSlotNotList)
	assert.Empty(t, g.Edges())
}

func TestClassify_ToolAttachment_Idempotent(t *testing.T) {
	g, nodes := classifyGraph(t)

	conn := flowcanvas.Connection{
		Source:       nodes["tool"].ID,
		Target:       nodes["agent"].ID,
		SourceHandle: "tool_attachment_out",
		TargetHandle: "tool_input_handle",
	}

	first, err := flowcanvas.Connect(conn, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionToolAttachment, first.ConnectionType)

	second, err := flowcanvas.Connect(conn, g)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Two edge records, but the data mutation is idempotent.
	assert.Len(t, g.Edges(), 2)
	a, _ := g.Node(nodes["agent"].ID)
	assert.Equal(t, []string{"mathTool"}, a.Data.Agent.SelectedTools)
}

func TestClassify_MCPAttachment(t *testing.T) {
	g, nodes := classifyGraph(t)

	require.NoError(t, g.UpdateNodeData(nodes["mcp"].ID, func(d *flowcanvas.NodeData) {
		d.MCP.ServerAlias = "local-fs"
	}))

	conn := flowcanvas.Connection{
		Source:       nodes["mcp"].ID,
		Target:       nodes["agent"].ID,
		SourceHandle: "mcp_server_attachment_out",
		TargetHandle: "tool_input_handle",
	}

	edge, err := flowcanvas.Connect(conn, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionMCPAttachment, edge.ConnectionType)

	_, err = flowcanvas.Connect(conn, g)
	require.NoError(t, err)

	a, _ := g.Node(nodes["agent"].ID)
	assert.Equal(t, []string{"local-fs"}, a.Data.Agent.ConnectedMCPServers)
}

func TestClassify_ToolDataOutput_EnablesTool(t *testing.T) {
	g, nodes := classifyGraph(t)

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["tool"].ID,
		Target:       nodes["agent"].ID,
		SourceHandle: "tool_output_data",
		TargetHandle: "input_message_in",
	}, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionToolDataToAgent, edge.ConnectionType)

	// Data flow implicitly also enables the tool.
	a, _ := g.Node(nodes["agent"].ID)
	assert.Equal(t, []string{"mathTool"}, a.Data.Agent.SelectedTools)
}

func TestClassify_TextInputToAgent(t *testing.T) {
	g, nodes := classifyGraph(t)

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["text"].ID,
		Target:       nodes["agent"].ID,
		TargetHandle: "input_message_in",
	}, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionTextToAgent, edge.ConnectionType)

	// The edge alone represents the value flow; no data mutation.
	a, _ := g.Node(nodes["agent"].ID)
	assert.Empty(t, a.Data.Agent.SelectedTools)
}

func TestClassify_GenericFallthrough(t *testing.T) {
	g, nodes := classifyGraph(t)

	// Agent to agent is legitimate plain data flow; the edge is
	// created untyped.
	g2 := flowcanvas.NewNode(catalog.Descriptor{ID: "OtherAgent", Category: "agent"}, flowcanvas.Position{})
	require.NoError(t, g.AddNode(g2))

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source: nodes["agent"].ID,
		Target: g2.ID,
	}, g)
	require.NoError(t, err)
	assert.Equal(t, flowcanvas.ConnectionGeneric, edge.ConnectionType)
	assert.Len(t, g.Edges(), 1)
}

func TestClassify_UnknownEndpoint(t *testing.T) {
	g, nodes := classifyGraph(t)

	_, err := flowcanvas.Connect(flowcanvas.Connection{
		Source: nodes["agent"].ID,
		Target: "ghost",
	}, g)
	assert.ErrorIs(t, err, flowcanvas.ErrNodeNotFound)
	assert.Empty(t, g.Edges())
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A tool wired to an agent's message input through the data
	// handle must classify as case 5 even though a generic edge
	// would also be legal.
	g, nodes := classifyGraph(t)

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
		Source:       nodes["tool"].ID,
		Target:       nodes["agent"].ID,
		SourceHandle: "tool_output_data",
		TargetHandle: "input_message_in",
	}, g)
	require.NoError(t, err)
	assert.NotEqual(t, flowcanvas.ConnectionGeneric, edge.ConnectionType)
}
