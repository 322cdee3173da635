package flowcanvas

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category identifies which kind of component a node instantiates.
// It selects the populated variant of NodeData.
type Category string

// Known component categories.
const (
	CategoryAgent     Category = "agent"
	CategoryPattern   Category = "pattern"
	CategoryTool      Category = "tool"
	CategoryMCPServer Category = "mcp_server"
	CategoryUtility   Category = "utility"
	CategoryTrigger   Category = "trigger"
)

// TypeTextInput is the node type of the plain text-input utility node.
// It has no catalog descriptor; the canvas offers it directly.
const TypeTextInput = "textInput"

// Position is a canvas coordinate. The core stores and forwards
// positions but never interprets them; rendering and layout own them.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one placed instance of a component on the canvas.
//
// ID is unique per instance; Data.ComponentID names the catalog entry
// the instance was created from, so many nodes may share a component.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeData carries a node's configuration. Exactly one variant pointer
// is populated, selected by Category. Consumers switch on Category
// rather than probing pointers.
type NodeData struct {
	Label       string   `json:"label"`
	Category    Category `json:"component_category"`
	ComponentID string   `json:"component_id,omitempty"`

	Agent   *AgentConfig   `json:"agent,omitempty"`
	Pattern *PatternConfig `json:"pattern,omitempty"`
	Tool    *ToolConfig    `json:"tool,omitempty"`
	MCP     *MCPConfig     `json:"mcp_server,omitempty"`
	Text    *TextConfig    `json:"text,omitempty"`
	Trigger *TriggerConfig `json:"trigger,omitempty"`
}

// AgentConfig is the configuration variant for agent nodes.
type AgentConfig struct {
	// SelectedTools lists catalog ids of tools enabled for this agent.
	// Maintained with set semantics; order is first-enabled order.
	SelectedTools []string `json:"selected_tools"`

	// TemplateVars maps template variable names to their configured values.
	TemplateVars map[string]string `json:"template_vars_config"`

	// SystemPromptOverride replaces the descriptor's prompt when non-empty.
	// Empty means "use the descriptor default" downstream.
	SystemPromptOverride string `json:"system_prompt_override"`

	CanUseTools    bool `json:"can_use_tools"`
	StripThinkTags bool `json:"strip_think_tags_override"`

	// ConnectedMCPServers lists aliases of attached protocol servers.
	// Set semantics, like SelectedTools.
	ConnectedMCPServers []string `json:"connected_mcp_servers"`
}

// PatternConfig is the configuration variant for pattern nodes.
//
// Params holds one value per constructor parameter, keyed by parameter
// name. Values are JSON-shaped (nil, string, bool, float64, []any,
// map[string]any); the shape is chosen by the initializer from the
// parameter's declared type hint and then refined by the classifier as
// connections are drawn.
type PatternConfig struct {
	Params map[string]any `json:"params"`
}

// ToolConfig is the configuration variant for tool nodes.
type ToolConfig struct {
	IsToolNode bool `json:"is_tool_node"`

	// HasDataOutput reports whether the tool, besides being attachable
	// to an agent, also emits data through tool_output_data.
	HasDataOutput bool `json:"has_data_output"`
}

// MCPServerStatusDisconnected is the initial status of a server node.
const MCPServerStatusDisconnected = "disconnected"

// MCPConfig is the configuration variant for external protocol server nodes.
type MCPConfig struct {
	ServerAlias string            `json:"server_alias"`
	Command     string            `json:"command"`
	Args        []string          `json:"args"`
	Env         map[string]string `json:"env"`
	Status      string            `json:"status"`
}

// TextConfig is the configuration variant for the text-input utility node.
type TextConfig struct {
	Text string `json:"text"`
}

// TriggerConfig is the configuration variant for trigger nodes.
type TriggerConfig struct {
	Enabled bool `json:"enabled"`
}

// NewNodeID generates a fresh node id of the conventional form
// "{type}-{random6}". Uniqueness comes from the uuid suffix.
func NewNodeID(nodeType string) string {
	return fmt.Sprintf("%s-%s", nodeType, randomSuffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// IsTextInput reports whether the node is the text-input utility node.
func (n *Node) IsTextInput() bool {
	return n.Type == TypeTextInput || (n.Data.Category == CategoryUtility && n.Data.Text != nil)
}

// Clone returns a deep copy of the node. Snapshots taken for project
// saves must not alias live configuration.
func (n Node) Clone() Node {
	c := n
	c.Data = n.Data.clone()
	return c
}

func (d NodeData) clone() NodeData {
	c := d
	if d.Agent != nil {
		a := *d.Agent
		a.SelectedTools = append([]string(nil), d.Agent.SelectedTools...)
		a.ConnectedMCPServers = append([]string(nil), d.Agent.ConnectedMCPServers...)
		a.TemplateVars = cloneStringMap(d.Agent.TemplateVars)
		c.Agent = &a
	}
	if d.Pattern != nil {
		p := PatternConfig{Params: cloneAnyMap(d.Pattern.Params)}
		c.Pattern = &p
	}
	if d.Tool != nil {
		t := *d.Tool
		c.Tool = &t
	}
	if d.MCP != nil {
		m := *d.MCP
		m.Args = append([]string(nil), d.MCP.Args...)
		m.Env = cloneStringMap(d.MCP.Env)
		c.MCP = &m
	}
	if d.Text != nil {
		t := *d.Text
		c.Text = &t
	}
	if d.Trigger != nil {
		t := *d.Trigger
		c.Trigger = &t
	}
	return c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		c := make([]any, len(val))
		for i, e := range val {
			c[i] = cloneValue(e)
		}
		return c
	case map[string]any:
		return cloneAnyMap(val)
	default:
		return val
	}
}
