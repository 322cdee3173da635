package flowcanvas

import (
	"strconv"
	"strings"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/catalog"
)

// NewNode builds a fully-defaulted node for a catalog descriptor
// dropped at the given canvas position.
//
// The node's configuration variant is seeded from the descriptor so
// the node is immediately valid for inspection before any connection
// is drawn. Unknown categories fall through with only the generic
// fields set; the classifier and renderer treat such nodes as inert.
func NewNode(desc catalog.Descriptor, pos Position) Node {
	n := Node{
		ID:       NewNodeID(desc.ID),
		Type:     desc.ID,
		Position: pos,
		Data: NodeData{
			Label:       desc.Name,
			Category:    Category(desc.Category),
			ComponentID: desc.ID,
		},
	}
	if n.Data.Label == "" {
		n.Data.Label = desc.ID
	}

	switch n.Data.Category {
	case CategoryAgent:
		n.Data.Agent = &AgentConfig{
			SelectedTools:       append([]string{}, desc.Config.DefaultTools...),
			TemplateVars:        map[string]string{},
			ConnectedMCPServers: []string{},
			CanUseTools:         desc.Config.CanUseTools,
			StripThinkTags:      desc.Config.StripThinkTags,
		}
	case CategoryPattern:
		params := make(map[string]any, len(desc.Params))
		for name, spec := range desc.Params {
			params[name] = defaultParamValue(name, spec)
		}
		n.Data.Pattern = &PatternConfig{Params: params}
	case CategoryTool:
		n.Data.Tool = &ToolConfig{
			IsToolNode:    true,
			HasDataOutput: toolHasDataOutput(desc),
		}
	case CategoryMCPServer:
		n.Data.MCP = &MCPConfig{
			Args:   []string{},
			Env:    map[string]string{},
			Status: MCPServerStatusDisconnected,
		}
	case CategoryTrigger:
		n.Data.Trigger = &TriggerConfig{}
	}
	return n
}

// NewTextInputNode builds the plain text-input utility node. It has
// no catalog descriptor.
func NewTextInputNode(pos Position) Node {
	return Node{
		ID:       NewNodeID(TypeTextInput),
		Type:     TypeTextInput,
		Position: pos,
		Data: NodeData{
			Label:    "Text Input",
			Category: CategoryUtility,
			Text:     &TextConfig{},
		},
	}
}

// defaultParamValue picks a default value shape for a pattern
// constructor parameter purely from its type hint, in fixed
// precedence: list, agent reference, dict, numeric, bool, string.
func defaultParamValue(name string, spec catalog.ParamSpec) any {
	hint := strings.ToLower(spec.TypeHint)

	switch {
	case strings.Contains(hint, "list"):
		return []any{}
	case strings.Contains(hint, "agent") || isAgentParamName(name):
		return nil
	case strings.Contains(hint, "dict") || name == "routes":
		return map[string]any{}
	case strings.Contains(hint, "int") || strings.Contains(hint, "float"):
		if f, err := strconv.ParseFloat(spec.Default, 64); err == nil {
			return f
		}
		return nil
	case strings.Contains(hint, "bool"):
		if b, err := strconv.ParseBool(spec.Default); err == nil {
			return b
		}
		return false
	default:
		return spec.Default
	}
}

// isAgentParamName matches the parameter-naming convention for agent
// references: *_agent_name or agent_*.
func isAgentParamName(name string) bool {
	return strings.HasSuffix(name, "_agent_name") || strings.HasPrefix(name, "agent_")
}

// dataWords mark tool descriptions that imply a data output.
var dataWords = []string{"return", "fetch", "read", "get", "search", "output", "result"}

// toolHasDataOutput decides whether a tool node exposes the
// tool_output_data handle. An explicit descriptor flag wins;
// otherwise a tool that declares parameters or whose description
// mentions producing data is assumed to emit some.
func toolHasDataOutput(desc catalog.Descriptor) bool {
	if desc.HasDataOutput != nil {
		return *desc.HasDataOutput
	}
	if len(desc.Params) > 0 {
		return true
	}
	lower := strings.ToLower(desc.Description)
	for _, w := range dataWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
