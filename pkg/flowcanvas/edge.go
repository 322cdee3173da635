package flowcanvas

import "fmt"

// ConnectionType records which classifier case produced an edge.
// It is written once at classification time and never re-derived;
// styling and re-validation read it back.
type ConnectionType string

// Connection types, one per classifier case. The zero value tags
// generic edges that matched no case.
const (
	ConnectionGeneric            ConnectionType = ""
	ConnectionAgentToPatternSlot ConnectionType = "agentInstanceToPatternParam"
	ConnectionAgentToListItem    ConnectionType = "agentToPatternListItem"
	ConnectionToolAttachment     ConnectionType = "toolAttachment"
	ConnectionMCPAttachment      ConnectionType = "mcpServerAttachment"
	ConnectionToolDataToAgent    ConnectionType = "toolDataOutputToAgent"
	ConnectionTextToAgent        ConnectionType = "textInputToAgent"
)

// Edge is a directed, handle-tagged link between two nodes.
//
// For attachment and parameter connections the edge is a visual and
// audit record; the authoritative effect lives in the target node's
// configuration, written by the classifier.
type Edge struct {
	ID             string         `json:"id"`
	Source         string         `json:"source"`
	Target         string         `json:"target"`
	SourceHandle   string         `json:"sourceHandle,omitempty"`
	TargetHandle   string         `json:"targetHandle,omitempty"`
	ConnectionType ConnectionType `json:"connectionType,omitempty"`
}

// Connection is a user-drawn link before classification.
type Connection struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

// NewEdgeID generates a fresh edge id.
func NewEdgeID() string {
	return fmt.Sprintf("edge-%s", randomSuffix())
}
