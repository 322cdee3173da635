// Package export serializes the live graph collections for the
// backend execution boundary. The payload is the nodes and edges
// verbatim; the core imposes no additional framing.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
)

// Payload is the body handed to "execute this flow" and "export this
// flow", and the body accepted back on import.
type Payload struct {
	Nodes []flowcanvas.Node `json:"nodes"`
	Edges []flowcanvas.Edge `json:"edges"`
}

// FromGraph snapshots the live collections into a payload.
func FromGraph(g *flowcanvas.Graph) Payload {
	return Payload{Nodes: g.Nodes(), Edges: g.Edges()}
}

// Marshal serializes the payload as JSON.
func (p Payload) Marshal() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal flow payload: %w", err)
	}
	return data, nil
}

// Unmarshal parses an imported flow payload.
func Unmarshal(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("parse flow payload: %w", err)
	}
	return p, nil
}

// Apply replaces the graph collections with the payload wholesale and
// optionally runs the auto-layout boundary over the result so bulk
// inserts don't land on top of each other. A nil layout skips the
// pass.
func (p Payload) Apply(g *flowcanvas.Graph, layout flowcanvas.LayoutFunc, dir flowcanvas.Direction) {
	g.Replace(p.Nodes, p.Edges)
	g.ApplyLayout(layout, dir)
}
