// Package project provides named, independently persisted snapshots
// of a canvas graph: the project model, the durable key-value stores
// behind it, the lifecycle manager, and the debounced autosaver.
package project

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
)

// Version is the current snapshot format version. Increment on
// breaking changes to the serialized project structure.
const Version = 1

// Viewport is the last camera pose of a project. The core round-trips
// it opaquely; rendering owns its meaning.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport is the camera pose of a freshly created project.
var DefaultViewport = Viewport{Zoom: 1}

// Project is a named snapshot of the graph collections plus camera
// state. Nodes and edges are full copies taken at save time.
type Project struct {
	Version   int               `json:"version"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Nodes     []flowcanvas.Node `json:"nodes"`
	Edges     []flowcanvas.Edge `json:"edges"`
	Viewport  Viewport          `json:"viewport"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New creates an empty project with a fresh id.
func New(name string) *Project {
	return &Project{
		Version:  Version,
		ID:       newProjectID(),
		Name:     name,
		Viewport: DefaultViewport,
	}
}

func newProjectID() string {
	return fmt.Sprintf("proj-%s", uuid.NewString()[:6])
}

// Marshal serializes a project to JSON.
func (p *Project) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal deserializes a project from JSON.
func Unmarshal(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
