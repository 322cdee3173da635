package project

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
)

// Sentinel errors for project lifecycle operations.
var (
	// ErrLastProject indicates an attempt to delete the only
	// remaining project. The operation is rejected; state is unchanged.
	ErrLastProject = errors.New("cannot delete the last project")

	// ErrUnknownProject indicates an operation referenced a project
	// id that doesn't exist. State is unchanged.
	ErrUnknownProject = errors.New("unknown project")
)

// Manager owns the set of projects, the current-project cursor, and
// their binding to a live graph. The in-memory map is authoritative;
// the store is a side channel that Flush serializes to, so persistence
// failures never invalidate the session.
//
// Exactly one project is current at a time. Switching projects saves
// the outgoing one first; edits are never silently lost on switch.
type Manager struct {
	mu       sync.Mutex
	graph    *flowcanvas.Graph
	store    Store
	projects map[string]*Project
	current  string
	logger   *slog.Logger

	// onReset clears transient UI-only state (conversation history,
	// output log) when a different project becomes current.
	onReset func()
}

// NewManager binds a graph to a store. The logger may be nil.
func NewManager(g *flowcanvas.Graph, store Store, logger *slog.Logger) *Manager {
	return &Manager{
		graph:    g,
		store:    store,
		projects: make(map[string]*Project),
		logger:   logger,
	}
}

// OnReset installs the transient-state reset hook invoked whenever a
// different project becomes current.
func (m *Manager) OnReset(fn func()) {
	m.mu.Lock()
	m.onReset = fn
	m.mu.Unlock()
}

// Open restores projects from the store, makes the recorded current
// project live, and falls back to a fresh default project when the
// store is empty or unreadable.
func (m *Manager) Open(defaultName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos, err := m.store.ListProjects()
	if err != nil {
		m.logWarn("project store unreadable, starting fresh", "error", err)
	}
	for _, info := range infos {
		data, err := m.store.LoadProject(info.ID)
		if err != nil {
			m.logWarn("skipping unreadable project", "project_id", info.ID, "error", err)
			continue
		}
		p, err := Unmarshal(data)
		if err != nil {
			m.logWarn("skipping corrupt project", "project_id", info.ID, "error", err)
			continue
		}
		m.projects[p.ID] = p
	}

	if len(m.projects) == 0 {
		p := New(defaultName)
		m.projects[p.ID] = p
	}

	current, err := m.store.LoadCurrent()
	if err != nil || m.projects[current] == nil {
		current = m.firstIDLocked()
	}
	m.current = current
	m.makeLiveLocked(m.projects[current])
	return nil
}

// CurrentID returns the id of the current project.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Get returns a stored project by id.
func (m *Manager) Get(id string) (*Project, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	return p, ok
}

// IDs returns all project ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.projects))
	for id := range m.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SaveCurrent copies the live graph collections into the current
// project. A nil viewport keeps the project's last known camera pose.
func (m *Manager) SaveCurrent(viewport *Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCurrentLocked(viewport)
}

// Load makes another project current. The outgoing project is saved
// first. Loading an unknown id returns ErrUnknownProject without
// mutating any state.
func (m *Manager) Load(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.projects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	if id == m.current {
		return nil
	}

	m.saveCurrentLocked(nil)
	m.current = id
	m.makeLiveLocked(target)
	m.logInfo("project loaded", "project_id", id, "name", target.Name)
	return nil
}

// Create saves the current project, allocates a fresh empty project
// under the given name, and makes it current. Returns the new id.
func (m *Manager) Create(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCurrentLocked(nil)
	p := New(name)
	m.projects[p.ID] = p
	m.current = p.ID
	m.makeLiveLocked(p)
	m.logInfo("project created", "project_id", p.ID, "name", name)
	return p.ID
}

// Delete removes a project. Deleting the only remaining project is
// rejected with ErrLastProject. If the deleted project was current,
// another project becomes current in its place.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	if len(m.projects) == 1 {
		return ErrLastProject
	}

	wasCurrent := id == m.current
	delete(m.projects, id)
	if err := m.store.DeleteProject(id); err != nil {
		m.logWarn("project delete not persisted", "project_id", id, "error", err)
	}

	if wasCurrent {
		next := m.firstIDLocked()
		m.current = next
		m.makeLiveLocked(m.projects[next])
	}
	m.logInfo("project deleted", "project_id", id)
	return nil
}

// Flush snapshots the current project and writes every project plus
// the current-project pointer to the store. Failures are logged and
// returned, but the in-memory state remains authoritative.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCurrentLocked(nil)

	var firstErr error
	for id, p := range m.projects {
		data, err := p.Marshal()
		if err == nil {
			err = m.store.SaveProject(id, data)
		}
		if err != nil {
			m.logWarn("project not persisted", "project_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := m.store.SaveCurrent(m.current); err != nil {
		m.logWarn("current pointer not persisted", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) saveCurrentLocked(viewport *Viewport) {
	p := m.projects[m.current]
	if p == nil {
		return
	}
	p.Nodes = m.graph.Nodes()
	p.Edges = m.graph.Edges()
	if viewport != nil {
		p.Viewport = *viewport
	}
	p.UpdatedAt = time.Now().UTC()
}

// makeLiveLocked replaces the live collections with a project's
// snapshot and clears transient state.
func (m *Manager) makeLiveLocked(p *Project) {
	m.graph.Replace(p.Nodes, p.Edges)
	if m.onReset != nil {
		m.onReset()
	}
}

func (m *Manager) firstIDLocked() string {
	ids := make([]string, 0, len(m.projects))
	for id := range m.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

func (m *Manager) logInfo(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

func (m *Manager) logWarn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
