// Package session wires the canvas core together for one editing
// session: the graph, the component catalog, the project manager, and
// the debounced autosaver, behind a single context object handed to
// whatever UI renders it.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/catalog"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/export"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/observability"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/project"
)

// Session owns all mutable canvas state for one editing session.
// Construct with New, mutate through its methods (the UI layer calls
// them from its event loop), and Close on shutdown to flush pending
// persistence.
type Session struct {
	graph    *flowcanvas.Graph
	catalog  *catalog.Catalog
	projects *project.Manager
	saver    *project.Autosaver
	store    project.Store

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	layout  flowcanvas.LayoutFunc
	dir     flowcanvas.Direction
}

// Option configures a Session.
type Option func(*options)

type options struct {
	store         project.Store
	catalog       *catalog.Catalog
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	layout        flowcanvas.LayoutFunc
	dir           flowcanvas.Direction
	autosaveDelay time.Duration
	projectName   string
}

// WithStore selects the project store. Defaults to an in-memory store.
func WithStore(s project.Store) Option {
	return func(o *options) { o.store = s }
}

// WithCatalog supplies the component catalog. Defaults to an empty
// catalog; the core tolerates absent descriptors.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithLogger sets the structured logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics recorder. Defaults to noop.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithSpans sets the span manager. Defaults to noop.
func WithSpans(s observability.SpanManager) Option {
	return func(o *options) { o.spans = s }
}

// WithLayout installs the auto-layout boundary used after bulk imports.
func WithLayout(fn flowcanvas.LayoutFunc, dir flowcanvas.Direction) Option {
	return func(o *options) { o.layout = fn; o.dir = dir }
}

// WithAutosaveDelay overrides the persistence debounce window.
func WithAutosaveDelay(d time.Duration) Option {
	return func(o *options) { o.autosaveDelay = d }
}

// WithDefaultProjectName names the project created on first launch.
func WithDefaultProjectName(name string) Option {
	return func(o *options) { o.projectName = name }
}

// New builds a session, restores projects from the store, and starts
// the autosaver.
func New(opts ...Option) (*Session, error) {
	o := options{
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
		dir:         flowcanvas.DirectionHorizontal,
		projectName: "Untitled Project",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = project.NewMemoryStore()
	}
	if o.catalog == nil {
		o.catalog = catalog.New()
	}

	s := &Session{
		graph:   flowcanvas.NewGraph(),
		catalog: o.catalog,
		store:   o.store,
		logger:  o.logger,
		metrics: o.metrics,
		spans:   o.spans,
		layout:  o.layout,
		dir:     o.dir,
	}
	s.projects = project.NewManager(s.graph, o.store, o.logger)
	s.saver = project.NewAutosaver(s.flush, o.autosaveDelay)

	if err := s.projects.Open(o.projectName); err != nil {
		return nil, err
	}

	// Every graph mutation reschedules the debounced flush; the
	// in-memory model itself is already updated by the time this runs.
	s.graph.OnChange(s.saver.MarkDirty)
	return s, nil
}

// Graph returns the live graph model.
func (s *Session) Graph() *flowcanvas.Graph { return s.graph }

// Catalog returns the component catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Projects returns the project manager.
func (s *Session) Projects() *project.Manager { return s.projects }

// Drop instantiates a catalog component at a canvas position and
// inserts the node. Unknown component ids still produce a node (the
// user can delete or fix it); it carries only the generic fields and
// is treated as non-functional downstream.
func (s *Session) Drop(componentID string, pos flowcanvas.Position) (flowcanvas.Node, error) {
	desc, ok := s.catalog.Resolve(componentID)
	if !ok {
		desc = catalog.Descriptor{ID: componentID, Name: componentID}
		if s.logger != nil {
			s.logger.Warn("dropping unknown component", slog.String("component_id", componentID))
		}
	}
	n := flowcanvas.NewNode(desc, pos)
	if err := s.graph.AddNode(n); err != nil {
		return flowcanvas.Node{}, err
	}
	s.metrics.RecordNodeCreated(context.Background(), string(n.Data.Category))
	observability.LogNodeCreated(s.logger, n.ID, n.Data.ComponentID, string(n.Data.Category))
	return n, nil
}

// DropTextInput places a plain text-input utility node.
func (s *Session) DropTextInput(pos flowcanvas.Position) (flowcanvas.Node, error) {
	n := flowcanvas.NewTextInputNode(pos)
	if err := s.graph.AddNode(n); err != nil {
		return flowcanvas.Node{}, err
	}
	s.metrics.RecordNodeCreated(context.Background(), string(n.Data.Category))
	return n, nil
}

// Connect classifies a user-drawn link, applies its configuration
// effect, and inserts the resulting edge.
func (s *Session) Connect(conn flowcanvas.Connection) (flowcanvas.Edge, error) {
	edge, err := flowcanvas.Connect(conn, s.graph)
	if err != nil {
		s.metrics.RecordConnection(context.Background(), "", true)
		observability.LogConnectionRefused(s.logger, conn.Source, conn.Target, err)
		return flowcanvas.Edge{}, err
	}
	s.metrics.RecordConnection(context.Background(), string(edge.ConnectionType), false)
	observability.LogConnection(s.logger, edge.ID, edge.Source, edge.Target, string(edge.ConnectionType))
	return edge, nil
}

// ExportPayload snapshots the live collections for the execute/export
// boundary.
func (s *Session) ExportPayload() export.Payload {
	return export.FromGraph(s.graph)
}

// Import replaces the live collections with an imported payload and
// runs the layout boundary over the result.
func (s *Session) Import(data []byte) error {
	p, err := export.Unmarshal(data)
	if err != nil {
		return err
	}
	p.Apply(s.graph, s.layout, s.dir)
	return nil
}

// SaveCurrent snapshots the live graph into the current project and
// schedules persistence.
func (s *Session) SaveCurrent(viewport *project.Viewport) {
	s.projects.SaveCurrent(viewport)
	s.saver.MarkDirty()
}

// LoadProject makes another project current, saving the outgoing one
// first.
func (s *Session) LoadProject(id string) error {
	_, span := s.spans.StartProjectSpan(context.Background(), "load", id)
	err := s.projects.Load(id)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		return err
	}
	s.saver.MarkDirty()
	return nil
}

// CreateProject creates an empty project and makes it current.
func (s *Session) CreateProject(name string) string {
	_, span := s.spans.StartProjectSpan(context.Background(), "create", "")
	id := s.projects.Create(name)
	s.spans.EndSpanWithError(span, nil)
	s.saver.MarkDirty()
	return id
}

// DeleteProject removes a project. Deleting the last remaining
// project is rejected.
func (s *Session) DeleteProject(id string) error {
	_, span := s.spans.StartProjectSpan(context.Background(), "delete", id)
	err := s.projects.Delete(id)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		return err
	}
	s.saver.MarkDirty()
	return nil
}

// Flush forces pending persistence to the store immediately.
func (s *Session) Flush() error {
	return s.saver.Flush()
}

// Close flushes pending persistence and releases the store.
func (s *Session) Close() error {
	flushErr := s.saver.Close()
	closeErr := s.store.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// flush is the autosaver's target: snapshot, persist all projects and
// the current pointer, record the outcome.
func (s *Session) flush() error {
	ctx, span := s.spans.StartProjectSpan(context.Background(), "flush", s.projects.CurrentID())
	done := observability.TimedOperation()

	err := s.projects.Flush()

	elapsed := done()
	var size int64
	if p, ok := s.projects.Get(s.projects.CurrentID()); ok {
		if data, merr := p.Marshal(); merr == nil {
			size = int64(len(data))
		}
	}
	s.metrics.RecordProjectSave(ctx, time.Duration(elapsed)*time.Millisecond, size, err)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogStoreError(s.logger, "flush", err)
		return err
	}
	observability.LogProjectSaved(s.logger, s.projects.CurrentID(), elapsed)
	return nil
}
