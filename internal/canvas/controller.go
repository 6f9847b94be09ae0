// Package canvas holds the canvas controller: the bridge between the
// application store and the renderer's node/edge view state.
//
// The view is a working projection of the store. It is replaced from the
// data provider on load (and pushed into the store at the same time),
// updated locally by renderer changes and connect gestures, and kept in step
// with the store on keyboard deletion. No other sync points exist.
package canvas

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/flow"
	"github.com/terrascope/canvas/internal/logger"
	"github.com/terrascope/canvas/internal/metrics"
	"github.com/terrascope/canvas/internal/models"
	"github.com/terrascope/canvas/internal/provider"
	"github.com/terrascope/canvas/internal/store"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

var (
	ErrStaleResponse = errors.New("canvas: response superseded by a newer selection")
	ErrNoApp         = errors.New("canvas: no app selected")
	ErrSelfLoop      = errors.New("canvas: connection source and target are the same node")
	ErrUnknownNode   = errors.New("canvas: connection references an unknown node")
	ErrClosed        = errors.New("canvas: controller closed")
)

// KeyEvent is a key press on the canvas page. FocusedElement is the tag name
// of the element holding focus, if any.
type KeyEvent struct {
	Key            string `json:"key" validate:"required"`
	FocusedElement string `json:"focusedElement,omitempty"`
	Editable       bool   `json:"editable,omitempty"`
}

// TextInputFocused reports whether the key press is going to a text field.
func (e KeyEvent) TextInputFocused() bool {
	if e.Editable {
		return true
	}
	switch strings.ToUpper(e.FocusedElement) {
	case "INPUT", "TEXTAREA":
		return true
	}
	return false
}

func (e KeyEvent) IsDelete() bool {
	return e.Key == "Delete" || e.Key == "Backspace"
}

type View struct {
	Status     Status               `json:"status"`
	Error      string               `json:"error,omitempty"`
	AppID      string               `json:"appId"`
	Generation uint64               `json:"generation"`
	Nodes      []models.ServiceNode `json:"nodes"`
	Edges      []models.Edge        `json:"edges"`
}

type Option func(*Controller)

// WithFetchTimeout bounds every graph fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

type Controller struct {
	store        *store.Store
	provider     provider.Provider
	fetchTimeout time.Duration

	mu         sync.Mutex
	status     Status
	lastErr    error
	appID      string
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	nodes      []models.ServiceNode
	edges      []models.Edge
}

func New(s *store.Store, p provider.Provider, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		provider: p,
		status:   StatusIdle,
		nodes:    []models.ServiceNode{},
		edges:    []models.Edge{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectApp selects appID in the store and starts loading its graph. The
// returned channel yields the outcome once the response has been applied or
// dropped: nil, the fetch error, or ErrStaleResponse when a later selection
// superseded it. An empty appID clears the selection without fetching.
func (c *Controller) SelectApp(ctx context.Context, appID string) <-chan error {
	c.store.SetSelectedAppID(appID)

	if appID == "" {
		c.mu.Lock()
		c.supersede()
		c.appID = ""
		c.status = StatusIdle
		c.lastErr = nil
		c.mu.Unlock()
		return done(nil)
	}

	return c.load(ctx, appID)
}

// Reload fetches the selected app's graph again, e.g. after a failure.
func (c *Controller) Reload(ctx context.Context) <-chan error {
	appID := c.store.State().SelectedAppID
	if appID == "" {
		return done(ErrNoApp)
	}
	return c.load(ctx, appID)
}

func (c *Controller) load(ctx context.Context, appID string) <-chan error {
	result := make(chan error, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		result <- ErrClosed
		close(result)
		return result
	}
	c.supersede()
	gen := c.generation
	c.appID = appID
	c.status = StatusLoading

	// The fetch outlives the request that triggered it.
	var (
		fetchCtx context.Context
		cancel   context.CancelFunc
	)
	if c.fetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	} else {
		fetchCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	c.cancel = cancel
	c.mu.Unlock()

	logger.Log(logger.LevelDebug, map[string]string{
		"app_id":     appID,
		"generation": strconv.FormatUint(gen, 10),
	}, nil, "loading graph")

	go func() {
		defer close(result)
		defer cancel()

		graph, err := c.provider.GetGraph(fetchCtx, appID)
		result <- c.apply(gen, appID, graph, err)
	}()

	return result
}

// supersede invalidates any in-flight fetch. Callers hold c.mu.
func (c *Controller) supersede() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
}

func (c *Controller) apply(gen uint64, appID string, graph *models.Graph, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := map[string]string{
		"app_id":     appID,
		"generation": strconv.FormatUint(gen, 10),
	}

	if gen != c.generation || c.closed {
		metrics.GraphFetches.WithLabelValues("stale").Inc()
		logger.Log(logger.LevelDebug, fields, fetchErr, "dropping stale graph response")
		return ErrStaleResponse
	}
	c.cancel = nil

	if fetchErr != nil {
		c.status = StatusError
		c.lastErr = fetchErr
		metrics.GraphFetches.WithLabelValues("error").Inc()
		logger.Log(logger.LevelWarn, fields, fetchErr, "graph fetch failed")
		return errors.Wrapf(fetchErr, "loading graph for %s", appID)
	}

	c.nodes = models.CloneNodes(graph.Nodes)
	c.edges = models.CloneEdges(graph.Edges)
	c.status = StatusReady
	c.lastErr = nil
	c.store.ReplaceGraph(graph.Nodes, graph.Edges)

	metrics.GraphFetches.WithLabelValues("ok").Inc()
	logger.Log(logger.LevelInfo, map[string]string{
		"app_id": appID,
		"nodes":  strconv.Itoa(len(graph.Nodes)),
		"edges":  strconv.Itoa(len(graph.Edges)),
	}, nil, "graph loaded")

	return nil
}

// OnNodesChange applies renderer node changes to the view only.
func (c *Controller) OnNodesChange(changes []models.NodeChange) {
	metrics.Gestures.WithLabelValues("nodes_change").Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = flow.ApplyNodeChanges(changes, c.nodes)
}

// OnEdgesChange applies renderer edge changes to the view only.
func (c *Controller) OnEdgesChange(changes []models.EdgeChange) {
	metrics.Gestures.WithLabelValues("edges_change").Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.edges = flow.ApplyEdgeChanges(changes, c.edges)
}

// OnConnect adds an edge between two distinct nodes of the view. The store is
// not updated.
func (c *Controller) OnConnect(conn models.Connection) error {
	metrics.Gestures.WithLabelValues("connect").Inc()

	if conn.Source == conn.Target {
		return ErrSelfLoop
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := models.FindNode(c.nodes, conn.Source); !ok {
		return errors.Wrapf(ErrUnknownNode, "source %q", conn.Source)
	}
	if _, ok := models.FindNode(c.nodes, conn.Target); !ok {
		return errors.Wrapf(ErrUnknownNode, "target %q", conn.Target)
	}

	c.edges = flow.AddEdge(conn, c.edges)
	return nil
}

func (c *Controller) OnNodeClick(nodeID string) {
	metrics.Gestures.WithLabelValues("node_click").Inc()
	c.store.SetSelectedNodeID(nodeID)
}

func (c *Controller) OnPaneClick() {
	metrics.Gestures.WithLabelValues("pane_click").Inc()
	c.store.SetSelectedNodeID("")
}

// OnKeyDown deletes the selected node from the store and the view together
// when Delete or Backspace is pressed outside a text field. It reports
// whether a node was deleted.
func (c *Controller) OnKeyDown(ev KeyEvent) bool {
	metrics.Gestures.WithLabelValues("key_down").Inc()

	if !ev.IsDelete() || ev.TextInputFocused() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	nodeID := c.store.State().SelectedNodeID
	if nodeID == "" {
		return false
	}

	_, inView := models.FindNode(c.nodes, nodeID)
	inStore := c.store.DeleteNode(nodeID)
	c.nodes, c.edges = models.WithoutNode(c.nodes, c.edges, nodeID)

	if inView || inStore {
		logger.Log(logger.LevelInfo, map[string]string{"app_id": c.appID, "node_id": nodeID}, nil, "node deleted")
	}
	return inView || inStore
}

// FitView computes the viewport showing every node of the view.
func (c *Controller) FitView(width, height float64) flow.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return flow.FitView(c.nodes, width, height, flow.DefaultPadding)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Status:     c.status,
		AppID:      c.appID,
		Generation: c.generation,
		Nodes:      models.CloneNodes(c.nodes),
		Edges:      models.CloneEdges(c.edges),
	}
	if c.lastErr != nil {
		v.Error = c.lastErr.Error()
	}
	return v
}

// Close abandons any in-flight fetch. Later loads fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.supersede()
}

func done(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
