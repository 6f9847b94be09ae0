// Package store holds the application store: the single source of truth for
// selection, UI flags and the canonical graph of the selected app.
//
// A Store is an explicit value owned by whoever composes the application.
// All reads return copies and every action is one atomic transition that
// observers see exactly once.
package store

import (
	"sync"

	"github.com/terrascope/canvas/internal/metrics"
	"github.com/terrascope/canvas/internal/models"
)

type InspectorTab string

const (
	TabConfig  InspectorTab = "config"
	TabRuntime InspectorTab = "runtime"
)

// State is a snapshot of the store. Empty ids mean nothing is selected.
type State struct {
	Version            uint64               `json:"version"`
	SelectedAppID      string               `json:"selectedAppId"`
	SelectedNodeID     string               `json:"selectedNodeId"`
	IsMobilePanelOpen  bool                 `json:"isMobilePanelOpen"`
	ActiveInspectorTab InspectorTab         `json:"activeInspectorTab"`
	Nodes              []models.ServiceNode `json:"nodes"`
	Edges              []models.Edge        `json:"edges"`
}

func (st State) clone() State {
	st.Nodes = models.CloneNodes(st.Nodes)
	st.Edges = models.CloneEdges(st.Edges)
	return st
}

// Listener receives the state after each transition. Listeners run
// synchronously and in transition order; they must not call mutating store
// actions themselves.
type Listener func(State)

type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    State

	listeners map[int]Listener
	nextID    int
}

func New() *Store {
	return &Store{
		state: State{
			ActiveInspectorTab: TabConfig,
			Nodes:              []models.ServiceNode{},
			Edges:              []models.Edge{},
		},
		listeners: make(map[int]Listener),
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SelectedNode returns a copy of the selected node, or false when nothing is
// selected or the selected id is not in the graph.
func (s *Store) SelectedNode() (models.ServiceNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SelectedNodeID == "" {
		return models.ServiceNode{}, false
	}
	idx, ok := models.FindNode(s.state.Nodes, s.state.SelectedNodeID)
	if !ok {
		return models.ServiceNode{}, false
	}
	return s.state.Nodes[idx], true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) SetSelectedAppID(appID string) {
	s.update("set_selected_app", func(st *State) bool {
		st.SelectedAppID = appID
		st.SelectedNodeID = ""
		return true
	})
}

// SetSelectedNodeID does not check that the node exists.
func (s *Store) SetSelectedNodeID(nodeID string) {
	s.update("set_selected_node", func(st *State) bool {
		st.SelectedNodeID = nodeID
		return true
	})
}

func (s *Store) SetMobilePanelOpen(open bool) {
	s.update("set_mobile_panel", func(st *State) bool {
		st.IsMobilePanelOpen = open
		return true
	})
}

func (s *Store) SetActiveInspectorTab(tab InspectorTab) {
	s.update("set_inspector_tab", func(st *State) bool {
		st.ActiveInspectorTab = tab
		return true
	})
}

func (s *Store) SetNodes(nodes []models.ServiceNode) {
	nodes = models.CloneNodes(nodes)
	for i := range nodes {
		nodes[i].Data.ResourceValue = models.ClampResource(nodes[i].Data.ResourceValue)
	}
	s.update("set_nodes", func(st *State) bool {
		st.Nodes = nodes
		return true
	})
}

func (s *Store) SetEdges(edges []models.Edge) {
	edges = models.CloneEdges(edges)
	s.update("set_edges", func(st *State) bool {
		st.Edges = edges
		return true
	})
}

// ReplaceGraph is SetNodes and SetEdges as one transition, so observers never
// see the new nodes paired with the previous graph's edges.
func (s *Store) ReplaceGraph(nodes []models.ServiceNode, edges []models.Edge) {
	nodes = models.CloneNodes(nodes)
	for i := range nodes {
		nodes[i].Data.ResourceValue = models.ClampResource(nodes[i].Data.ResourceValue)
	}
	edges = models.CloneEdges(edges)
	s.update("replace_graph", func(st *State) bool {
		st.Nodes = nodes
		st.Edges = edges
		return true
	})
}

// UpdateNodeData merges patch into the node's data. Unknown ids are ignored
// and produce no transition. The result reports whether a node was updated.
func (s *Store) UpdateNodeData(nodeID string, patch models.NodeDataPatch) bool {
	return s.update("update_node_data", func(st *State) bool {
		idx, ok := models.FindNode(st.Nodes, nodeID)
		if !ok {
			return false
		}

		nodes := models.CloneNodes(st.Nodes)
		data := patch.Apply(nodes[idx].Data)
		data.ResourceValue = models.ClampResource(data.ResourceValue)
		nodes[idx].Data = data
		st.Nodes = nodes
		return true
	})
}

// DeleteNode removes the node, every edge incident to it and, when it was
// selected, the node selection, in a single transition. Unknown ids are
// ignored.
func (s *Store) DeleteNode(nodeID string) bool {
	return s.update("delete_node", func(st *State) bool {
		if _, ok := models.FindNode(st.Nodes, nodeID); !ok {
			return false
		}

		st.Nodes, st.Edges = models.WithoutNode(st.Nodes, st.Edges, nodeID)
		if st.SelectedNodeID == nodeID {
			st.SelectedNodeID = ""
		}
		return true
	})
}

// update applies fn under the lock. When fn reports a change the version is
// bumped and listeners are notified in order before update returns.
func (s *Store) update(action string, fn func(st *State) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	s.state.Version++
	snapshot := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	metrics.StoreTransitions.WithLabelValues(action).Inc()
	for _, l := range listeners {
		l(snapshot.clone())
	}

	return true
}
