// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

const ServiceNodeKind = "serviceNode"

type App struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

type Graph struct {
	Nodes []ServiceNode `json:"nodes"`
	Edges []Edge        `json:"edges"`
	Stats *Stats        `json:"stats,omitempty"`
}

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type ServiceNode struct {
	ID       string          `json:"id" yaml:"id"`
	Type     string          `json:"type" yaml:"type"`
	Position Position        `json:"position" yaml:"position"`
	Data     ServiceNodeData `json:"data" yaml:"data"`
	Selected bool            `json:"selected,omitempty" yaml:"-"`
}

type ServiceNodeData struct {
	Label         string        `json:"label" yaml:"label"`
	Type          NodeType      `json:"type" yaml:"type"`
	Status        NodeStatus    `json:"status" yaml:"status"`
	Price         string        `json:"price" yaml:"price"`
	CPU           float64       `json:"cpu" yaml:"cpu"`
	Memory        string        `json:"memory" yaml:"memory"`
	Disk          string        `json:"disk" yaml:"disk"`
	Region        int           `json:"region" yaml:"region"`
	ResourceValue float64       `json:"resourceValue" yaml:"resourceValue"`
	Description   string        `json:"description" yaml:"description"`
	Provider      CloudProvider `json:"provider" yaml:"provider"`
}

type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Animated     bool   `json:"animated" yaml:"animated"`
	Selected     bool   `json:"selected,omitempty" yaml:"-"`
}

// Touches reports whether nodeID is one of the edge's endpoints.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

type Stats struct {
	TotalNodes    int            `json:"total_nodes"`
	TotalEdges    int            `json:"total_edges"`
	NodesByType   map[string]int `json:"nodes_by_type,omitempty"`
	NodesByStatus map[string]int `json:"nodes_by_status,omitempty"`
}

func (g *Graph) ComputeStats() *Stats {
	stats := &Stats{
		TotalNodes:    len(g.Nodes),
		TotalEdges:    len(g.Edges),
		NodesByType:   make(map[string]int),
		NodesByStatus: make(map[string]int),
	}

	for _, node := range g.Nodes {
		stats.NodesByType[string(node.Data.Type)]++
		stats.NodesByStatus[string(node.Data.Status)]++
	}

	return stats
}

// Clone returns a deep copy of the graph. Node data holds only value fields,
// so copying the slices is enough.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}

	out := &Graph{
		Nodes: CloneNodes(g.Nodes),
		Edges: CloneEdges(g.Edges),
	}
	if g.Stats != nil {
		out.Stats = g.ComputeStats()
	}

	return out
}

func CloneNodes(nodes []ServiceNode) []ServiceNode {
	out := make([]ServiceNode, len(nodes))
	copy(out, nodes)
	return out
}

func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

func FindNode(nodes []ServiceNode, id string) (int, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// WithoutNode drops the node and every edge incident to it.
func WithoutNode(nodes []ServiceNode, edges []Edge, nodeID string) ([]ServiceNode, []Edge) {
	keptNodes := make([]ServiceNode, 0, len(nodes))
	for _, node := range nodes {
		if node.ID != nodeID {
			keptNodes = append(keptNodes, node)
		}
	}

	keptEdges := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if !edge.Touches(nodeID) {
			keptEdges = append(keptEdges, edge)
		}
	}

	return keptNodes, keptEdges
}
