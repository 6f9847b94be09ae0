// Package parser provides utilities for parsing and transforming input data.
// It turns fixture catalog documents into apps and validated graphs.
package parser

import (
	"fmt"

	"github.com/terrascope/canvas/internal/models"
)

const defaultIDSuffix = "-db"

var builtinDefault = models.CatalogDefault{
	IDSuffix: defaultIDSuffix,
	Position: models.Position{X: 300, Y: 200},
	Data: models.ServiceNodeData{
		Label:         "Database",
		Type:          models.NodeTypeDatabase,
		Status:        models.StatusHealthy,
		Price:         "$0.03/HR",
		CPU:           0.02,
		Memory:        "0.05 GB",
		Disk:          "10.00 GB",
		Region:        1,
		ResourceValue: 50,
		Description:   "Default database",
		Provider:      models.ProviderAWS,
	},
}

// BuildGraph resolves the graph for appID. Every id resolves: ids without a
// catalog entry get the single-node default graph.
func BuildGraph(catalog *models.Catalog, appID string) *models.Graph {
	if catalog != nil {
		if g, ok := catalog.Graphs[appID]; ok {
			graph := &models.Graph{
				Nodes: normalizeNodes(g.Nodes),
				Edges: models.CloneEdges(g.Edges),
			}
			graph.Stats = graph.ComputeStats()
			return graph
		}
	}

	def := builtinDefault
	if catalog != nil && catalog.Default != nil {
		def = *catalog.Default
	}

	return DefaultGraph(appID, def)
}

func DefaultGraph(appID string, def models.CatalogDefault) *models.Graph {
	suffix := def.IDSuffix
	if suffix == "" {
		suffix = defaultIDSuffix
	}

	graph := &models.Graph{
		Nodes: []models.ServiceNode{
			{
				ID:       appID + suffix,
				Type:     models.ServiceNodeKind,
				Position: def.Position,
				Data:     def.Data,
			},
		},
		Edges: []models.Edge{},
	}
	graph.Stats = graph.ComputeStats()

	return graph
}

// ValidateGraph checks node id uniqueness, enumerated node fields and that
// every edge references existing nodes.
func ValidateGraph(graph *models.Graph) error {
	nodeIDs := make(map[string]bool, len(graph.Nodes))
	for _, node := range graph.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node without id")
		}
		if nodeIDs[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}
		if err := node.Data.Validate(); err != nil {
			return fmt.Errorf("node %q: %w", node.ID, err)
		}
		nodeIDs[node.ID] = true
	}

	edgeIDs := make(map[string]bool, len(graph.Edges))
	for _, edge := range graph.Edges {
		if edge.ID == "" {
			return fmt.Errorf("edge without id")
		}
		if edgeIDs[edge.ID] {
			return fmt.Errorf("duplicate edge id %q", edge.ID)
		}
		if !nodeIDs[edge.Source] {
			return fmt.Errorf("edge %q: unknown source %q", edge.ID, edge.Source)
		}
		if !nodeIDs[edge.Target] {
			return fmt.Errorf("edge %q: unknown target %q", edge.ID, edge.Target)
		}
		edgeIDs[edge.ID] = true
	}

	return nil
}

func normalizeNodes(nodes []models.ServiceNode) []models.ServiceNode {
	out := models.CloneNodes(nodes)
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = models.ServiceNodeKind
		}
	}
	return out
}
