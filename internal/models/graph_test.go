// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		Nodes: []ServiceNode{
			{ID: "postgres-1", Type: ServiceNodeKind, Data: ServiceNodeData{Label: "Postgres", Type: NodeTypeDatabase, Status: StatusHealthy, Provider: ProviderAWS}},
			{ID: "redis-1", Type: ServiceNodeKind, Data: ServiceNodeData{Label: "Redis", Type: NodeTypeCache, Status: StatusDown, Provider: ProviderAWS}},
			{ID: "mongodb-1", Type: ServiceNodeKind, Data: ServiceNodeData{Label: "Mongodb", Type: NodeTypeDatabase, Status: StatusDown, Provider: ProviderAWS}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "postgres-1", Target: "redis-1", Animated: true},
			{ID: "e1-3", Source: "postgres-1", Target: "mongodb-1", Animated: true},
		},
	}
}

func TestGraphUnmarshal(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		jsonData := `{
			"nodes": [],
			"edges": []
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
	})

	t.Run("graph in renderer shape", func(t *testing.T) {
		jsonData := `{
			"nodes": [
				{
					"id": "redis-1",
					"type": "serviceNode",
					"position": {"x": 100, "y": 350},
					"data": {
						"label": "Redis",
						"type": "cache",
						"status": "down",
						"price": "$0.03/HR",
						"cpu": 0.02,
						"memory": "0.05 GB",
						"disk": "10.00 GB",
						"region": 1,
						"resourceValue": 45,
						"description": "Session cache layer",
						"provider": "aws"
					}
				}
			],
			"edges": [
				{"id": "e1-2", "source": "postgres-1", "target": "redis-1", "animated": true}
			]
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		require.Len(t, graph.Nodes, 1)
		node := graph.Nodes[0]
		assert.Equal(t, "redis-1", node.ID)
		assert.Equal(t, Position{X: 100, Y: 350}, node.Position)
		assert.Equal(t, NodeTypeCache, node.Data.Type)
		assert.Equal(t, StatusDown, node.Data.Status)
		assert.Equal(t, 45.0, node.Data.ResourceValue)
		assert.Equal(t, ProviderAWS, node.Data.Provider)
		assert.True(t, graph.Edges[0].Animated)
	})
}

func TestGraphMarshal(t *testing.T) {
	t.Run("omitempty stats when not set", func(t *testing.T) {
		data, err := json.Marshal(Graph{Nodes: []ServiceNode{}, Edges: []Edge{}})

		require.NoError(t, err)
		assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
	})

	t.Run("selected flag omitted when false", func(t *testing.T) {
		data, err := json.Marshal(Edge{ID: "e", Source: "a", Target: "b"})

		require.NoError(t, err)
		assert.NotContains(t, string(data), "selected")
		assert.NotContains(t, string(data), "sourceHandle")
	})
}

func TestComputeStats(t *testing.T) {
	stats := sampleGraph().ComputeStats()

	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalEdges)
	assert.Equal(t, 2, stats.NodesByType["database"])
	assert.Equal(t, 1, stats.NodesByType["cache"])
	assert.Equal(t, 2, stats.NodesByStatus["down"])
	assert.Equal(t, 1, stats.NodesByStatus["healthy"])
}

func TestClone(t *testing.T) {
	t.Run("clone is independent", func(t *testing.T) {
		original := sampleGraph()
		cloned := original.Clone()

		cloned.Nodes[0].Data.Label = "changed"
		cloned.Edges[0].Target = "elsewhere"

		assert.Equal(t, "Postgres", original.Nodes[0].Data.Label)
		assert.Equal(t, "redis-1", original.Edges[0].Target)
	})

	t.Run("nil graph", func(t *testing.T) {
		var g *Graph
		assert.Nil(t, g.Clone())
	})
}

func TestWithoutNode(t *testing.T) {
	t.Run("removes node and incident edges", func(t *testing.T) {
		g := sampleGraph()

		nodes, edges := WithoutNode(g.Nodes, g.Edges, "postgres-1")

		assert.Len(t, nodes, 2)
		assert.Empty(t, edges)
	})

	t.Run("leaf node keeps unrelated edges", func(t *testing.T) {
		g := sampleGraph()

		nodes, edges := WithoutNode(g.Nodes, g.Edges, "redis-1")

		assert.Len(t, nodes, 2)
		require.Len(t, edges, 1)
		assert.Equal(t, "e1-3", edges[0].ID)
	})

	t.Run("unknown id keeps everything", func(t *testing.T) {
		g := sampleGraph()

		nodes, edges := WithoutNode(g.Nodes, g.Edges, "missing")

		assert.Equal(t, g.Nodes, nodes)
		assert.Equal(t, g.Edges, edges)
	})
}

func TestFindNode(t *testing.T) {
	g := sampleGraph()

	idx, ok := FindNode(g.Nodes, "mongodb-1")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = FindNode(g.Nodes, "nope")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}
