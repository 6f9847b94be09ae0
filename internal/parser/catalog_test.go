// Package parser provides utilities for parsing and transforming input data.
// It turns fixture catalog documents into apps and validated graphs.
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrascope/canvas/internal/models"
)

func TestParseCatalog_Valid(t *testing.T) {
	input := []byte(`
version: 1
apps:
  - id: shop
    name: shop
    icon: "🛒"
    color: "#000000"
graphs:
  shop:
    nodes:
      - id: pg
        position: { x: 1, y: 2 }
        data:
          label: Postgres
          type: database
          status: degraded
          cpu: 0.5
          region: 3
          resourceValue: 10
          provider: gcp
      - id: cache
        data: { label: Redis, type: cache, status: healthy, provider: aws }
    edges:
      - { id: pg-cache, source: pg, target: cache, animated: true }
`)

	catalog, err := ParseCatalog(input)

	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Version)
	require.Len(t, catalog.Apps, 1)
	assert.Equal(t, "shop", catalog.Apps[0].ID)
	graph := catalog.Graphs["shop"]
	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, models.StatusDegraded, graph.Nodes[0].Data.Status)
	assert.Equal(t, 0.5, graph.Nodes[0].Data.CPU)
	assert.Equal(t, 3, graph.Nodes[0].Data.Region)
	assert.Equal(t, models.Position{X: 1, Y: 2}, graph.Nodes[0].Position)
	assert.True(t, graph.Edges[0].Animated)
}

func TestParseCatalog_Empty(t *testing.T) {
	_, err := ParseCatalog([]byte{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty catalog data")
}

func TestParseCatalog_InvalidYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("version: [1"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestParseCatalog_MissingVersion(t *testing.T) {
	_, err := ParseCatalog([]byte("apps: []"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing version")
}

func TestParseCatalog_UnsupportedVersion(t *testing.T) {
	_, err := ParseCatalog([]byte("version: 7"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestParseCatalog_DuplicateApp(t *testing.T) {
	input := []byte(`
version: 1
apps:
  - { id: a, name: a }
  - { id: a, name: again }
`)
	_, err := ParseCatalog(input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate app id")
}

func TestParseCatalog_DanglingEdge(t *testing.T) {
	input := []byte(`
version: 1
graphs:
  a:
    nodes:
      - id: n1
        data: { type: service, status: healthy, provider: aws }
    edges:
      - { id: e, source: n1, target: n2 }
`)
	_, err := ParseCatalog(input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `graph "a"`)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestParseCatalog_InvalidDefault(t *testing.T) {
	input := []byte(`
version: 1
default:
  data: { type: blob, status: healthy, provider: aws }
`)
	_, err := ParseCatalog(input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default node")
}
