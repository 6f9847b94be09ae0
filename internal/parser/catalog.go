// Package parser provides utilities for parsing and transforming input data.
// It turns fixture catalog documents into apps and validated graphs.
package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/terrascope/canvas/internal/models"
)

const catalogVersion = 1

func ParseCatalog(data []byte) (*models.Catalog, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty catalog data")
	}

	var catalog models.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	if catalog.Version == 0 {
		return nil, fmt.Errorf("invalid catalog: missing version field")
	}

	if catalog.Version != catalogVersion {
		return nil, fmt.Errorf("invalid catalog: unsupported version %d", catalog.Version)
	}

	seen := make(map[string]bool, len(catalog.Apps))
	for i, app := range catalog.Apps {
		if app.ID == "" {
			return nil, fmt.Errorf("invalid catalog: app %d has no id", i)
		}
		if seen[app.ID] {
			return nil, fmt.Errorf("invalid catalog: duplicate app id %q", app.ID)
		}
		seen[app.ID] = true
	}

	for appID, g := range catalog.Graphs {
		graph := &models.Graph{Nodes: g.Nodes, Edges: g.Edges}
		if err := ValidateGraph(graph); err != nil {
			return nil, fmt.Errorf("invalid catalog: graph %q: %w", appID, err)
		}
	}

	if catalog.Default != nil {
		if err := catalog.Default.Data.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog: default node: %w", err)
		}
	}

	return &catalog, nil
}
