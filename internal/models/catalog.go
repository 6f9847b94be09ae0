// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

// Catalog is the fixture document the mock data provider serves from.
type Catalog struct {
	Version int                     `yaml:"version"`
	Apps    []App                   `yaml:"apps"`
	Graphs  map[string]CatalogGraph `yaml:"graphs"`
	Default *CatalogDefault         `yaml:"default,omitempty"`
}

type CatalogGraph struct {
	Nodes []ServiceNode `yaml:"nodes"`
	Edges []Edge        `yaml:"edges"`
}

// CatalogDefault describes the single node synthesized for app ids without a
// graph. The node id is "<appID><IDSuffix>".
type CatalogDefault struct {
	IDSuffix string          `yaml:"idSuffix"`
	Position Position        `yaml:"position"`
	Data     ServiceNodeData `yaml:"data"`
}
