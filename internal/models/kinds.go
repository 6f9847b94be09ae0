// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

import "fmt"

type NodeType string

const (
	NodeTypeDatabase NodeType = "database"
	NodeTypeCache    NodeType = "cache"
	NodeTypeService  NodeType = "service"
)

type NodeStatus string

const (
	StatusHealthy  NodeStatus = "healthy"
	StatusDegraded NodeStatus = "degraded"
	StatusDown     NodeStatus = "down"
)

type CloudProvider string

const (
	ProviderAWS   CloudProvider = "aws"
	ProviderGCP   CloudProvider = "gcp"
	ProviderAzure CloudProvider = "azure"
)

// Tone is the semantic colour family a renderer maps to its palette.
type Tone string

const (
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
)

type TypeDescriptor struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

type StatusDescriptor struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Icon  string `json:"icon"`
}

var NodeTypes = []NodeType{NodeTypeDatabase, NodeTypeCache, NodeTypeService}

var NodeStatuses = []NodeStatus{StatusHealthy, StatusDegraded, StatusDown}

var CloudProviders = []CloudProvider{ProviderAWS, ProviderGCP, ProviderAzure}

var typeDescriptors = map[NodeType]TypeDescriptor{
	NodeTypeDatabase: {Icon: "🐘", Label: "Database"},
	NodeTypeCache:    {Icon: "🔴", Label: "Cache"},
	NodeTypeService:  {Icon: "⚙️", Label: "Service"},
}

var statusDescriptors = map[NodeStatus]StatusDescriptor{
	StatusHealthy:  {Label: "Success", Tone: ToneSuccess, Icon: "check-circle"},
	StatusDegraded: {Label: "Degraded", Tone: ToneWarning, Icon: "alert-triangle"},
	StatusDown:     {Label: "Error", Tone: ToneDestructive, Icon: "alert-triangle"},
}

func (t NodeType) Valid() bool {
	_, ok := typeDescriptors[t]
	return ok
}

func (t NodeType) Descriptor() TypeDescriptor {
	if d, ok := typeDescriptors[t]; ok {
		return d
	}
	return TypeDescriptor{Icon: "?", Label: string(t)}
}

func (s NodeStatus) Valid() bool {
	_, ok := statusDescriptors[s]
	return ok
}

func (s NodeStatus) Descriptor() StatusDescriptor {
	if d, ok := statusDescriptors[s]; ok {
		return d
	}
	return StatusDescriptor{Label: string(s), Tone: ToneWarning, Icon: "help-circle"}
}

func (p CloudProvider) Valid() bool {
	switch p {
	case ProviderAWS, ProviderGCP, ProviderAzure:
		return true
	}
	return false
}

// Validate checks the enumerated fields of the node data.
func (d ServiceNodeData) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("unknown node type %q", d.Type)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("unknown node status %q", d.Status)
	}
	if !d.Provider.Valid() {
		return fmt.Errorf("unknown provider %q", d.Provider)
	}
	if d.ResourceValue < 0 || d.ResourceValue > 100 {
		return fmt.Errorf("resource value %v out of range [0,100]", d.ResourceValue)
	}
	return nil
}
