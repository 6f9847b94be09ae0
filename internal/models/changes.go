// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

import "math"

const (
	MinResourceValue = 0
	MaxResourceValue = 100
)

// ClampResource bounds v to the resource range. NaN becomes the minimum.
func ClampResource(v float64) float64 {
	if math.IsNaN(v) {
		return MinResourceValue
	}
	return math.Min(MaxResourceValue, math.Max(MinResourceValue, v))
}

// NodeDataPatch is a partial ServiceNodeData. Nil fields are left untouched.
type NodeDataPatch struct {
	Label         *string        `json:"label,omitempty"`
	Type          *NodeType      `json:"type,omitempty"`
	Status        *NodeStatus    `json:"status,omitempty"`
	Price         *string        `json:"price,omitempty"`
	CPU           *float64       `json:"cpu,omitempty"`
	Memory        *string        `json:"memory,omitempty"`
	Disk          *string        `json:"disk,omitempty"`
	Region        *int           `json:"region,omitempty"`
	ResourceValue *float64       `json:"resourceValue,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Provider      *CloudProvider `json:"provider,omitempty"`
}

func (p NodeDataPatch) Empty() bool {
	return p == NodeDataPatch{}
}

func (p NodeDataPatch) Apply(d ServiceNodeData) ServiceNodeData {
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.CPU != nil {
		d.CPU = *p.CPU
	}
	if p.Memory != nil {
		d.Memory = *p.Memory
	}
	if p.Disk != nil {
		d.Disk = *p.Disk
	}
	if p.Region != nil {
		d.Region = *p.Region
	}
	if p.ResourceValue != nil {
		d.ResourceValue = *p.ResourceValue
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Provider != nil {
		d.Provider = *p.Provider
	}
	return d
}

// Connection is the payload of a connect gesture between two node handles.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
	ChangeAdd        ChangeType = "add"
	ChangeReplace    ChangeType = "replace"
	ChangeDimensions ChangeType = "dimensions"
)

type NodeChange struct {
	Type     ChangeType   `json:"type" validate:"required,oneof=position select remove add replace dimensions"`
	ID       string       `json:"id,omitempty"`
	Position *Position    `json:"position,omitempty"`
	Selected *bool        `json:"selected,omitempty"`
	Dragging *bool        `json:"dragging,omitempty"`
	Item     *ServiceNode `json:"item,omitempty"`
}

type EdgeChange struct {
	Type     ChangeType `json:"type" validate:"required,oneof=select remove add replace"`
	ID       string     `json:"id,omitempty"`
	Selected *bool      `json:"selected,omitempty"`
	Item     *Edge      `json:"item,omitempty"`
}
