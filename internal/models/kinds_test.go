// Package models defines the core data structures shared by the store, the
// canvas controller and the HTTP layer.
package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorTablesAreExhaustive(t *testing.T) {
	for _, kind := range NodeTypes {
		assert.True(t, kind.Valid(), "type %s", kind)
		_, ok := typeDescriptors[kind]
		assert.True(t, ok, "missing descriptor for type %s", kind)
	}
	for _, status := range NodeStatuses {
		assert.True(t, status.Valid(), "status %s", status)
		_, ok := statusDescriptors[status]
		assert.True(t, ok, "missing descriptor for status %s", status)
	}
	for _, p := range CloudProviders {
		assert.True(t, p.Valid(), "provider %s", p)
	}
	assert.Len(t, typeDescriptors, len(NodeTypes))
	assert.Len(t, statusDescriptors, len(NodeStatuses))
}

func TestStatusDescriptor(t *testing.T) {
	tests := []struct {
		status NodeStatus
		label  string
		tone   Tone
	}{
		{StatusHealthy, "Success", ToneSuccess},
		{StatusDegraded, "Degraded", ToneWarning},
		{StatusDown, "Error", ToneDestructive},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := tt.status.Descriptor()
			assert.Equal(t, tt.label, d.Label)
			assert.Equal(t, tt.tone, d.Tone)
		})
	}

	t.Run("unknown status falls back to its raw value", func(t *testing.T) {
		assert.False(t, NodeStatus("exploded").Valid())
		assert.Equal(t, "exploded", NodeStatus("exploded").Descriptor().Label)
	})
}

func TestTypeDescriptor(t *testing.T) {
	assert.Equal(t, "🐘", NodeTypeDatabase.Descriptor().Icon)
	assert.Equal(t, "🔴", NodeTypeCache.Descriptor().Icon)
	assert.Equal(t, "⚙️", NodeTypeService.Descriptor().Icon)
	assert.Equal(t, "queue", NodeType("queue").Descriptor().Label)
}

func TestServiceNodeDataValidate(t *testing.T) {
	valid := ServiceNodeData{Type: NodeTypeCache, Status: StatusDegraded, Provider: ProviderGCP, ResourceValue: 30}

	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Type = "queue"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Status = "unknown"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Provider = "oracle"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ResourceValue = 101
	assert.Error(t, bad.Validate())
}

func TestClampResource(t *testing.T) {
	assert.Equal(t, 0.0, ClampResource(-5))
	assert.Equal(t, 100.0, ClampResource(250))
	assert.Equal(t, 70.0, ClampResource(70))
	assert.Equal(t, 0.0, ClampResource(math.NaN()))
	assert.Equal(t, 100.0, ClampResource(math.Inf(1)))
}

func TestNodeDataPatch(t *testing.T) {
	base := ServiceNodeData{Label: "Redis", Description: "Session cache layer", ResourceValue: 45, Status: StatusDown}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		p := NodeDataPatch{}
		assert.True(t, p.Empty())
		assert.Equal(t, base, p.Apply(base))
	})

	t.Run("only present fields are merged", func(t *testing.T) {
		v := 70.0
		label := "Redis primary"
		p := NodeDataPatch{ResourceValue: &v, Label: &label}

		out := p.Apply(base)

		assert.False(t, p.Empty())
		assert.Equal(t, 70.0, out.ResourceValue)
		assert.Equal(t, "Redis primary", out.Label)
		assert.Equal(t, "Session cache layer", out.Description)
		assert.Equal(t, StatusDown, out.Status)
	})
}
