// Package inspector binds the selected node's data to the inspector panel.
// Every edit is written straight through the store; there is no draft state.
package inspector

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/models"
	"github.com/terrascope/canvas/internal/store"
)

var ErrUnknownTab = errors.New("inspector: unknown tab")

type Header struct {
	NodeID string                  `json:"nodeId"`
	Label  string                  `json:"label"`
	Type   models.TypeDescriptor   `json:"type"`
	Status models.StatusDescriptor `json:"status"`
}

// Config holds the editable fields.
type Config struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ResourceValue float64 `json:"resourceValue"`
}

// Runtime holds read-only metrics.
type Runtime struct {
	CPU      string `json:"cpu"`
	Memory   string `json:"memory"`
	Disk     string `json:"disk"`
	Region   string `json:"region"`
	Price    string `json:"price"`
	Provider string `json:"provider"`
}

type View struct {
	Tab     store.InspectorTab `json:"tab"`
	Header  Header             `json:"header"`
	Config  Config             `json:"config"`
	Runtime Runtime            `json:"runtime"`
}

type Inspector struct {
	store *store.Store
}

func New(s *store.Store) *Inspector {
	return &Inspector{store: s}
}

// View renders the selected node. It reports false when no node is selected
// or the selected node no longer exists.
func (i *Inspector) View() (*View, bool) {
	st := i.store.State()
	if st.SelectedNodeID == "" {
		return nil, false
	}
	idx, ok := models.FindNode(st.Nodes, st.SelectedNodeID)
	if !ok {
		return nil, false
	}
	node := st.Nodes[idx]
	data := node.Data

	return &View{
		Tab: st.ActiveInspectorTab,
		Header: Header{
			NodeID: node.ID,
			Label:  data.Label,
			Type:   data.Type.Descriptor(),
			Status: data.Status.Descriptor(),
		},
		Config: Config{
			Name:          data.Label,
			Description:   data.Description,
			ResourceValue: data.ResourceValue,
		},
		Runtime: Runtime{
			CPU:      strconv.FormatFloat(data.CPU, 'f', -1, 64),
			Memory:   data.Memory,
			Disk:     data.Disk,
			Region:   strconv.Itoa(data.Region),
			Price:    data.Price,
			Provider: strings.ToUpper(string(data.Provider)),
		},
	}, true
}

func (i *Inspector) SetName(name string) bool {
	return i.write(models.NodeDataPatch{Label: &name})
}

func (i *Inspector) SetDescription(description string) bool {
	return i.write(models.NodeDataPatch{Description: &description})
}

// SetResourceValue writes a slider value, clamped to the resource range.
func (i *Inspector) SetResourceValue(v float64) bool {
	v = Clamp(v)
	return i.write(models.NodeDataPatch{ResourceValue: &v})
}

// SetResourceInput writes the raw text of the numeric input. Text that is not
// a finite number counts as zero.
func (i *Inspector) SetResourceInput(raw string) bool {
	return i.SetResourceValue(ParseResource(raw))
}

func (i *Inspector) SetTab(tab string) error {
	t := store.InspectorTab(tab)
	if t != store.TabConfig && t != store.TabRuntime {
		return errors.Wrapf(ErrUnknownTab, "%q", tab)
	}
	i.store.SetActiveInspectorTab(t)
	return nil
}

func (i *Inspector) write(patch models.NodeDataPatch) bool {
	nodeID := i.store.State().SelectedNodeID
	if nodeID == "" {
		return false
	}
	return i.store.UpdateNodeData(nodeID, patch)
}

func Clamp(v float64) float64 {
	return models.ClampResource(v)
}

func ParseResource(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// overflow still carries a usable ±Inf
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v
		}
		return 0
	}
	if math.IsNaN(v) {
		return 0
	}
	return v
}
