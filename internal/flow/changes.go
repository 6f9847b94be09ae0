// Package flow implements the node/edge reducers of the canvas renderer:
// applying change lists, adding edges from connections and fitting the
// viewport. Reducers never mutate their inputs.
package flow

import (
	"fmt"

	"github.com/terrascope/canvas/internal/models"
)

// ApplyNodeChanges applies changes in order. Changes naming unknown ids are
// skipped, so replaying a list is harmless.
func ApplyNodeChanges(changes []models.NodeChange, nodes []models.ServiceNode) []models.ServiceNode {
	out := models.CloneNodes(nodes)

	for _, change := range changes {
		switch change.Type {
		case models.ChangeAdd:
			if change.Item == nil {
				continue
			}
			if _, exists := models.FindNode(out, change.Item.ID); exists {
				continue
			}
			out = append(out, *change.Item)
		case models.ChangeRemove:
			if idx, ok := models.FindNode(out, change.ID); ok {
				out = append(out[:idx:idx], out[idx+1:]...)
			}
		case models.ChangePosition:
			if idx, ok := models.FindNode(out, change.ID); ok && change.Position != nil {
				out[idx].Position = *change.Position
			}
		case models.ChangeSelect:
			if idx, ok := models.FindNode(out, change.ID); ok && change.Selected != nil {
				out[idx].Selected = *change.Selected
			}
		case models.ChangeReplace:
			if change.Item == nil {
				continue
			}
			if idx, ok := models.FindNode(out, change.ID); ok {
				out[idx] = *change.Item
			}
		case models.ChangeDimensions:
			// measured sizes live in the client only
		}
	}

	return out
}

func ApplyEdgeChanges(changes []models.EdgeChange, edges []models.Edge) []models.Edge {
	out := models.CloneEdges(edges)

	for _, change := range changes {
		switch change.Type {
		case models.ChangeAdd:
			if change.Item == nil || findEdge(out, change.Item.ID) >= 0 {
				continue
			}
			out = append(out, *change.Item)
		case models.ChangeRemove:
			if idx := findEdge(out, change.ID); idx >= 0 {
				out = append(out[:idx:idx], out[idx+1:]...)
			}
		case models.ChangeSelect:
			if idx := findEdge(out, change.ID); idx >= 0 && change.Selected != nil {
				out[idx].Selected = *change.Selected
			}
		case models.ChangeReplace:
			if idx := findEdge(out, change.ID); idx >= 0 && change.Item != nil {
				out[idx] = *change.Item
			}
		}
	}

	return out
}

// EdgeID is the id given to edges created from a connection.
func EdgeID(conn models.Connection) string {
	return fmt.Sprintf("xy-edge__%s%s-%s%s", conn.Source, conn.SourceHandle, conn.Target, conn.TargetHandle)
}

// AddEdge appends an animated edge for conn. Connections missing an endpoint
// and connections identical to an existing edge are ignored.
func AddEdge(conn models.Connection, edges []models.Edge) []models.Edge {
	out := models.CloneEdges(edges)

	if conn.Source == "" || conn.Target == "" {
		return out
	}

	for _, e := range out {
		if e.Source == conn.Source && e.Target == conn.Target &&
			e.SourceHandle == conn.SourceHandle && e.TargetHandle == conn.TargetHandle {
			return out
		}
	}

	return append(out, models.Edge{
		ID:           EdgeID(conn),
		Source:       conn.Source,
		Target:       conn.Target,
		SourceHandle: conn.SourceHandle,
		TargetHandle: conn.TargetHandle,
		Animated:     true,
	})
}

func findEdge(edges []models.Edge, id string) int {
	for i := range edges {
		if edges[i].ID == id {
			return i
		}
	}
	return -1
}
