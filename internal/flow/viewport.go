package flow

import (
	"math"

	"github.com/terrascope/canvas/internal/models"
)

const (
	NodeWidth      = 280
	NodeHeight     = 200
	MinZoom        = 0.5
	MaxZoom        = 2
	DefaultPadding = 0.2
)

type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeBounds is the rectangle covering every node. The second result is false
// when there are no nodes.
func NodeBounds(nodes []models.ServiceNode) (Bounds, bool) {
	if len(nodes) == 0 {
		return Bounds{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+NodeWidth)
		maxY = math.Max(maxY, n.Position.Y+NodeHeight)
	}

	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// FitView centers the nodes in a width x height viewport. padding is a
// fraction of the viewport; non-positive values use DefaultPadding.
func FitView(nodes []models.ServiceNode, width, height, padding float64) Viewport {
	bounds, ok := NodeBounds(nodes)
	if !ok || width <= 0 || height <= 0 {
		return Viewport{Zoom: 1}
	}
	if padding <= 0 {
		padding = DefaultPadding
	}

	zoomX := width / (bounds.Width * (1 + padding))
	zoomY := height / (bounds.Height * (1 + padding))
	zoom := math.Min(MaxZoom, math.Max(MinZoom, math.Min(zoomX, zoomY)))

	centerX := bounds.X + bounds.Width/2
	centerY := bounds.Y + bounds.Height/2

	return Viewport{
		X:    width/2 - centerX*zoom,
		Y:    height/2 - centerY*zoom,
		Zoom: zoom,
	}
}
