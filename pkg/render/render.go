// Package render draws curves as SVG or PNG, one colour per group.
package render

import (
	"math"

	"curvetopia/pkg/geometry"
	"curvetopia/pkg/pathio"
)

// closeTolerance decides whether a curve is drawn as a closed outline.
const closeTolerance = 1e-8

// viewport is the drawing area: the bounding box of every point plus a 10%
// margin on each side.
type viewport struct {
	minX, minY    float64
	width, height float64
}

func newViewport(curves []pathio.Curve) viewport {
	var all geometry.Polyline
	for _, c := range curves {
		all = append(all, c.Points...)
	}
	if len(all) == 0 {
		return viewport{width: 1, height: 1}
	}
	b := all.Bounds()
	pad := 0.1 * math.Max(b.Width(), b.Height())
	if pad == 0 {
		pad = 1
	}
	return viewport{
		minX:   b.Min.X - pad,
		minY:   b.Min.Y - pad,
		width:  b.Width() + 2*pad,
		height: b.Height() + 2*pad,
	}
}
