// Package svgpath builds and serializes SVG path data.
package svgpath

import (
	"strconv"
	"strings"

	"curvetopia/pkg/geometry"
)

type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

type Command string

const (
	ClosePath Command = "Z"
	LineTo    Command = "L"
)

type DrawTo struct {
	Command Command
	X, Y    float64
}

// FromPolyline converts points into a single subpath of straight lines. A
// closed polyline ends with a close-path command in place of its repeated
// final point.
func FromPolyline(points geometry.Polyline, closed bool) *SubPath {
	if len(points) == 0 {
		return nil
	}
	path := &SubPath{X: points[0].X, Y: points[0].Y}
	rest := points[1:]
	if closed && len(rest) > 0 {
		rest = rest[:len(rest)-1]
	}
	for _, p := range rest {
		path.DrawTo = append(path.DrawTo, &DrawTo{Command: LineTo, X: p.X, Y: p.Y})
	}
	if closed {
		path.DrawTo = append(path.DrawTo, &DrawTo{Command: ClosePath, X: path.X, Y: path.Y})
	}
	return path
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func ToString(groups []*SubPath) string {
	var buf strings.Builder

	// Note: this function runs a simple serialization. It does not try to optimize the path string.

	for i, group := range groups {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + formatNumber(group.X) + " " + formatNumber(group.Y))
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				buf.WriteString(" L " + formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}

	return buf.String()
}
