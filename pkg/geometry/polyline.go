package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

type Polyline []Point

// IsClosed reports whether the first and last points coincide within tol.
// A path needs at least three points to be closed.
func (line Polyline) IsClosed(tol float64) bool {
	if len(line) < 3 {
		return false
	}
	return line[0].Near(line[len(line)-1], tol)
}

// Vertices returns the distinct vertices of the path: for a closed path the
// repeated closing point is dropped. The result shares storage with line.
func (line Polyline) Vertices(tol float64) Polyline {
	if line.IsClosed(tol) {
		return line[:len(line)-1]
	}
	return line
}

// Centroid returns the arithmetic mean of the points.
func (line Polyline) Centroid() Point {
	var c Point
	if len(line) == 0 {
		return c
	}
	for _, p := range line {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(line)))
}

// Directions returns one unit vector per consecutive pair of points.
func (line Polyline) Directions() ([]Vector2, error) {
	if len(line) < 2 {
		return nil, nil
	}
	dirs := make([]Vector2, 0, len(line)-1)
	for i := 1; i < len(line); i++ {
		d, err := line[i].Minus(line[i-1]).Normalize()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// Edges returns the vectors between consecutive points.
func (line Polyline) Edges() []Vector2 {
	if len(line) < 2 {
		return nil
	}
	edges := make([]Vector2, len(line)-1)
	for i := range edges {
		edges[i] = line[i+1].Minus(line[i])
	}
	return edges
}

// Reflect mirrors every point across the line through axisPoint with the
// given unit normal.
func (line Polyline) Reflect(axisPoint Point, axisNormal Vector2) Polyline {
	out := make(Polyline, len(line))
	for i, p := range line {
		d := p.Minus(axisPoint).Dot(axisNormal)
		out[i] = p.Minus(axisNormal.Scale(2 * d))
	}
	return out
}

// Rotate rotates every point about center by angle radians.
func (line Polyline) Rotate(center Point, angle float64) Polyline {
	out := make(Polyline, len(line))
	for i, p := range line {
		out[i] = p.Rotate(center, angle)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the points. An empty path
// has an empty box at the origin.
func (line Polyline) Bounds() geom.Rect {
	if len(line) == 0 {
		return geom.Rect{}
	}
	first := geom.Coord{X: line[0].X, Y: line[0].Y}
	r := geom.Rect{Min: first, Max: first}
	for _, p := range line[1:] {
		r.ExpandToContainCoord(geom.Coord{X: p.X, Y: p.Y})
	}
	return r
}

// Extent returns the larger side of the bounding box, or 0 for an empty path.
func (line Polyline) Extent() float64 {
	if len(line) == 0 {
		return 0
	}
	b := line.Bounds()
	return math.Max(b.Width(), b.Height())
}

// NearestIndex returns the index of the point closest to p, or -1 for an
// empty path. Ties go to the lowest index.
func (line Polyline) NearestIndex(p Point) int {
	best := -1
	dist := math.Inf(1)
	for i, q := range line {
		if d := q.Distance(p); d < dist {
			dist = d
			best = i
		}
	}
	return best
}

// Clone returns a copy of the path that does not share storage with line.
func (line Polyline) Clone() Polyline {
	if line == nil {
		return nil
	}
	out := make(Polyline, len(line))
	copy(out, line)
	return out
}
