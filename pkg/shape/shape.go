// Package shape classifies a path as one of a small set of geometric
// primitives. Detectors run as a decision list: the first one that matches
// determines the label.
package shape

import (
	"fmt"
	"math"

	"curvetopia/pkg/cfg"
	"curvetopia/pkg/geometry"
)

type Kind int

const (
	Irregular Kind = iota
	Line
	Circle
	Ellipse
	Rectangle
	RegularPolygon
	Star
)

var kindNames = []string{
	Irregular:      "irregular",
	Line:           "line",
	Circle:         "circle",
	Ellipse:        "ellipse",
	Rectangle:      "rectangle",
	RegularPolygon: "regular_polygon",
	Star:           "star",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Label is the result of classifying one path. Sides is only set for
// RegularPolygon.
type Label struct {
	Kind  Kind
	Sides int
}

func (l Label) String() string {
	if l.Kind == RegularPolygon {
		return fmt.Sprintf("%s_%d", l.Kind, l.Sides)
	}
	return l.Kind.String()
}

// Classify returns the label of path. It never fails: a path too short to
// say anything about is a line, and a test that cannot be evaluated (zero
// radius, zero-length edge) simply does not match.
func Classify(path geometry.Polyline, tol cfg.Shape) Label {
	if isLine(path, tol) {
		return Label{Kind: Line}
	}
	if kind, ok := round(path, tol); ok {
		return Label{Kind: kind}
	}
	if isRectangle(path, tol) {
		return Label{Kind: Rectangle}
	}
	if sides, ok := regularPolygon(path, tol); ok {
		return Label{Kind: RegularPolygon, Sides: sides}
	}
	if isStar(path, tol) {
		return Label{Kind: Star}
	}
	return Label{Kind: Irregular}
}

// ClassifyAll classifies each path independently.
func ClassifyAll(paths []geometry.Polyline, tol cfg.Shape) []Label {
	labels := make([]Label, len(paths))
	for i, p := range paths {
		labels[i] = Classify(p, tol)
	}
	return labels
}

// isClose matches numpy's isclose: |a-b| <= atol + rtol*|b|.
func isClose(a, b, rtol float64) bool {
	return math.Abs(a-b) <= 1e-8+rtol*math.Abs(b)
}

func allClose(values []float64, target, rtol float64) bool {
	for _, v := range values {
		if !isClose(v, target, rtol) {
			return false
		}
	}
	return true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// isLine compares every pair of segment directions, not only neighbours, so
// that slowly turning curves are not mistaken for lines.
func isLine(path geometry.Polyline, tol cfg.Shape) bool {
	if len(path) < 3 {
		return true
	}
	dirs, err := path.Directions()
	if err != nil {
		return false
	}
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			if math.Abs(dirs[i].Dot(dirs[j])) <= tol.CollinearDot {
				return false
			}
		}
	}
	return true
}

// round tests for a circle and then an axis-aligned ellipse. Both the
// vertices and the edge midpoints must lie on the fitted curve; polygon
// vertices alone are concyclic and would otherwise pass.
func round(path geometry.Polyline, tol cfg.Shape) (Kind, bool) {
	if len(path) < 5 {
		return Irregular, false
	}
	verts := path.Vertices(tol.CloseTolerance)
	center := verts.Centroid()

	mids := make(geometry.Polyline, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		mids = append(mids, path[i-1].Midpoint(path[i]))
	}

	radii := make([]float64, len(verts))
	for i, p := range verts {
		radii[i] = p.Distance(center)
	}
	r := mean(radii)
	if r > 0 {
		midRadii := make([]float64, len(mids))
		for i, p := range mids {
			midRadii[i] = p.Distance(center)
		}
		if allClose(radii, r, tol.CircleTolerance) && allClose(midRadii, r, tol.CircleTolerance) {
			return Circle, true
		}
	}

	var a, b float64
	for _, p := range verts {
		a = math.Max(a, math.Abs(p.X-center.X))
		b = math.Max(b, math.Abs(p.Y-center.Y))
	}
	// Equal half-axes describe the circle that was just rejected.
	if a == 0 || b == 0 || isClose(a, b, tol.CircleTolerance) {
		return Irregular, false
	}
	onEllipse := func(points geometry.Polyline, rtol float64) bool {
		for _, p := range points {
			d := math.Hypot((p.X-center.X)/a, (p.Y-center.Y)/b)
			if !isClose(d, 1, rtol) {
				return false
			}
		}
		return true
	}
	// Midpoints are held to the circle tolerance so polygon edges do not
	// pass for arcs.
	if !onEllipse(verts, tol.EllipseTolerance) || !onEllipse(mids, tol.CircleTolerance) {
		return Irregular, false
	}
	return Ellipse, true
}

func isRectangle(path geometry.Polyline, tol cfg.Shape) bool {
	if len(path) != 5 || !path.IsClosed(tol.CloseTolerance) {
		return false
	}
	edges := path.Edges()
	var lengths [4]float64
	for i, e := range edges {
		lengths[i] = e.Magnitude()
		if lengths[i] == 0 {
			return false
		}
	}
	sin := func(i, j int) float64 {
		return math.Abs(edges[i].CrossProductZ(edges[j])) / (lengths[i] * lengths[j])
	}
	cos := func(i, j int) float64 {
		return math.Abs(edges[i].Dot(edges[j])) / (lengths[i] * lengths[j])
	}
	return sin(0, 2) <= tol.RightAngleTolerance &&
		sin(1, 3) <= tol.RightAngleTolerance &&
		cos(0, 1) <= tol.RightAngleTolerance &&
		cos(2, 3) <= tol.RightAngleTolerance
}

// regularPolygon checks that the closed polygon has equal sides and equal
// signed turning angles. The turning angles of a star alternate in sign, so
// stars fall through to the next test.
func regularPolygon(path geometry.Polyline, tol cfg.Shape) (int, bool) {
	if !path.IsClosed(tol.CloseTolerance) {
		return 0, false
	}
	verts := path.Vertices(tol.CloseTolerance)
	n := len(verts)
	if n < 3 {
		return 0, false
	}

	edges := make([]geometry.Vector2, n)
	lengths := make([]float64, n)
	for i := range verts {
		edges[i] = verts[(i+1)%n].Minus(verts[i])
		lengths[i] = edges[i].Magnitude()
		if lengths[i] == 0 {
			return 0, false
		}
	}
	if !allClose(lengths, mean(lengths), tol.PolygonEdgeTolerance) {
		return 0, false
	}

	turns := make([]float64, n)
	for i := range edges {
		next := edges[(i+1)%n]
		turns[i] = math.Atan2(edges[i].CrossProductZ(next), edges[i].Dot(next))
	}
	m := mean(turns)
	if math.Abs(m) < 1e-12 || !allClose(turns, m, tol.PolygonAngleTolerance) {
		return 0, false
	}
	return n, true
}

// isStar looks for vertex radii that alternate between long and short all
// the way round, with every step between neighbours a sizeable jump.
func isStar(path geometry.Polyline, tol cfg.Shape) bool {
	if len(path) < 6 || !path.IsClosed(tol.CloseTolerance) {
		return false
	}
	verts := path.Vertices(tol.CloseTolerance)
	n := len(verts)
	if n < 6 || n%2 != 0 {
		return false
	}

	center := verts.Centroid()
	radii := make([]float64, n)
	for i, p := range verts {
		radii[i] = p.Distance(center)
	}
	r := mean(radii)
	if r == 0 {
		return false
	}
	for i := range radii {
		next := radii[(i+1)%n]
		if (radii[i] > r) == (next > r) {
			return false
		}
		if math.Abs(next-radii[i]) <= tol.StarJumpRatio*r {
			return false
		}
	}
	return true
}
