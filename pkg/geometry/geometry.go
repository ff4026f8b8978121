package geometry

import (
	"math"

	"golang.org/x/xerrors"
)

// ErrDegenerateSegment is returned when a segment has zero length and
// therefore has no direction.
var ErrDegenerateSegment = xerrors.New("zero-length segment")

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Normalize returns the unit vector pointing the same way as v.
func (v Vector2) Normalize() (Vector2, error) {
	m := v.Magnitude()
	if m == 0 {
		return Vector2{}, ErrDegenerateSegment
	}
	return v.Scale(1 / m), nil
}

// Perpendicular returns v rotated by 90 degrees counter-clockwise.
func (v Vector2) Perpendicular() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Rotate rotates p about center by angle radians.
func (p Point) Rotate(center Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	d := p.Minus(center)
	return Point{
		X: center.X + d.X*cos - d.Y*sin,
		Y: center.Y + d.X*sin + d.Y*cos,
	}
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Midpoint returns the point halfway between p and other.
func (p Point) Midpoint(other Point) Point {
	return Point{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Near reports whether p and other are equal within tol, per coordinate.
func (p Point) Near(other Point, tol float64) bool {
	return math.Abs(p.X-other.X) <= tol && math.Abs(p.Y-other.Y) <= tol
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	AP := p.Minus(s.A)
	AB := s.A.Minus(s.B)
	mAP := AP.Magnitude()
	mBP := p.Minus(s.B).Magnitude()
	mAB := AB.Magnitude()

	if mAP > mAB || mBP > mAB {
		// closest point on line is outside segment boundaries, so the closest point
		// is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(AP.CrossProductZ(AB)) / mAB
}

// Intersection returns the point where s crosses o. Both segments are
// treated as closed: a hit exactly at an endpoint of either segment counts.
// Parallel and collinear segments never intersect.
func (s LineSegment) Intersection(o LineSegment) (Point, bool) {
	r := s.B.Minus(s.A)
	q := o.B.Minus(o.A)
	denom := q.Y*r.X - q.X*r.Y
	if denom == 0 {
		return Point{}, false
	}

	w := s.A.Minus(o.A)
	ua := (q.X*w.Y - q.Y*w.X) / denom
	if ua < 0 || ua > 1 {
		return Point{}, false
	}
	ub := (r.X*w.Y - r.Y*w.X) / denom
	if ub < 0 || ub > 1 {
		return Point{}, false
	}

	return s.A.Add(r.Scale(ua)), true
}
