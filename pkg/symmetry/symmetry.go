// Package symmetry finds the reflection axes and rotational order of a path.
package symmetry

import (
	"math"

	"curvetopia/pkg/cfg"
	"curvetopia/pkg/geometry"
)

// Axis is a mirror line through Point, perpendicular to the unit vector
// Normal.
type Axis struct {
	Point  geometry.Point
	Normal geometry.Vector2
}

// Record holds the symmetry found for a single path. Order is 1 when the
// path has no rotational symmetry beyond the identity.
type Record struct {
	Axes  []Axis
	Order int
}

// Analyze computes both kinds of symmetry for path.
func Analyze(path geometry.Polyline, tol cfg.Symmetry) Record {
	return Record{
		Axes:  ReflectionAxes(path, tol),
		Order: RotationalOrder(path, tol),
	}
}

func AnalyzeAll(paths []geometry.Polyline, tol cfg.Symmetry) []Record {
	records := make([]Record, len(paths))
	for i, p := range paths {
		records[i] = Analyze(p, tol)
	}
	return records
}

// sameLine bounds the difference between two axes that describe one line.
const sameLine = 1e-9

type candidate struct {
	axis  Axis
	worst float64
}

// ReflectionAxes tries the perpendicular bisector of every pair of distinct
// vertices as a mirror line. An axis is accepted when every mirrored vertex
// lands within ReflectionTolerance times the pair's length of some vertex.
//
// On densely sampled paths the bisectors of neighbouring pairs pass too, so
// an accepted axis is dropped when another one within ReflectionTolerance of
// it maps the vertices onto themselves more closely.
func ReflectionAxes(path geometry.Polyline, tol cfg.Symmetry) []Axis {
	verts := path.Vertices(tol.CloseTolerance)
	if len(verts) < 2 {
		return nil
	}
	index := newPointIndex(verts)
	extent := verts.Extent()

	var found []candidate
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			normal, err := verts[j].Minus(verts[i]).Normalize()
			if err != nil {
				continue
			}
			axis := Axis{Point: verts[i].Midpoint(verts[j]), Normal: normal}
			if axis.repeats(found, extent) {
				continue
			}
			r := tol.ReflectionTolerance * verts[i].Distance(verts[j])
			if worst, ok := index.fit(verts.Reflect(axis.Point, axis.Normal), r); ok {
				found = append(found, candidate{axis: axis, worst: worst})
			}
		}
	}

	var axes []Axis
	for _, c := range found {
		if !c.outfitted(found, tol.ReflectionTolerance, extent) {
			axes = append(axes, c.axis)
		}
	}
	return axes
}

// near reports whether a and b are the same line within tol: the normals
// are parallel and a's point lies on b.
func (a Axis) near(b Axis, tol, extent float64) bool {
	if math.Abs(a.Normal.CrossProductZ(b.Normal)) > tol {
		return false
	}
	return math.Abs(a.Point.Minus(b.Point).Dot(b.Normal)) <= tol*extent
}

func (a Axis) repeats(found []candidate, extent float64) bool {
	for _, c := range found {
		if a.near(c.axis, sameLine, extent) {
			return true
		}
	}
	return false
}

// outfitted reports whether a nearby candidate fits strictly better than c.
// Exact ties, such as neighbouring axes of a regular polygon, both survive.
func (c candidate) outfitted(found []candidate, tol, extent float64) bool {
	for _, o := range found {
		if o.worst+sameLine*extent < c.worst && c.axis.near(o.axis, tol, extent) {
			return true
		}
	}
	return false
}

// RotationalOrder returns the rotational symmetry order of path about the
// centroid of its vertices. An order k is tested by rotating through 2π/k
// and requiring each rotated vertex to be within RotationTolerance times the
// path extent of some vertex. Which passing order is reported depends on
// RotationPolicy; 1 means none passed.
//
// Orders are only tried while the turn moves the farthest vertex by more
// than twice the match radius. Smaller turns would carry every vertex of a
// densely sampled path onto a neighbour and always pass.
func RotationalOrder(path geometry.Polyline, tol cfg.Symmetry) int {
	verts := path.Vertices(tol.CloseTolerance)
	extent := verts.Extent()
	if len(verts) < 2 || extent == 0 {
		return 1
	}
	center := verts.Centroid()
	index := newPointIndex(verts)
	r := tol.RotationTolerance * extent

	var reach float64
	for _, v := range verts {
		reach = max(reach, v.Distance(center))
	}
	limit := 1
	for k := 2; k <= len(verts); k++ {
		// the farthest vertex moves 2·reach·sin(π/k)
		if 2*reach*math.Sin(math.Pi/float64(k)) <= 2*r {
			break
		}
		limit = k
	}

	passes := func(k int) bool {
		return index.covers(verts.Rotate(center, 2*math.Pi/float64(k)), r)
	}

	if tol.RotationPolicy == cfg.RotationSmallest {
		for k := 2; k <= limit; k++ {
			if passes(k) {
				return k
			}
		}
		return 1
	}
	for k := limit; k >= 2; k-- {
		if passes(k) {
			return k
		}
	}
	return 1
}
