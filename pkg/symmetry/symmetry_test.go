package symmetry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"curvetopia/pkg/cfg"
	"curvetopia/pkg/geometry"
)

var tol = cfg.Default().Symmetry

var square = geometry.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}

func ngon(n int, r, phase float64) geometry.Polyline {
	var points geometry.Polyline
	for i := 0; i < n; i++ {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		points = append(points, geometry.Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return append(points, points[0])
}

func star(tips int, outer, inner float64) geometry.Polyline {
	var points geometry.Polyline
	for i := 0; i < 2*tips; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + math.Pi*float64(i)/float64(tips)
		points = append(points, geometry.Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return append(points, points[0])
}

func TestSquare(t *testing.T) {
	d := 1 / math.Sqrt2
	want := Record{
		Axes: []Axis{
			{Point: geometry.Point{X: 0.5, Y: 0}, Normal: geometry.Vector2{X: 1, Y: 0}},
			{Point: geometry.Point{X: 0.5, Y: 0.5}, Normal: geometry.Vector2{X: d, Y: d}},
			{Point: geometry.Point{X: 0, Y: 0.5}, Normal: geometry.Vector2{X: 0, Y: 1}},
			{Point: geometry.Point{X: 0.5, Y: 0.5}, Normal: geometry.Vector2{X: -d, Y: d}},
		},
		Order: 4,
	}
	got := Analyze(square, tol)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Analyze(square): %s", diff)
	}
}

func TestSymmetry(t *testing.T) {
	tests := []struct {
		name  string
		path  geometry.Polyline
		axes  int
		order int
	}{
		{"triangle", geometry.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 0.866}, {X: 0, Y: 0}}, 3, 3},
		{"rectangle", geometry.Polyline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}, 2, 2},
		{"scalene triangle", geometry.Polyline{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 2}, {X: 0, Y: 0}}, 0, 1},
		{"pentagon", ngon(5, 3, 0.3), 5, 5},
		{"hexagon", ngon(6, 2, 0), 6, 6},
		{"star", star(5, 1, 0.4), 5, 5},
		{"corner", geometry.Polyline{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 3}}, 0, 1},
		{"evenly spaced line", geometry.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, 1, 2},
		{"single repeated point", geometry.Polyline{{X: 1, Y: 1}, {X: 1, Y: 1}}, 0, 1},
	}
	for _, test := range tests {
		got := Analyze(test.path, tol)
		if len(got.Axes) != test.axes {
			t.Errorf("%s: found %d axes, want %d: %v", test.name, len(got.Axes), test.axes, got.Axes)
		}
		if got.Order != test.order {
			t.Errorf("%s: rotational order %d, want %d", test.name, got.Order, test.order)
		}
	}
}

func TestRotationPolicy(t *testing.T) {
	smallest := tol
	smallest.RotationPolicy = cfg.RotationSmallest

	tests := []struct {
		name              string
		path              geometry.Polyline
		largest, smallest int
	}{
		{"square", square, 4, 2},
		{"hexagon", ngon(6, 2, 0), 6, 2},
		{"triangle", ngon(3, 1, 0), 3, 3},
	}
	for _, test := range tests {
		if got := RotationalOrder(test.path, tol); got != test.largest {
			t.Errorf("%s: largest order %d, want %d", test.name, got, test.largest)
		}
		if got := RotationalOrder(test.path, smallest); got != test.smallest {
			t.Errorf("%s: smallest order %d, want %d", test.name, got, test.smallest)
		}
	}
}

func TestReflectionRoundTrip(t *testing.T) {
	pentagon := ngon(5, 3, 0.3)
	verts := pentagon.Vertices(tol.CloseTolerance)
	axes := ReflectionAxes(pentagon, tol)
	if len(axes) == 0 {
		t.Fatal("no axes found for a regular pentagon")
	}
	for _, axis := range axes {
		for _, p := range verts.Reflect(axis.Point, axis.Normal) {
			nearest := verts[verts.NearestIndex(p)]
			if d := nearest.Distance(p); d > 1e-9 {
				t.Errorf("axis %v: mirrored vertex %v is %v from the nearest vertex", axis, p, d)
			}
		}
	}
}

func TestAxesHaveUnitNormals(t *testing.T) {
	for _, axis := range ReflectionAxes(star(6, 2, 1), tol) {
		if m := axis.Normal.Magnitude(); math.Abs(m-1) > 1e-12 {
			t.Errorf("axis %v has normal of length %v", axis, m)
		}
	}
}

func TestAnalyzeAll(t *testing.T) {
	records := AnalyzeAll([]geometry.Polyline{square, ngon(3, 1, 0)}, tol)
	got := []int{records[0].Order, records[1].Order}
	if diff := cmp.Diff([]int{4, 3}, got); diff != "" {
		t.Errorf("AnalyzeAll orders: %s", diff)
	}
}

func TestPointIndex(t *testing.T) {
	index := newPointIndex(geometry.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}})
	d, found := index.distance(geometry.Point{X: 9.9, Y: 0.1}, 0.5)
	if !found || math.Abs(d-math.Hypot(0.1, 0.1)) > 1e-12 {
		t.Errorf("point next to (10, 0): distance %v, found %v", d, found)
	}
	if _, found := index.distance(geometry.Point{X: 5, Y: 4}, 1); found {
		t.Errorf("found a vertex near the middle of the triangle")
	}
	// Search boxes are square; the corner of the box is further than r.
	if _, found := index.distance(geometry.Point{X: 0.9, Y: 0.9}, 1); found {
		t.Errorf("point at distance %v counted as within 1", math.Hypot(0.9, 0.9))
	}

	worst, ok := index.fit(geometry.Polyline{{X: 0, Y: 0.5}, {X: 5, Y: 8}}, 1)
	if !ok || worst != 0.5 {
		t.Errorf("fit = %v, %v, want 0.5, true", worst, ok)
	}
}

// sampled walks the corners of a polyline, perSide points per edge.
func sampled(corners geometry.Polyline, perSide int) geometry.Polyline {
	var points geometry.Polyline
	for i := 1; i < len(corners); i++ {
		a, b := corners[i-1], corners[i]
		for s := 0; s < perSide; s++ {
			u := float64(s) / float64(perSide)
			points = append(points, geometry.Point{X: a.X + (b.X-a.X)*u, Y: a.Y + (b.Y-a.Y)*u})
		}
	}
	return append(points, corners[len(corners)-1])
}

func TestDenselySampled(t *testing.T) {
	smallest := tol
	smallest.RotationPolicy = cfg.RotationSmallest

	var parabola geometry.Polyline
	for i := 0; i <= 200; i++ {
		x := float64(i) / 20
		parabola = append(parabola, geometry.Point{X: x, Y: (x - 5) * (x - 5) / 5})
	}
	scalene := geometry.Polyline{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 2}, {X: 0, Y: 0}}

	tests := []struct {
		name              string
		path              geometry.Polyline
		axes              int
		largest, smallest int
	}{
		{"square", sampled(square, 25), 4, 4, 2},
		{"scalene triangle", sampled(scalene, 40), 0, 1, 1},
		{"parabola", parabola, 1, 1, 1},
	}
	for _, test := range tests {
		if got := len(ReflectionAxes(test.path, tol)); got != test.axes {
			t.Errorf("%s: found %d axes, want %d", test.name, got, test.axes)
		}
		if got := RotationalOrder(test.path, tol); got != test.largest {
			t.Errorf("%s: largest order %d, want %d", test.name, got, test.largest)
		}
		if got := RotationalOrder(test.path, smallest); got != test.smallest {
			t.Errorf("%s: smallest order %d, want %d", test.name, got, test.smallest)
		}
	}
}

func TestCircleKeepsEveryAxis(t *testing.T) {
	if got := len(ReflectionAxes(ngon(64, 1, 0), tol)); got != 64 {
		t.Errorf("64-gon has %d axes, want 64", got)
	}
}
