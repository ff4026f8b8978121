package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplineInterpolatesPoints(t *testing.T) {
	points := Polyline{{0, 0}, {1, 2}, {3, 3}, {4, 1}, {6, 2}, {7, 0}}
	s, err := FitSpline(points, 3)
	if err != nil {
		t.Fatalf("FitSpline: %s", err)
	}
	for i, u := range s.knots {
		if diff := cmp.Diff(points[i], s.At(u), approx); diff != "" {
			t.Errorf("knot %d: spline misses its data point: %s", i, diff)
		}
	}
}

func TestSplineOfCollinearPointsIsStraight(t *testing.T) {
	points := Polyline{{0, 0}, {1, 1}, {3, 3}, {4, 4}, {6, 6}}
	s, err := FitSpline(points, 3)
	if err != nil {
		t.Fatalf("FitSpline: %s", err)
	}
	if diff := cmp.Diff(Point{3, 3}, s.At(0.5), approx); diff != "" {
		t.Errorf("At(0.5): %s", diff)
	}
	for i, p := range s.Sample(25) {
		if math.Abs(p.X-p.Y) > 1e-9 {
			t.Errorf("sample %d = %v is off the line y=x", i, p)
		}
	}
}

func TestSplineFollowsArc(t *testing.T) {
	var points Polyline
	for i := 0; i <= 5; i++ {
		a := float64(i) * math.Pi / 10
		points = append(points, Point{math.Cos(a), math.Sin(a)})
	}
	s, err := FitSpline(points, 3)
	if err != nil {
		t.Fatalf("FitSpline: %s", err)
	}
	for i, p := range s.Sample(50) {
		if r := p.Magnitude(); math.Abs(r-1) > 2e-3 {
			t.Errorf("sample %d = %v has radius %v, want about 1", i, p, r)
		}
	}
}

func TestSplineSample(t *testing.T) {
	points := Polyline{{0, 0}, {1, 2}, {2, 2}, {3, 0}}
	s, err := FitSpline(points, 3)
	if err != nil {
		t.Fatalf("FitSpline: %s", err)
	}
	samples := s.Sample(10)
	if len(samples) != 10 {
		t.Fatalf("Sample(10) returned %d points", len(samples))
	}
	if diff := cmp.Diff(points[0], samples[0], approx); diff != "" {
		t.Errorf("first sample: %s", diff)
	}
	if diff := cmp.Diff(points[3], samples[9], approx); diff != "" {
		t.Errorf("last sample: %s", diff)
	}
	if got := s.Sample(0); got != nil {
		t.Errorf("Sample(0) = %v, want nil", got)
	}
}

func TestLinearSpline(t *testing.T) {
	s, err := FitSpline(Polyline{{0, 0}, {2, 0}, {4, 0}}, 1)
	if err != nil {
		t.Fatalf("FitSpline: %s", err)
	}
	if diff := cmp.Diff(Point{1, 0}, s.At(0.25), approx); diff != "" {
		t.Errorf("At(0.25): %s", diff)
	}
	if s.Degree() != 1 {
		t.Errorf("Degree() = %d, want 1", s.Degree())
	}
}

func TestFitSplineErrors(t *testing.T) {
	tests := []struct {
		name   string
		points Polyline
		degree int
		want   error
	}{
		{"three points", Polyline{{0, 0}, {1, 1}, {2, 0}}, 3, ErrTooFewPoints},
		{"repeated points do not count", Polyline{{0, 0}, {0, 0}, {1, 0}, {2, 1}}, 3, ErrTooFewPoints},
		{"single point linear", Polyline{{0, 0}}, 1, ErrTooFewPoints},
		{"quadratic", Polyline{{0, 0}, {1, 1}, {2, 0}, {3, 1}}, 2, ErrUnsupportedDegree},
	}
	for _, test := range tests {
		_, err := FitSpline(test.points, test.degree)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.want)
		}
	}
}
