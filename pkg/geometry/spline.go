package geometry

import (
	"sort"

	"golang.org/x/xerrors"
)

// ErrTooFewPoints is returned when a spline is requested through fewer
// distinct points than its degree requires.
var ErrTooFewPoints = xerrors.New("too few points for spline degree")

// ErrUnsupportedDegree is returned for spline degrees other than 1 and 3.
var ErrUnsupportedDegree = xerrors.New("unsupported spline degree")

// Spline is a parametric curve interpolating a sequence of points. The
// parameter runs from 0 at the first point to 1 at the last and is
// proportional to the cumulative chord length.
type Spline struct {
	degree int
	knots  []float64
	x, y   []float64

	// second derivatives at the knots, cubic only
	mx, my []float64
}

// FitSpline returns the interpolating spline of the given degree through
// points. Degree 3 yields a C2 cubic spline with not-a-knot end conditions,
// the same curve as an exact (zero smoothing) cubic B-spline fit. Degree 1
// yields the polyline itself. Consecutive duplicate points are ignored.
func FitSpline(points Polyline, degree int) (*Spline, error) {
	if degree != 1 && degree != 3 {
		return nil, xerrors.Errorf("degree %d: %w", degree, ErrUnsupportedDegree)
	}

	var pts Polyline
	for i, p := range points {
		if i > 0 && p == pts[len(pts)-1] {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < degree+1 {
		return nil, xerrors.Errorf("%d distinct points, need %d: %w", len(pts), degree+1, ErrTooFewPoints)
	}

	s := &Spline{
		degree: degree,
		knots:  make([]float64, len(pts)),
		x:      make([]float64, len(pts)),
		y:      make([]float64, len(pts)),
	}
	for i, p := range pts {
		s.x[i], s.y[i] = p.X, p.Y
		if i > 0 {
			s.knots[i] = s.knots[i-1] + p.Distance(pts[i-1])
		}
	}
	total := s.knots[len(s.knots)-1]
	for i := range s.knots {
		s.knots[i] /= total
	}
	s.knots[len(s.knots)-1] = 1

	if degree == 3 {
		s.mx = notAKnotMoments(s.knots, s.x)
		s.my = notAKnotMoments(s.knots, s.y)
	}
	return s, nil
}

// notAKnotMoments solves for the second derivatives of the cubic spline
// through (u[i], v[i]) whose third derivative is continuous at u[1] and
// u[n-1]. Requires len(u) >= 4.
func notAKnotMoments(u, v []float64) []float64 {
	n := len(u) - 1
	h := make([]float64, n)
	for i := range h {
		h[i] = u[i+1] - u[i]
	}

	// Unknowns are M[1]..M[n-1]; M[0] and M[n] are eliminated using the
	// not-a-knot conditions, leaving a tridiagonal system.
	size := n - 1
	a := make([]float64, size)
	b := make([]float64, size)
	c := make([]float64, size)
	d := make([]float64, size)
	for r := 0; r < size; r++ {
		i := r + 1
		a[r] = h[i-1]
		b[r] = 2 * (h[i-1] + h[i])
		c[r] = h[i]
		d[r] = 6 * ((v[i+1]-v[i])/h[i] - (v[i]-v[i-1])/h[i-1])
	}
	b[0] += h[0] + h[0]*h[0]/h[1]
	c[0] -= h[0] * h[0] / h[1]
	last := size - 1
	a[last] -= h[n-1] * h[n-1] / h[n-2]
	b[last] += h[n-1] + h[n-1]*h[n-1]/h[n-2]

	// Thomas algorithm
	for r := 1; r < size; r++ {
		w := a[r] / b[r-1]
		b[r] -= w * c[r-1]
		d[r] -= w * d[r-1]
	}
	m := make([]float64, n+1)
	m[size] = d[last] / b[last]
	for r := last - 1; r >= 0; r-- {
		m[r+1] = (d[r] - c[r]*m[r+2]) / b[r]
	}

	m[0] = m[1] + h[0]*(m[1]-m[2])/h[1]
	m[n] = m[n-1] + h[n-1]*(m[n-1]-m[n-2])/h[n-2]
	return m
}

// Degree returns the spline degree.
func (s *Spline) Degree() int {
	return s.degree
}

// At evaluates the spline at parameter t. Values outside [0, 1] are clamped.
func (s *Spline) At(t float64) Point {
	if t <= 0 {
		return Point{X: s.x[0], Y: s.y[0]}
	}
	last := len(s.knots) - 1
	if t >= 1 {
		return Point{X: s.x[last], Y: s.y[last]}
	}

	// interval i such that knots[i] <= t < knots[i+1]
	i := sort.SearchFloat64s(s.knots, t)
	if s.knots[i] > t {
		i--
	}

	u0, u1 := s.knots[i], s.knots[i+1]
	h := u1 - u0
	if s.degree == 1 {
		f := (t - u0) / h
		return Point{
			X: s.x[i] + f*(s.x[i+1]-s.x[i]),
			Y: s.y[i] + f*(s.y[i+1]-s.y[i]),
		}
	}

	eval := func(v, m []float64) float64 {
		l, r := u1-t, t-u0
		return m[i]*l*l*l/(6*h) + m[i+1]*r*r*r/(6*h) +
			(v[i]/h-m[i]*h/6)*l + (v[i+1]/h-m[i+1]*h/6)*r
	}
	return Point{X: eval(s.x, s.mx), Y: eval(s.y, s.my)}
}

// Sample evaluates the spline at n evenly spaced parameters covering [0, 1].
func (s *Spline) Sample(n int) Polyline {
	if n <= 0 {
		return nil
	}
	out := make(Polyline, n)
	if n == 1 {
		out[0] = s.At(0)
		return out
	}
	for i := range out {
		out[i] = s.At(float64(i) / float64(n-1))
	}
	return out
}
