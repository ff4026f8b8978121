// Package completion repairs curves that are broken where another path
// crosses in front of them.
package completion

import (
	"math"
	"sync"

	"curvetopia/pkg/cfg"
	"curvetopia/pkg/geometry"

	"golang.org/x/xerrors"
)

// ErrIntersectionCount is returned when a path and its candidate occluder do
// not cross exactly twice.
var ErrIntersectionCount = xerrors.New("paths must cross exactly twice")

// Result is the outcome for one input path. Occluder is the index of the
// path that was used to complete it, or -1 when the path passed through.
type Result struct {
	Path      geometry.Polyline
	Completed bool
	Occluder  int
}

// FindIntersections returns the points where an edge of a crosses an edge of
// b, in the order they are found walking a. A crossing at a shared vertex is
// reported once.
func FindIntersections(a, b geometry.Polyline) []geometry.Point {
	var points []geometry.Point
	for i := 1; i < len(a); i++ {
		edgeA := geometry.LineSegment{A: a[i-1], B: a[i]}
		for j := 1; j < len(b); j++ {
			p, ok := edgeA.Intersection(geometry.LineSegment{A: b[j-1], B: b[j]})
			if ok && !containsNear(points, p) {
				points = append(points, p)
			}
		}
	}
	return points
}

func containsNear(points []geometry.Point, p geometry.Point) bool {
	eps := 1e-9 * math.Max(1, p.Magnitude())
	for _, q := range points {
		if q.Near(p, eps) {
			return true
		}
	}
	return false
}

// SplitPath cuts path at the two split points. Each split point is matched to
// the nearest vertex of path; the first segment runs from the start of path
// through the earlier vertex and ends at its split point, the second starts
// at the other split point and runs through the later vertex to the end.
func SplitPath(path geometry.Polyline, splits []geometry.Point) (geometry.Polyline, geometry.Polyline, error) {
	if len(splits) != 2 {
		return nil, nil, xerrors.Errorf("%d split points: %w", len(splits), ErrIntersectionCount)
	}
	if len(path) == 0 {
		return nil, nil, xerrors.New("cannot split an empty path")
	}

	p1, p2 := splits[0], splits[1]
	i1, i2 := path.NearestIndex(p1), path.NearestIndex(p2)
	if i1 > i2 {
		i1, i2 = i2, i1
		p1, p2 = p2, p1
	}

	segment1 := append(geometry.Polyline{}, path[:i1+1]...)
	if segment1[len(segment1)-1] != p1 {
		segment1 = append(segment1, p1)
	}

	var segment2 geometry.Polyline
	if path[i2] != p2 {
		segment2 = append(segment2, p2)
	}
	segment2 = append(segment2, path[i2:]...)
	return segment1, segment2, nil
}

// CompleteCurve rebuilds incomplete across the gap left by occluder. The two
// pieces either side of the crossings are each fitted with a spline and
// sampled; the result has exactly opts.SampleCount points.
func CompleteCurve(incomplete, occluder geometry.Polyline, opts cfg.Completion) (geometry.Polyline, error) {
	crossings := FindIntersections(incomplete, occluder)
	if len(crossings) != 2 {
		return nil, xerrors.Errorf("found %d intersections: %w", len(crossings), ErrIntersectionCount)
	}

	segment1, segment2, err := SplitPath(incomplete, crossings)
	if err != nil {
		return nil, err
	}
	spline1, err := geometry.FitSpline(segment1, opts.SplineDegree)
	if err != nil {
		return nil, xerrors.Errorf("first segment: %w", err)
	}
	spline2, err := geometry.FitSpline(segment2, opts.SplineDegree)
	if err != nil {
		return nil, xerrors.Errorf("second segment: %w", err)
	}

	n1 := opts.SampleCount / 2
	completed := spline1.Sample(n1)
	return append(completed, spline2.Sample(opts.SampleCount-n1)...), nil
}

// Complete tries to complete every path against each other path in turn.
// The first occluder that works is used; a path that no occluder can
// complete is returned unchanged. Paths are handled on up to workers
// goroutines; results are in input order.
func Complete(paths []geometry.Polyline, opts cfg.Completion, workers int) []Result {
	results := make([]Result, len(paths))

	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = completeOne(paths, i, opts)
			}
		}()
	}
	for i := range paths {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

func completeOne(paths []geometry.Polyline, i int, opts cfg.Completion) Result {
	for j, occluder := range paths {
		if j == i {
			continue
		}
		completed, err := CompleteCurve(paths[i], occluder, opts)
		if err != nil {
			continue
		}
		return Result{Path: completed, Completed: true, Occluder: j}
	}
	return Result{Path: paths[i], Occluder: -1}
}
