package symmetry

import (
	"curvetopia/pkg/geometry"

	"github.com/asim/quadtree"
)

// pointIndex answers "is there a vertex within r of p" for one path.
type pointIndex struct {
	quadTree *quadtree.QuadTree
}

func newPointIndex(points geometry.Polyline) *pointIndex {
	bounds := points.Bounds()
	midX := (bounds.Min.X + bounds.Max.X) / 2
	midY := (bounds.Min.Y + bounds.Max.Y) / 2
	halfWidth := bounds.Width() / 2
	halfHeight := bounds.Height() / 2

	// Transformed points may land outside the original bounds; a margin
	// proportional to the path keeps lookups near the edge inside the tree.
	margin := 1 + points.Extent()
	halfWidth += margin
	halfHeight += margin

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	index := &pointIndex{quadTree: quadtree.New(aabb, 0, nil)}

	// Coincident vertices are stored once.
	seen := make(map[geometry.Point]struct{}, len(points))
	for _, p := range points {
		if _, found := seen[p]; found {
			continue
		}
		seen[p] = struct{}{}
		index.quadTree.Insert(quadtree.NewPoint(p.X, p.Y, p))
	}
	return index
}

// distance returns the distance from p to the closest indexed point, if
// that is less than r.
func (t *pointIndex) distance(p geometry.Point, r float64) (float64, bool) {
	nearAABB := quadtree.NewAABB(
		quadtree.NewPoint(p.X, p.Y, nil),
		quadtree.NewPoint(r, r, nil),
	)
	best, found := r, false
	for _, point := range t.quadTree.Search(nearAABB) {
		if d := point.Data().(geometry.Point).Distance(p); d < best {
			best, found = d, true
		}
	}
	return best, found
}

// fit returns the largest distance from a point of points to the index. It
// fails as soon as one point has nothing within r.
func (t *pointIndex) fit(points geometry.Polyline, r float64) (float64, bool) {
	var worst float64
	for _, p := range points {
		d, found := t.distance(p, r)
		if !found {
			return 0, false
		}
		worst = max(worst, d)
	}
	return worst, true
}

// covers reports whether every point of points is within r of the index.
func (t *pointIndex) covers(points geometry.Polyline, r float64) bool {
	_, ok := t.fit(points, r)
	return ok
}
