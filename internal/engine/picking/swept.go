package picking

import (
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

var axisBits = [3]int{1, 2, 4}

// IntersectsThickLine reports whether the box comes within radius of the infinite
// line through point along dir. It never rejects a box that has a point closer
// than radius to the line: either the line crosses a face, or the closest point
// of the box lies on one of its edges.
func (b Box) IntersectsThickLine(point, dir math.Vec3, radius float32) bool {
	if dir.LengthSquared() == 0 {
		return false
	}

	for i := 0; i < 8; i++ {
		for _, bit := range axisBits {
			if i&bit != 0 {
				continue
			}
			if edgeNearLine(b[i], b[i|bit], point, dir, radius) {
				return true
			}
		}
	}

	for a, bit := range axisBits {
		u := axisBits[(a+1)%3]
		v := axisBits[(a+2)%3]
		for _, side := range [2]int{0, bit} {
			if faceCrossesLine(b[side], b[side|u], b[side|v], point, dir) {
				return true
			}
		}
	}
	return false
}

// edgeNearLine clamps the closest point of the segment to the line and checks
// its distance. Segments parallel to the line are measured from their start.
func edgeNearLine(a, b, point, dir math.Vec3, radius float32) bool {
	edge := b.Sub(a)
	s, ok := math.ClosestPointToLine(a, edge, point, dir)
	if !ok {
		s = 0
	}
	s = math.Clamp(s, 0, 1)
	p := a.Add(edge.Scale(s))
	return math.DistanceToLine(p, point, dir) < radius
}

// faceCrossesLine tests the parallelogram spanned from origin to u and v.
func faceCrossesLine(origin, u, v, point, dir math.Vec3) bool {
	e1 := u.Sub(origin)
	e2 := v.Sub(origin)
	n := e1.Cross(e2)
	s, ok := math.IntersectLinePlane(point, dir, math.Plane{Point: origin, Normal: n})
	if !ok {
		return false
	}
	hit := point.Add(dir.Scale(s)).Sub(origin)
	c1, c2, _, ok := math.ExpressInBasis(hit, e1, e2, n)
	if !ok {
		return false
	}
	return c1 >= 0 && c1 <= 1 && c2 >= 0 && c2 <= 1
}
