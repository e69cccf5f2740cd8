package math

import "github.com/chewxy/math32"

// parallelEpsilon is the squared length below which a direction is treated as
// having no component along a plane normal.
const parallelEpsilon = 1e-12

// Plane is a plane through Point with normal Normal (not necessarily unit length).
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// IntersectLinePlane returns the scalar s such that linePoint + s*lineDir lies on the plane.
// ok is false when the line is parallel to the plane or the normal is degenerate.
func IntersectLinePlane(linePoint, lineDir Vec3, plane Plane) (s float32, ok bool) {
	denom := lineDir.Dot(plane.Normal)
	if denom*denom <= parallelEpsilon*lineDir.LengthSquared()*plane.Normal.LengthSquared() || denom == 0 {
		return 0, false
	}
	s = plane.Point.Sub(linePoint).Dot(plane.Normal) / denom
	if !isFinite(s) {
		return 0, false
	}
	return s, true
}

// ClosestPointToLine returns the scalar s such that point0 + s*dir0 is as close as
// possible to the line through point1 along dir1.
// ok is false when the lines are parallel.
func ClosestPointToLine(point0, dir0, point1, dir1 Vec3) (s float32, ok bool) {
	r := dir0.Cross(dir1)
	n := r.Cross(dir1)
	return IntersectLinePlane(point0, dir0, Plane{Point: point1, Normal: n})
}

// ProjectPointOntoPlane drops p perpendicularly onto the plane.
func ProjectPointOntoPlane(p Vec3, plane Plane) Vec3 {
	return p.Sub(p.Sub(plane.Point).Project(plane.Normal))
}

// DistanceToLine returns the perpendicular distance from p to the line through
// origin along dir. A zero dir degrades to point distance.
func DistanceToLine(p, origin, dir Vec3) float32 {
	return p.Sub(origin).Reject(dir).Length()
}

// ExpressInBasis returns coefficients (a, b, c) with v = a*v0 + b*v1 + c*v2.
// ok is false when the basis is degenerate.
func ExpressInBasis(v, v0, v1, v2 Vec3) (a, b, c float32, ok bool) {
	det := v0.Dot(v1.Cross(v2))
	if math32.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	// Cramer's rule
	a = v.Dot(v1.Cross(v2)) / det
	b = v0.Dot(v.Cross(v2)) / det
	c = v0.Dot(v1.Cross(v)) / det
	return a, b, c, true
}

// Frame is an orthonormal coordinate frame.
type Frame struct {
	Tangent  Vec3
	Binormal Vec3
	Normal   Vec3
	Origin   Vec3
}

// NewFrame builds a right-handed frame whose Normal is normal and whose Tangent is
// as close as possible to tangent. When tangent is parallel to normal a stable
// fallback axis is used.
func NewFrame(origin, tangent, normal Vec3) Frame {
	n := normal.Normalize()
	if n == (Vec3{}) {
		n = AxisZ
	}
	t := tangent.Reject(n)
	if t.LengthSquared() < 1e-10 {
		t = AxisX.Reject(n)
		if t.LengthSquared() < 1e-10 {
			t = AxisY.Reject(n)
		}
	}
	t = t.Normalize()
	b := n.Cross(t)
	return Frame{Tangent: t, Binormal: b, Normal: n, Origin: origin}
}

// Local returns p in frame coordinates (tangent, binormal, normal).
func (f Frame) Local(p Vec3) Vec3 {
	d := p.Sub(f.Origin)
	return Vec3{d.Dot(f.Tangent), d.Dot(f.Binormal), d.Dot(f.Normal)}
}

// World maps frame coordinates back to world space.
func (f Frame) World(p Vec3) Vec3 {
	return f.Origin.
		Add(f.Tangent.Scale(p.X)).
		Add(f.Binormal.Scale(p.Y)).
		Add(f.Normal.Scale(p.Z))
}

// Matrix returns the frame as a local-to-world matrix.
func (f Frame) Matrix() Mat4 {
	return FromBasis(f.Tangent, f.Binormal, f.Normal, f.Origin)
}
