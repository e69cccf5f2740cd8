package math

import (
	"gonum.org/v1/gonum/mat"
)

// maxFitCondition rejects plane fits whose normal equations are close to singular,
// e.g. all points on a line.
const maxFitCondition = 1e12

// FitPlane fits a plane through points by least squares, measuring residuals along up.
// The plane is returned as a point (the centroid) and a unit normal on the same side as up.
// ok is false for fewer than three points or a degenerate configuration.
func FitPlane(points []Vec3, up Vec3) (pos, normal Vec3, ok bool) {
	if len(points) < 3 {
		return Vec3{}, Vec3{}, false
	}

	var centroid Vec3
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float32(len(points)))

	frame := NewFrame(centroid, AxisX, up)

	// Normal equations for h = a*u + b*v over centered samples.
	var suu, suv, svv, suh, svh float64
	for _, p := range points {
		l := frame.Local(p)
		u, v, h := float64(l.X), float64(l.Y), float64(l.Z)
		suu += u * u
		suv += u * v
		svv += v * v
		suh += u * h
		svh += v * h
	}

	a := mat.NewSymDense(2, []float64{suu, suv, suv, svv})
	if c := mat.Cond(a, 2); c > maxFitCondition {
		return Vec3{}, Vec3{}, false
	}
	rhs := mat.NewVecDense(2, []float64{suh, svh})

	var x mat.VecDense
	if err := x.SolveVec(a, rhs); err != nil {
		return Vec3{}, Vec3{}, false
	}

	slope := Vec3{-float32(x.AtVec(0)), -float32(x.AtVec(1)), 1}
	normal = frame.Tangent.Scale(slope.X).
		Add(frame.Binormal.Scale(slope.Y)).
		Add(frame.Normal.Scale(slope.Z)).
		Normalize()
	if !normal.IsFinite() || normal == (Vec3{}) {
		return Vec3{}, Vec3{}, false
	}
	return centroid, normal, true
}
