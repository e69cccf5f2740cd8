package debug

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// RingSegments is the number of line segments in a brush ring.
const RingSegments = 48

// Ring returns line segments for a circle of the given radius around center,
// in the plane perpendicular to normal, as two xyz triples per segment.
func Ring(center, normal math.Vec3, radius float32, segments int) []float32 {
	if segments < 3 || radius <= 0 {
		return nil
	}
	rot := math.QuatAlignZ(normal)
	out := make([]float32, 0, segments*6)
	point := func(i int) math.Vec3 {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		local := math.Vec3{X: radius * math32.Cos(a), Y: radius * math32.Sin(a)}
		return center.Add(rot.Rotate(local))
	}
	prev := point(0)
	for i := 1; i <= segments; i++ {
		p := point(i)
		out = appendSegment(out, prev, p)
		prev = p
	}
	return out
}

// Quad returns the outline of the rectangle a ramp covers: the span from start
// to end, widened by width on either side across up.
func Quad(start, end, up math.Vec3, width float32) []float32 {
	span := end.Sub(start)
	side := up.Cross(span).Normalize()
	if side == (math.Vec3{}) {
		return nil
	}
	side = side.Scale(width)
	corners := [4]math.Vec3{
		start.Add(side),
		end.Add(side),
		end.Sub(side),
		start.Sub(side),
	}
	out := make([]float32, 0, 5*6)
	for i := range corners {
		out = appendSegment(out, corners[i], corners[(i+1)%4])
	}
	// Center line.
	return appendSegment(out, start, end)
}

// BoxEdges returns the 12 edges of a transformed bounding box.
func BoxEdges(b picking.Box) []float32 {
	out := make([]float32, 0, 12*6)
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				out = appendSegment(out, b[i], b[i|bit])
			}
		}
	}
	return out
}

func appendSegment(out []float32, a, b math.Vec3) []float32 {
	return append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
}
