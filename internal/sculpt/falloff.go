package sculpt

import (
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// originEpsilon is the distance from the terrain origin below which a sphere
// world has no defined down direction.
const originEpsilon = 1e-6

var flatDown = math.Vec3{Z: -1}

// DownVector returns the unit gravity direction at pos and the signed height of
// pos above origin. Heights are positive away from the origin.
// In a sphere world a point at the origin falls back to -Z with height 0.
func DownVector(pos, origin math.Vec3, shape WorldShape) (down math.Vec3, height float32) {
	offset := pos.Sub(origin)
	if shape == ShapeFlat {
		return flatDown, offset.Z
	}
	l := offset.Length()
	if l < originEpsilon {
		return flatDown, 0
	}
	return offset.Scale(-1 / l), l
}

// BaseAndUp returns the point at height zero below pos and the unit up axis,
// so that pos == base + up*height.
func BaseAndUp(pos, origin math.Vec3, shape WorldShape) (base, up math.Vec3) {
	down, h := DownVector(pos, origin, shape)
	up = down.Neg()
	if shape == ShapeSphere {
		return origin, up
	}
	return pos.Sub(up.Scale(h)), up
}

// Rebuild places a vertex at height h above base along up.
func Rebuild(base, up math.Vec3, h float32) math.Vec3 {
	return base.Add(up.Scale(h))
}

// RadialAttenuation maps a distance from the brush axis to a weight in [0,1].
// Weights are 1 inside the inner fraction of the radius and ease to 0 at the rim.
func RadialAttenuation(distance, radius, inner float32) float32 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	frac := distance / radius
	if frac <= inner || inner >= 1 {
		return 1
	}
	x := (1 - frac) / (1 - inner)
	return strokeFalloff(x)
}

// strokeFalloff has zero slope at x=1 so the brush rim is not faceted.
func strokeFalloff(x float32) float32 {
	return 2*x - x*x
}

// Attenuation combines the radial weight with strength and pressure.
func Attenuation(s *BrushSettings, distance, pressure float32) float32 {
	a := RadialAttenuation(distance, s.Radius, s.InnerRadius) * s.Strength
	if s.UsePressure {
		a *= math.Clamp(pressure, 0, 1)
	}
	return a
}

// axialDistance measures how far pos lies from the line through center along down.
func axialDistance(pos, center, down math.Vec3) float32 {
	return math.DistanceToLine(pos, center, down)
}
