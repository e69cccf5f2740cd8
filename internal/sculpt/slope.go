package sculpt

import (
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// fitSlopePlane fits a plane through every admitted vertex inside the brush.
// Residuals are measured against the up direction at the hit point.
func fitSlopePlane(passes []meshPass, center, hitDown math.Vec3, s *BrushSettings) (math.Plane, bool) {
	origin := s.Origin()
	var points []math.Vec3
	for _, p := range passes {
		n := p.mesh.NumVertices()
		for i := 0; i < n; i++ {
			wpos := p.toWorld.TransformPoint(p.mesh.Position(i))
			down, _ := DownVector(wpos, origin, s.WorldShape)
			if axialDistance(wpos, center, down) < s.Radius {
				points = append(points, wpos)
			}
		}
	}

	pos, normal, ok := math.FitPlane(points, hitDown.Neg())
	if !ok {
		return math.Plane{}, false
	}
	return math.Plane{Point: pos, Normal: normal}, true
}
