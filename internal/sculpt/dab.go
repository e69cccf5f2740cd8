package sculpt

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// DabStats summarizes the work done by one dab.
type DabStats struct {
	MeshesTested   int
	MeshesAdmitted int
	VerticesMoved  int
}

// Engine applies brush dabs and ramps to the selected meshes of a scene.
type Engine struct {
	scene Scene
	log   *zap.Logger
}

// NewEngine creates an engine over scene. A nil logger discards output.
func NewEngine(scene Scene, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{scene: scene, log: log}
}

// meshPass caches the transforms of one mesh for the duration of a dab.
type meshPass struct {
	mesh    Mesh
	toWorld math.Mat4
	toLocal math.Mat4
}

func newMeshPass(m Mesh) (meshPass, bool) {
	xf := m.Transform()
	inv, ok := xf.Inverse()
	if !ok {
		return meshPass{}, false
	}
	return meshPass{mesh: m, toWorld: xf, toLocal: inv}, true
}

// write stores a world position back into the mesh. It reports whether the
// vertex changed; non-finite results are dropped.
func (p meshPass) write(i int, old, world math.Vec3) bool {
	if !world.IsFinite() {
		return false
	}
	local := p.toLocal.TransformPoint(world)
	if !local.IsFinite() || local == old {
		return false
	}
	p.mesh.SetPosition(i, local)
	return true
}

// admit returns the selected meshes whose world box comes within radius of the
// line through center along down.
func (e *Engine) admit(center, down math.Vec3, radius float32) (passes []meshPass, tested int) {
	for _, m := range e.scene.SelectedMeshes() {
		tested++
		p, ok := newMeshPass(m)
		if !ok {
			e.log.Debug("skipping mesh with singular transform", zap.Uint64("mesh", uint64(m.ID())))
			continue
		}
		box := picking.TransformAABB(m.LocalBounds(), p.toWorld)
		if !box.IntersectsThickLine(center, down, radius) {
			continue
		}
		passes = append(passes, p)
	}
	return passes, tested
}

// ApplyDab applies one brush dab at the pick point to every selected mesh the
// brush can reach. session may be nil for a standalone dab, in which case Level
// uses the height of the pick point.
func (e *Engine) ApplyDab(pick PickResult, s *BrushSettings, session *StrokeSession, mods Modifiers, pressure float32) DabStats {
	var stats DabStats
	if !pick.Editable() {
		e.log.Debug("dab ignored: no editable mesh under pointer")
		return stats
	}
	if s.Radius <= 0 {
		e.log.Debug("dab ignored: zero radius")
		return stats
	}

	mode := s.Mode
	if mods.Shift() {
		mode = ModeSmooth
	}
	if mode == ModeRamp {
		// Ramps are applied once the pointer is released.
		return stats
	}

	origin := s.Origin()
	hitDown, hitHeight := DownVector(pick.Point, origin, s.WorldShape)

	passes, tested := e.admit(pick.Point, hitDown, s.Radius)
	stats.MeshesTested = tested
	stats.MeshesAdmitted = len(passes)
	if len(passes) == 0 {
		return stats
	}

	var (
		slopePlane math.Plane
		slopeOK    bool
		smooth     *SmoothingInfo
	)
	switch mode {
	case ModeSlope:
		slopePlane, slopeOK = fitSlopePlane(passes, pick.Point, hitDown, s)
		if !slopeOK {
			e.log.Debug("slope fit failed, dab leaves vertices unchanged")
		}
	case ModeSmooth:
		smooth = buildSmoothingInfo(passes, pick.Point, s)
	}

	startHeight := hitHeight
	if session != nil {
		startHeight = session.StartHeight
	}

	adjust := s.AddAmount
	if mods.Ctrl() {
		adjust = -adjust
	}

	for _, p := range passes {
		n := p.mesh.NumVertices()
		for i := 0; i < n; i++ {
			local := p.mesh.Position(i)
			wpos := p.toWorld.TransformPoint(local)
			down, h := DownVector(wpos, origin, s.WorldShape)

			d := axialDistance(wpos, pick.Point, down)
			if d >= s.Radius {
				continue
			}
			a := Attenuation(s, d, pressure)

			var target math.Vec3
			switch mode {
			case ModeSlope:
				if !slopeOK {
					continue
				}
				t, ok := math.IntersectLinePlane(wpos, down, slopePlane)
				if !ok {
					continue
				}
				target = wpos.Lerp(wpos.Add(down.Scale(t)), a)
			default:
				var newH float32
				switch mode {
				case ModeDraw:
					newH = math.Lerp(h, s.DrawHeight, a)
				case ModeAdd:
					newH = h + adjust*a
				case ModeSubtract:
					newH = h - adjust*a
				case ModeLevel:
					newH = math.Lerp(h, startHeight, a)
				case ModeSmooth:
					c, ok := smooth.CentroidHeight(wpos, s.SmoothSnapDistance)
					if !ok {
						continue
					}
					newH = math.Lerp(h, c, a)
				}
				base, up := BaseAndUp(wpos, origin, s.WorldShape)
				target = Rebuild(base, up, newH)
			}

			if p.write(i, local, target) {
				stats.VerticesMoved++
			}
		}
		p.mesh.RecomputeNormals()
	}

	e.log.Debug("dab applied",
		zap.Stringer("mode", mode),
		zap.Int("meshesTested", stats.MeshesTested),
		zap.Int("meshesAdmitted", stats.MeshesAdmitted),
		zap.Int("verticesMoved", stats.VerticesMoved))
	return stats
}
