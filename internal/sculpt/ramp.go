package sculpt

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// minRampSpanSq is the squared span below which a ramp is ignored.
const minRampSpanSq = 1e-3

// ApplyRamp pulls vertices between start and the end pick onto the straight
// line joining them, within RampWidth either side. It returns the number of
// vertices moved.
func (e *Engine) ApplyRamp(start math.Vec3, end PickResult, s *BrushSettings) int {
	if !end.Editable() {
		e.log.Debug("ramp ignored: no editable mesh under pointer")
		return 0
	}
	span := end.Point.Sub(start)
	spanSq := span.LengthSquared()
	if spanSq <= minRampSpanSq {
		e.log.Debug("ramp ignored: span too short", zap.Float32("span", math32.Sqrt(spanSq)))
		return 0
	}

	shape := RampShape{
		Start:   start,
		Span:    span,
		Width:   s.RampWidth,
		Falloff: s.RampFalloff,
	}
	origin := s.Origin()
	moved := 0

	for _, m := range e.scene.SelectedMeshes() {
		p, ok := newMeshPass(m)
		if !ok {
			continue
		}
		n := m.NumVertices()
		for i := 0; i < n; i++ {
			local := m.Position(i)
			wpos := p.toWorld.TransformPoint(local)
			down, _ := DownVector(wpos, origin, s.WorldShape)

			atten, ok := shape.Attenuation(wpos, down)
			if !ok {
				continue
			}
			t, ok := math.ClosestPointToLine(wpos, down, start, span)
			if !ok {
				continue
			}
			target := wpos.Add(down.Scale(t))
			if p.write(i, local, wpos.Lerp(target, s.RampStrength*atten)) {
				moved++
			}
		}
		m.RecomputeNormals()
	}

	e.log.Debug("ramp applied", zap.Int("verticesMoved", moved))
	return moved
}

// RampShape is the footprint of a ramp stroke.
type RampShape struct {
	Start   math.Vec3
	Span    math.Vec3
	Width   float32
	Falloff float32
}

// Attenuation returns the ramp weight for a vertex at pos with local gravity down.
// ok is false when the vertex lies outside the footprint.
// The weight eases in over Width*Falloff from either end and over the outer
// Falloff fraction of the width.
func (r RampShape) Attenuation(pos, down math.Vec3) (float32, bool) {
	offset := pos.Sub(r.Start)
	parallel := offset.Project(r.Span)
	if parallel.Dot(r.Span) <= 0 || parallel.LengthSquared() >= r.Span.LengthSquared() {
		return 0, false
	}

	binormal := down.Cross(r.Span).Normalize()
	if binormal == (math.Vec3{}) {
		return 0, false
	}
	across := math32.Abs(offset.Dot(binormal))
	if across*across >= r.Width*r.Width {
		return 0, false
	}

	along := parallel.Length()
	along = math32.Min(along, r.Span.Length()-along)
	attenParallel := float32(1)
	if falloffSpan := r.Width * r.Falloff; along < falloffSpan {
		attenParallel = along / falloffSpan
	}

	attenPerp := float32(1)
	if frac := across / r.Width; frac >= 1-r.Falloff {
		attenPerp = (1 - frac) / r.Falloff
	}
	return attenParallel * attenPerp, true
}
