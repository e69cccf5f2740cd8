package sculpt_test

import (
	"testing"

	"github.com/Faultbox/terrain-sculpt/internal/scene"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// A 10x10 grid dabbed at its centre with a Draw brush.
func TestDrawScenario(t *testing.T) {
	s, obj := newGridScene(t, 10, 10)
	settings := sculpt.DefaultBrushSettings()
	settings.Radius = 2
	settings.DrawHeight = 5

	eng := sculpt.NewEngine(s, nil)
	stats := eng.ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, 0, 1)
	if stats.MeshesAdmitted != 1 || stats.VerticesMoved == 0 {
		t.Fatalf("stats = %+v", stats)
	}

	for i, p := range worldPositions(obj) {
		d := p.XY().Length()
		want := float32(0)
		if d < 2 {
			want = 5 * sculpt.RadialAttenuation(d, 2, 0)
		}
		if abs(p.Z-want) > 1e-4 {
			t.Errorf("vertex %d at %v: height %v, want %v", i, p.XY(), p.Z, want)
		}
	}
}

func TestDrawFixedPoint(t *testing.T) {
	s, obj := newGridScene(t, 10, 10)
	settings := sculpt.DefaultBrushSettings()
	settings.Radius = 2.5
	settings.InnerRadius = 1
	settings.DrawHeight = 3

	eng := sculpt.NewEngine(s, nil)
	pick := pickOn(obj, math.Vec3{})
	eng.ApplyDab(pick, &settings, nil, 0, 1)
	after := localPositions(obj)

	for _, p := range after {
		if p.XY().Length() < 2.5 && abs(p.Z-3) > 1e-5 {
			t.Fatalf("vertex %v did not reach the draw height in one dab", p)
		}
	}

	stats := eng.ApplyDab(pick, &settings, nil, 0, 1)
	if stats.VerticesMoved != 0 {
		t.Errorf("second dab moved %d vertices", stats.VerticesMoved)
	}
	if !samePositions(after, localPositions(obj), 0) {
		t.Error("second dab changed the mesh")
	}
}

func TestAddSubtractModifiers(t *testing.T) {
	tests := []struct {
		name string
		mode sculpt.Mode
		mods sculpt.Modifiers
		want float32
	}{
		{"add", sculpt.ModeAdd, 0, 2},
		{"add inverted", sculpt.ModeAdd, sculpt.ModCtrl, -2},
		{"subtract", sculpt.ModeSubtract, 0, -2},
		{"subtract inverted", sculpt.ModeSubtract, sculpt.ModCtrl, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, obj := newGridScene(t, 4, 4)
			settings := sculpt.DefaultBrushSettings()
			settings.Mode = tt.mode
			settings.InnerRadius = 1
			settings.AddAmount = 2

			sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, tt.mods, 1)

			center := obj.Mesh.Position(scene.GridIndex(4, 2, 2))
			if abs(center.Z-tt.want) > 1e-5 {
				t.Errorf("center height = %v, want %v", center.Z, tt.want)
			}
		})
	}
}

func TestLevelUsesStrokeStartHeight(t *testing.T) {
	s, obj := newGridScene(t, 10, 10)
	// Tilt the grid so that z = x.
	for i := 0; i < obj.Mesh.NumVertices(); i++ {
		p := obj.Mesh.Position(i)
		obj.Mesh.SetPosition(i, math.Vec3{X: p.X, Y: p.Y, Z: p.X})
	}
	obj.Mesh.RecomputeNormals()

	settings := sculpt.DefaultBrushSettings()
	settings.Mode = sculpt.ModeLevel
	settings.Radius = 1.5
	settings.InnerRadius = 1

	start := pickOn(obj, math.Vec3{X: 1, Y: 0, Z: 1})
	session := sculpt.NewStrokeSession(start, &settings)
	if session.StartHeight != 1 {
		t.Fatalf("session start height = %v, want 1", session.StartHeight)
	}

	eng := sculpt.NewEngine(s, nil)
	eng.ApplyDab(start, &settings, session, 0, 1)
	// A later dab elsewhere still levels toward the start height.
	eng.ApplyDab(pickOn(obj, math.Vec3{X: -2, Y: 0, Z: -2}), &settings, session, 0, 1)

	for _, p := range localPositions(obj) {
		inFirst := p.XY().Distance(math.Vec2{X: 1}) < 1.5
		inSecond := p.XY().Distance(math.Vec2{X: -2}) < 1.5
		if (inFirst || inSecond) && abs(p.Z-1) > 1e-5 {
			t.Errorf("vertex %v not levelled to 1", p)
		}
		if !inFirst && !inSecond && p.Z != p.X {
			t.Errorf("vertex %v outside the brush moved", p)
		}
	}
}

// One raised vertex is pulled toward the mean of its neighbours.
func TestSmoothScenario(t *testing.T) {
	s, obj := newGridScene(t, 10, 10)
	center := scene.GridIndex(10, 5, 5)
	obj.Mesh.SetPosition(center, math.Vec3{Z: 10})
	obj.Mesh.RecomputeNormals()

	settings := sculpt.DefaultBrushSettings()
	settings.Mode = sculpt.ModeSmooth
	settings.Radius = 1.5

	sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, 0, 1)

	if z := obj.Mesh.Position(center).Z; abs(z) > 1e-5 {
		t.Errorf("outlier height = %v, want 0 (mean of its flat neighbours)", z)
	}

	// A direct neighbour used the outlier's height from before the dab.
	right := obj.Mesh.Position(scene.GridIndex(10, 6, 5))
	a := sculpt.RadialAttenuation(1, 1.5, 0)
	if want := a * 10 / 6; abs(right.Z-want) > 1e-4 {
		t.Errorf("neighbour height = %v, want %v", right.Z, want)
	}

	for _, p := range localPositions(obj) {
		if p.XY().Length() >= 1.5 && p.Z != 0 {
			t.Errorf("vertex %v outside the brush moved", p)
		}
	}
}

func TestShiftForcesSmooth(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	settings := sculpt.DefaultBrushSettings()
	settings.DrawHeight = 5

	stats := sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, sculpt.ModShift, 1)
	if stats.VerticesMoved != 0 {
		t.Errorf("smoothing a flat grid moved %d vertices", stats.VerticesMoved)
	}
}

func TestSlopeFlattensOntoFittedPlane(t *testing.T) {
	s, obj := newGridScene(t, 10, 10)
	for i := 0; i < obj.Mesh.NumVertices(); i++ {
		p := obj.Mesh.Position(i)
		z := 0.5 * p.X
		if p.X == 0 && p.Y == 0 {
			z += 1
		}
		obj.Mesh.SetPosition(i, math.Vec3{X: p.X, Y: p.Y, Z: z})
	}
	obj.Mesh.RecomputeNormals()

	settings := sculpt.DefaultBrushSettings()
	settings.Mode = sculpt.ModeSlope
	settings.Radius = 2.5
	settings.InnerRadius = 1

	stats := sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{Z: 1}), &settings, nil, 0, 1)
	if stats.VerticesMoved == 0 {
		t.Fatal("slope dab moved nothing")
	}

	var inside []math.Vec3
	for _, p := range localPositions(obj) {
		if p.XY().Length() < 2.5 {
			inside = append(inside, p)
		}
	}
	a := inside[0]
	n := inside[1].Sub(a).Cross(inside[len(inside)-1].Sub(a)).Normalize()
	for _, p := range inside {
		if d := abs(p.Sub(a).Dot(n)); d > 1e-3 {
			t.Errorf("vertex %v is %v off the common plane", p, d)
		}
	}
	// Slope direction survives: the fitted plane still rises along +X.
	if n.X*n.Z >= 0 {
		t.Errorf("fitted normal %v does not lean against +X", n)
	}
}

func TestSlopeFitFailureLeavesMesh(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	before := localPositions(obj)

	settings := sculpt.DefaultBrushSettings()
	settings.Mode = sculpt.ModeSlope
	settings.Radius = 0.1

	stats := sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, 0, 1)
	if stats.VerticesMoved != 0 || !samePositions(before, localPositions(obj), 0) {
		t.Error("single point slope fit modified the mesh")
	}
}

func TestDabWritesThroughTransform(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	obj.Transform = scene.TRS(math.Vec3{Z: 5}, 0.3, math.Vec3{X: 1, Y: 1, Z: 2})

	settings := sculpt.DefaultBrushSettings()
	settings.InnerRadius = 1
	settings.DrawHeight = 7

	sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{Z: 5}), &settings, nil, 0, 1)

	center := obj.Mesh.Position(scene.GridIndex(4, 2, 2))
	if abs(center.Z-1) > 1e-5 {
		t.Errorf("local center height = %v, want 1", center.Z)
	}
}

func TestSphereWorldDraw(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	obj.Transform = math.Translate(0, 0, 10)

	settings := sculpt.DefaultBrushSettings()
	settings.WorldShape = sculpt.ShapeSphere
	settings.Radius = 1.5
	settings.InnerRadius = 1
	settings.DrawHeight = 12

	sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{Z: 10}), &settings, nil, 0, 1)

	for _, p := range worldPositions(obj) {
		down := math.Vec3{}.Sub(p).Normalize()
		inside := math.DistanceToLine(p, math.Vec3{Z: 10}, down) < 1.5
		r := p.Length()
		if inside && abs(r-12) > 1e-3 {
			t.Errorf("vertex %v at radius %v, want 12", p, r)
		}
	}
	if c := worldPositions(obj)[scene.GridIndex(4, 2, 2)]; abs(c.Z-12) > 1e-4 {
		t.Errorf("center = %v, want (0,0,12)", c)
	}
	if corner := worldPositions(obj)[0]; corner.Z != 10 {
		t.Errorf("corner moved to %v", corner)
	}
}

func TestDabNoOps(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	settings := sculpt.DefaultBrushSettings()
	eng := sculpt.NewEngine(s, nil)

	miss := sculpt.PickResult{}
	unselected := pickOn(obj, math.Vec3{})
	unselected.Selected = false
	marker := pickOn(obj, math.Vec3{})
	marker.Mesh = nil

	for name, pick := range map[string]sculpt.PickResult{"miss": miss, "unselected": unselected, "marker": marker} {
		if stats := eng.ApplyDab(pick, &settings, nil, 0, 1); stats != (sculpt.DabStats{}) {
			t.Errorf("%s: stats = %+v, want none", name, stats)
		}
	}

	settings.Radius = 0
	if stats := eng.ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, 0, 1); stats.MeshesTested != 0 {
		t.Errorf("zero radius: stats = %+v", stats)
	}
}

// A mesh far outside the brush is never read by the vertex passes.
func TestPruneSkipsDistantMesh(t *testing.T) {
	s := scene.New()
	nearObj := s.Add(scene.NewObject("near", scene.NewGrid(4, 4)))
	farObj := s.Add(scene.NewObject("far", scene.NewGrid(4, 4)))
	farObj.Transform = math.Translate(100, 0, 0)
	s.SelectOnly(nearObj, farObj)

	near := &countingMesh{Mesh: nearObj.Mesh}
	far := &countingMesh{Mesh: farObj.Mesh}
	ls := &listScene{meshes: []sculpt.Mesh{near, far}}

	for _, mode := range []sculpt.Mode{sculpt.ModeDraw, sculpt.ModeSmooth, sculpt.ModeSlope} {
		settings := sculpt.DefaultBrushSettings()
		settings.Mode = mode
		settings.Radius = 3

		pick := pickOn(nearObj, math.Vec3{})
		pick.Mesh = near
		stats := sculpt.NewEngine(ls, nil).ApplyDab(pick, &settings, nil, 0, 1)

		if stats.MeshesTested != 2 || stats.MeshesAdmitted != 1 {
			t.Errorf("%v: stats = %+v", mode, stats)
		}
		if far.reads != 0 {
			t.Errorf("%v: distant mesh read %d times", mode, far.reads)
		}
		if near.reads == 0 {
			t.Errorf("%v: brushed mesh never read", mode)
		}
	}
}

func TestPressureScalesDab(t *testing.T) {
	s, obj := newGridScene(t, 4, 4)
	settings := sculpt.DefaultBrushSettings()
	settings.InnerRadius = 1
	settings.DrawHeight = 4
	settings.UsePressure = true

	sculpt.NewEngine(s, nil).ApplyDab(pickOn(obj, math.Vec3{}), &settings, nil, 0, 0.25)

	if z := obj.Mesh.Position(scene.GridIndex(4, 2, 2)).Z; abs(z-1) > 1e-5 {
		t.Errorf("center height = %v, want 1", z)
	}
}
