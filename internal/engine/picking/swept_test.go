package picking

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

func TestIntersectsThickLine(t *testing.T) {
	unit := TransformAABB(NewAABB(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}), math.Identity())
	flat := TransformAABB(NewAABB(math.Vec3{X: -5, Y: -5}, math.Vec3{X: 5, Y: 5}), math.Identity())
	down := math.Vec3{Z: -1}

	tests := []struct {
		name   string
		box    Box
		point  math.Vec3
		dir    math.Vec3
		radius float32
		want   bool
	}{
		{"line through box", unit, math.Vec3{X: 0.5, Y: 0.5, Z: 3}, down, 0.1, true},
		{"line beside within radius", unit, math.Vec3{X: 1.5, Y: 0.5, Z: 3}, down, 0.6, true},
		{"line beside outside radius", unit, math.Vec3{X: 1.5, Y: 0.5, Z: 3}, down, 0.4, false},
		{"near corner diagonal", unit, math.Vec3{X: 1.5, Y: 1.5}, down, 0.75, true},
		{"far corner diagonal", unit, math.Vec3{X: 1.5, Y: 1.5}, down, 0.7, false},
		{"horizontal line", unit, math.Vec3{X: -3, Y: 0.5, Z: 0.5}, math.Vec3{X: 1}, 0.01, true},
		{"flat box hit", flat, math.Vec3{X: 1, Y: 1, Z: 2}, down, 0.5, true},
		{"flat box miss", flat, math.Vec3{X: 8, Y: 0, Z: 2}, down, 2, false},
		{"zero direction", unit, math.Vec3{X: 0.5, Y: 0.5}, math.Vec3{}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.IntersectsThickLine(tt.point, tt.dir, tt.radius); got != tt.want {
				t.Errorf("IntersectsThickLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectsThickLineRotatedBox(t *testing.T) {
	m := math.Translate(10, 0, 0).Mul(math.RotateZ(0.785398)).Mul(math.Scale(2, 1, 0.5))
	box := TransformAABB(NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}), m)

	if !box.IntersectsThickLine(math.Vec3{X: 10, Z: 5}, math.Vec3{Z: -1}, 0.01) {
		t.Error("line through rotated box center rejected")
	}
	if box.IntersectsThickLine(math.Vec3{Z: 5}, math.Vec3{Z: -1}, 1) {
		t.Error("distant line accepted")
	}
}

// Any box holding a point within radius of the line must be accepted.
func TestIntersectsThickLineNeverMissesInteriorPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rnd := func(lo, hi float32) float32 { return lo + rng.Float32()*(hi-lo) }

	for i := 0; i < 500; i++ {
		m := math.Translate(rnd(-3, 3), rnd(-3, 3), rnd(-3, 3)).
			Mul(math.RotateZ(rnd(0, 6))).
			Mul(math.Scale(rnd(0.2, 2), rnd(0.2, 2), rnd(0.05, 2)))
		local := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
		box := TransformAABB(local, m)

		point := math.Vec3{X: rnd(-5, 5), Y: rnd(-5, 5), Z: rnd(-5, 5)}
		dir := math.Vec3{X: rnd(-1, 1), Y: rnd(-1, 1), Z: rnd(-1, 1)}
		if dir.LengthSquared() < 1e-3 {
			continue
		}
		radius := rnd(0.1, 2)

		inside := false
		for j := 0; j < 50 && !inside; j++ {
			p := m.TransformPoint(math.Vec3{X: rnd(-1, 1), Y: rnd(-1, 1), Z: rnd(-1, 1)})
			if math.DistanceToLine(p, point, dir) < radius*0.999 {
				inside = true
			}
		}
		if inside && !box.IntersectsThickLine(point, dir, radius) {
			t.Fatalf("case %d: box with interior point inside radius rejected", i)
		}
	}
}

func TestBoxBounds(t *testing.T) {
	local := NewAABB(math.Vec3{X: -1, Y: -1}, math.Vec3{X: 1, Y: 1, Z: 2})
	b := TransformAABB(local, math.Translate(5, 0, 0)).Bounds()
	if b.Min != (math.Vec3{X: 4, Y: -1}) || b.Max != (math.Vec3{X: 6, Y: 1, Z: 2}) {
		t.Errorf("Bounds() = %v, want [(4,-1,0) (6,1,2)]", b)
	}
	if !b.Contains(math.Vec3{X: 5, Z: 1}) {
		t.Error("Contains() rejected center point")
	}
	if !EmptyAABB().IsEmpty() {
		t.Error("EmptyAABB() not empty")
	}
}
