package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("zero Vec2.Normalize() = %v, want zero", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := AxisX.Cross(AxisY)
	if got != AxisZ {
		t.Errorf("Vec3.Cross() = %v, want %v", got, AxisZ)
	}
}

func TestVec3ProjectReject(t *testing.T) {
	v := Vec3{3, 4, 5}

	tests := []struct {
		name   string
		onto   Vec3
		proj   Vec3
		reject Vec3
	}{
		{"z axis", AxisZ, Vec3{0, 0, 5}, Vec3{3, 4, 0}},
		{"scaled z axis", Vec3{0, 0, -10}, Vec3{0, 0, 5}, Vec3{3, 4, 0}},
		{"zero", Vec3{}, Vec3{}, v},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Project(tt.onto); !vecNear(got, tt.proj, 1e-5) {
				t.Errorf("Project() = %v, want %v", got, tt.proj)
			}
			if got := v.Reject(tt.onto); !vecNear(got, tt.reject, 1e-5) {
				t.Errorf("Reject() = %v, want %v", got, tt.reject)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{0, 3, 4}.Normalize()
	if abs(n.Length()-1) > 1e-6 {
		t.Errorf("Normalize().Length() = %v, want 1", n.Length())
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	zero := float32(0)
	nan := zero / zero
	if (Vec3{1, nan, 3}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if (Vec3{1, 2, 1 / zero}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}

func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(2, 10, 0.25); got != 4 {
		t.Errorf("Lerp() = %v, want 4", got)
	}
	if got := (Vec3{0, 0, 0}).Lerp(Vec3{10, 20, 30}, 0.5); got != (Vec3{5, 10, 15}) {
		t.Errorf("Vec3.Lerp() = %v, want (5,10,15)", got)
	}
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp() = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp() = %v, want 0", got)
	}
}

func vecNear(a, b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
