package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(AxisZ, float32(math.Pi/2))

	if got := q.Rotate(AxisX); !vecNear(got, AxisY, 1e-5) {
		t.Errorf("Rotate(X) = %v, want %v", got, AxisY)
	}
	if got := q.ToMat4().TransformDirection(AxisX); !vecNear(got, AxisY, 1e-5) {
		t.Errorf("ToMat4 rotate(X) = %v, want %v", got, AxisY)
	}
}

func TestQuatAlignZ(t *testing.T) {
	tests := []struct {
		name string
		dir  Vec3
	}{
		{"up", AxisZ},
		{"down", AxisZ.Neg()},
		{"x", AxisX},
		{"diagonal", Vec3{1, -2, 0.5}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatAlignZ(tt.dir).Rotate(AxisZ)
			if !vecNear(got, tt.dir, 1e-5) {
				t.Errorf("QuatAlignZ(%v) maps Z to %v", tt.dir, got)
			}
		})
	}
}
