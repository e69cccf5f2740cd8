// Package camera provides the orbit camera of the sculpt viewer. Z is up.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	Distance float32
	Pitch    float32 // elevation above the XY plane, radians
	Yaw      float32 // rotation about Z, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FovY      float32
	Near, Far float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking down at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        60,
		Pitch:           0.7,
		Yaw:             -math32.Pi / 2,
		MinDistance:     1,
		MaxDistance:     2000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FovY:            math32.Pi / 4,
		Near:            0.1,
		Far:             5000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// offset is the unit vector from the center toward the eye.
func (c *OrbitCamera) offset() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	return math.Vec3{
		X: cp * math32.Cos(c.Yaw),
		Y: cp * math32.Sin(c.Yaw),
		Z: math32.Sin(c.Pitch),
	}
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Center.Add(c.offset().Scale(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.AxisZ)
}

// ProjectionMatrix returns the perspective projection for a viewport aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(width, height int) math.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// Ray returns the world ray through window pixel (x, y).
func (c *OrbitCamera) Ray(x, y float32, width, height int) (picking.Ray, bool) {
	inv, ok := c.ViewProjection(width, height).Inverse()
	if !ok || width <= 0 || height <= 0 {
		return picking.Ray{}, false
	}
	return picking.ScreenToRay(x, y, float32(width), float32(height), inv), true
}

// HandleDrag orbits by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves toward or away from the center by wheel steps.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandlePan slides the center in the view plane by a drag delta in pixels.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	forward := c.offset().Neg()
	right := forward.Cross(math.AxisZ).Normalize()
	if right == (math.Vec3{}) {
		right = math.AxisX
	}
	up := right.Cross(forward)

	speed := c.Distance * 0.002
	c.Center = c.Center.
		Add(right.Scale(-deltaX * speed)).
		Add(up.Scale(deltaY * speed))
}

// FitToBounds centers the camera on a box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box picking.AABB) {
	if box.IsEmpty() {
		return
	}
	c.Center = box.Center()
	size := box.Max.Sub(box.Min).Length()
	c.Distance = math.Clamp(size/(2*math32.Tan(c.FovY/2)), c.MinDistance, c.MaxDistance)
}
