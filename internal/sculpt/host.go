// Package sculpt deforms terrain meshes with a circular brush projected onto
// the surface under the pointer, and drives strokes from pointer and key input.
package sculpt

import (
	"errors"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// ErrNoViewport is returned when the operator is started outside a 3D viewport.
var ErrNoViewport = errors.New("sculpt: operator requires a 3D viewport")

// MeshID identifies a mesh across snapshots.
type MeshID uint64

// Mesh is an editable triangle mesh owned by the host.
// Positions are in the mesh's local space.
type Mesh interface {
	ID() MeshID
	NumVertices() int
	Position(i int) math.Vec3
	SetPosition(i int, p math.Vec3)
	// Neighbors returns the vertices sharing an edge with i.
	Neighbors(i int) []int
	LocalBounds() picking.AABB
	// Transform maps local space to world space.
	Transform() math.Mat4
	RecomputeNormals()
}

// Scene answers the queries the brush needs from the host.
type Scene interface {
	// RayCast returns the closest hit among visible, pickable objects.
	RayCast(ray picking.Ray) PickResult
	SelectedMeshes() []Mesh
	MeshByID(id MeshID) (Mesh, bool)
	Is3DViewport() bool
}

// PickResult describes a ray cast hit.
type PickResult struct {
	Hit       bool
	Point     math.Vec3
	Normal    math.Vec3
	FaceIndex int
	// Mesh is nil when the hit object is not a mesh.
	Mesh      Mesh
	Selected  bool
	Transform math.Mat4
}

// Editable reports whether the hit landed on a selected mesh.
func (p PickResult) Editable() bool {
	return p.Hit && p.Mesh != nil && p.Selected
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }

// PointerEvent is a pointer press, drag or release already converted to a world ray.
type PointerEvent struct {
	Ray      picking.Ray
	Pressure float32
	Mods     Modifiers
}

// Key names the hotkeys the operator understands.
type Key int

const (
	KeyUnknown Key = iota
	KeyD
	KeyL
	KeyA
	KeyS
	KeyP
	KeyM
	KeyR
	KeyZ
	KeyRightBracket
	KeyLeftBracket
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key  Key
	Mods Modifiers
}
