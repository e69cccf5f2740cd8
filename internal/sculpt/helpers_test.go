package sculpt_test

import (
	"testing"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/internal/scene"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// newGridScene returns a scene holding one selected flat grid with unit spacing.
func newGridScene(t *testing.T, size float32, segments int) (*scene.Scene, *scene.Object) {
	t.Helper()
	s := scene.New()
	obj := s.Add(scene.NewObject("terrain", scene.NewGrid(size, segments)))
	s.SelectOnly(obj)
	return s, obj
}

// pickOn builds a hit on obj without going through a ray cast.
func pickOn(obj *scene.Object, p math.Vec3) sculpt.PickResult {
	return sculpt.PickResult{
		Hit:       true,
		Point:     p,
		Normal:    math.AxisZ,
		Mesh:      obj.Mesh,
		Selected:  obj.Selected,
		Transform: obj.Transform,
	}
}

// rayDown returns a ray pointing straight down through (x, y).
func rayDown(x, y float32) picking.Ray {
	return picking.NewRay(math.Vec3{X: x, Y: y, Z: 100}, math.Vec3{Z: -1})
}

// worldPositions returns the world positions of every vertex of obj.
func worldPositions(obj *scene.Object) []math.Vec3 {
	out := make([]math.Vec3, obj.Mesh.NumVertices())
	for i := range out {
		out[i] = obj.Transform.TransformPoint(obj.Mesh.Position(i))
	}
	return out
}

func localPositions(obj *scene.Object) []math.Vec3 {
	out := make([]math.Vec3, obj.Mesh.NumVertices())
	for i := range out {
		out[i] = obj.Mesh.Position(i)
	}
	return out
}

func samePositions(a, b []math.Vec3, eps float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Distance(b[i]) > eps {
			return false
		}
	}
	return true
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// countingMesh records how often its vertices are read.
type countingMesh struct {
	sculpt.Mesh
	reads int
}

func (m *countingMesh) Position(i int) math.Vec3 {
	m.reads++
	return m.Mesh.Position(i)
}

// listScene is a minimal sculpt.Scene over a fixed mesh list.
type listScene struct {
	meshes []sculpt.Mesh
}

func (s *listScene) RayCast(picking.Ray) sculpt.PickResult { return sculpt.PickResult{} }
func (s *listScene) SelectedMeshes() []sculpt.Mesh         { return s.meshes }
func (s *listScene) Is3DViewport() bool                    { return true }
func (s *listScene) MeshByID(id sculpt.MeshID) (sculpt.Mesh, bool) {
	for _, m := range s.meshes {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}
