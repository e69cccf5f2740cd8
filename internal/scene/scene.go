// Package scene is an in-memory scene of transformable, selectable objects
// holding triangle meshes. It answers the brush's ray and selection queries.
package scene

import (
	gomath "math"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Object is a node in the scene. Objects without a mesh are markers with a
// pickable box.
type Object struct {
	Name      string
	Mesh      *TriMesh
	Transform math.Mat4
	// Box is the local pick volume of a marker object.
	Box      picking.AABB
	Selected bool
	Visible  bool
	Pickable bool

	id sculpt.MeshID
}

// NewObject creates a visible, pickable, unselected object at the identity transform.
func NewObject(name string, mesh *TriMesh) *Object {
	return &Object{
		Name:      name,
		Mesh:      mesh,
		Transform: math.Identity(),
		Visible:   true,
		Pickable:  true,
	}
}

// ID returns the id assigned when the object was added to a scene.
func (o *Object) ID() sculpt.MeshID { return o.id }

// TRS composes translation, rotation about Z and scale into a transform.
func TRS(pos math.Vec3, rotZ float32, scale math.Vec3) math.Mat4 {
	return math.Translate(pos.X, pos.Y, pos.Z).
		Mul(math.RotateZ(rotZ)).
		Mul(math.Scale(scale.X, scale.Y, scale.Z))
}

// Scene holds objects and implements sculpt.Scene.
type Scene struct {
	objects    []*Object
	nextID     sculpt.MeshID
	viewport3D bool
}

// New creates an empty scene shown in a 3D viewport.
func New() *Scene {
	return &Scene{viewport3D: true}
}

// Add inserts obj and assigns it an id.
func (s *Scene) Add(obj *Object) *Object {
	s.nextID++
	obj.id = s.nextID
	if obj.Mesh != nil {
		obj.Mesh.obj = obj
	}
	s.objects = append(s.objects, obj)
	return obj
}

// Remove deletes obj from the scene.
func (s *Scene) Remove(obj *Object) {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Objects returns all objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// SelectOnly selects the given objects and deselects the rest.
func (s *Scene) SelectOnly(objs ...*Object) {
	for _, o := range s.objects {
		o.Selected = false
	}
	for _, o := range objs {
		o.Selected = true
	}
}

// SetViewport3D marks whether the scene is shown in a 3D viewport.
func (s *Scene) SetViewport3D(v bool) {
	s.viewport3D = v
}

// Is3DViewport implements sculpt.Scene.
func (s *Scene) Is3DViewport() bool {
	return s.viewport3D
}

// SelectedMeshes implements sculpt.Scene.
func (s *Scene) SelectedMeshes() []sculpt.Mesh {
	var out []sculpt.Mesh
	for _, o := range s.objects {
		if o.Selected && o.Mesh != nil {
			out = append(out, o.Mesh)
		}
	}
	return out
}

// MeshByID implements sculpt.Scene.
func (s *Scene) MeshByID(id sculpt.MeshID) (sculpt.Mesh, bool) {
	for _, o := range s.objects {
		if o.id == id && o.Mesh != nil {
			return o.Mesh, true
		}
	}
	return nil, false
}

// RayCast returns the closest hit among selected, visible, pickable objects.
func (s *Scene) RayCast(ray picking.Ray) sculpt.PickResult {
	best := sculpt.PickResult{}
	bestDist := float32(gomath.MaxFloat32)

	for _, o := range s.objects {
		if !o.Selected || !o.Visible || !o.Pickable {
			continue
		}
		inv, ok := o.Transform.Inverse()
		if !ok {
			continue
		}
		local := ray.Transform(inv)

		var (
			localHit    math.Vec3
			localNormal math.Vec3
			face        = -1
		)
		if o.Mesh != nil {
			t, f, ok := o.Mesh.intersect(local)
			if !ok {
				continue
			}
			localHit = local.At(t)
			localNormal = o.Mesh.FaceNormal(f)
			face = f
		} else {
			t, ok := local.IntersectAABB(o.Box)
			if !ok {
				continue
			}
			localHit = local.At(t)
			localNormal = math.AxisZ
		}

		world := o.Transform.TransformPoint(localHit)
		d := world.Distance(ray.Origin)
		if d >= bestDist {
			continue
		}
		bestDist = d
		best = sculpt.PickResult{
			Hit:       true,
			Point:     world,
			Normal:    o.Transform.TransformNormal(localNormal),
			FaceIndex: face,
			Selected:  o.Selected,
			Transform: o.Transform,
		}
		if o.Mesh != nil {
			best.Mesh = o.Mesh
		}
	}
	return best
}

// intersect finds the closest triangle hit of a local-space ray.
func (m *TriMesh) intersect(ray picking.Ray) (t float32, face int, ok bool) {
	if _, hit := ray.IntersectAABB(m.bounds); !hit {
		return 0, -1, false
	}
	t = float32(gomath.MaxFloat32)
	face = -1
	for f := 0; f < m.NumTriangles(); f++ {
		a, b, c := m.Triangle(f)
		d, hit := ray.IntersectTriangle(a, b, c)
		if hit && d < t {
			t, face = d, f
		}
	}
	return t, face, face >= 0
}
