package scene

import (
	"testing"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

func TestNewTriMeshValidation(t *testing.T) {
	pos := []math.Vec3{{}, {X: 1}, {Y: 1}}

	if _, err := NewTriMesh(pos, []uint32{0, 1}); err == nil {
		t.Error("expected error for partial triangle")
	}
	if _, err := NewTriMesh(pos, []uint32{0, 1, 3}); err == nil {
		t.Error("expected error for out of range index")
	}
	m, err := NewTriMesh(pos, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("NewTriMesh: %v", err)
	}
	if got := m.Vertices[0].Normal; got != math.AxisZ {
		t.Errorf("normal = %v, want +Z", got)
	}
}

func TestGridAdjacency(t *testing.T) {
	const segs = 4
	g := NewGrid(4, segs)

	if g.NumVertices() != 25 || g.NumTriangles() != 32 {
		t.Fatalf("grid has %d vertices, %d triangles", g.NumVertices(), g.NumTriangles())
	}

	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"corner with diagonal", 0, 0, 3},
		{"corner without diagonal", segs, 0, 2},
		{"interior", 2, 2, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := len(g.Neighbors(GridIndex(segs, tt.x, tt.y)))
			if got != tt.want {
				t.Errorf("neighbor count = %d, want %d", got, tt.want)
			}
		})
	}

	b := g.LocalBounds()
	if b.Min != (math.Vec3{X: -2, Y: -2}) || b.Max != (math.Vec3{X: 2, Y: 2}) {
		t.Errorf("bounds = %v", b)
	}
}

func TestRecomputeNormalsUpdatesBounds(t *testing.T) {
	g := NewGrid(2, 2)
	center := GridIndex(2, 1, 1)
	v0 := g.Version()

	g.SetPosition(center, math.Vec3{Z: 3})
	g.RecomputeNormals()

	if g.Version() == v0 {
		t.Error("version not bumped by edits")
	}
	if g.LocalBounds().Max.Z != 3 {
		t.Errorf("bounds max z = %v, want 3", g.LocalBounds().Max.Z)
	}
	// The raised vertex still points up.
	if n := g.Vertices[center].Normal; n.Z < 0.99 {
		t.Errorf("center normal = %v", n)
	}
	// A corner next to the peak tilts away from it.
	if n := g.Vertices[GridIndex(2, 0, 0)].Normal; n.X >= 0 || n.Y >= 0 {
		t.Errorf("corner normal = %v, want tilted toward -X -Y", n)
	}
}

func TestRayCastClosestSelectedHit(t *testing.T) {
	s := New()
	low := s.Add(NewObject("low", NewGrid(10, 2)))
	high := s.Add(NewObject("high", NewGrid(10, 2)))
	high.Transform = math.Translate(0, 0, 2)
	hidden := s.Add(NewObject("hidden", NewGrid(10, 2)))
	hidden.Transform = math.Translate(0, 0, 4)
	hidden.Visible = false
	s.SelectOnly(low, high, hidden)

	down := picking.NewRay(math.Vec3{X: 1, Y: 2, Z: 10}, math.Vec3{Z: -1})
	hit := s.RayCast(down)
	if !hit.Hit || hit.Mesh == nil || hit.Mesh.ID() != high.ID() {
		t.Fatalf("RayCast hit %+v, want object %q", hit, high.Name)
	}
	if hit.Point.Distance(math.Vec3{X: 1, Y: 2, Z: 2}) > 1e-4 {
		t.Errorf("hit point = %v", hit.Point)
	}
	if hit.Normal.Z < 0.999 {
		t.Errorf("hit normal = %v", hit.Normal)
	}

	s.SelectOnly(low)
	if hit := s.RayCast(down); hit.Mesh == nil || hit.Mesh.ID() != low.ID() {
		t.Errorf("unselected object should not be picked, got %+v", hit)
	}

	miss := picking.NewRay(math.Vec3{X: 50, Z: 10}, math.Vec3{Z: -1})
	if s.RayCast(miss).Hit {
		t.Error("ray beside the grid should miss")
	}
}

func TestRayCastScaledObjectUsesWorldDistance(t *testing.T) {
	s := New()
	// Squashing makes local ray distances much longer than world distances.
	squashed := s.Add(NewObject("squashed", NewGrid(4, 1)))
	squashed.Transform = TRS(math.Vec3{Z: 3}, 0, math.Vec3{X: 1, Y: 1, Z: 0.01})
	plain := s.Add(NewObject("plain", NewGrid(4, 1)))
	plain.Transform = math.Translate(0, 0, 1)
	s.SelectOnly(squashed, plain)

	hit := s.RayCast(picking.NewRay(math.Vec3{X: 0.5, Y: 0.25, Z: 10}, math.Vec3{Z: -1}))
	if hit.Mesh == nil || hit.Mesh.ID() != squashed.ID() {
		t.Fatalf("picked %+v, want the nearer object", hit)
	}
}

func TestRayCastMarkerObject(t *testing.T) {
	s := New()
	marker := s.Add(NewObject("origin", nil))
	marker.Box = picking.NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	marker.Selected = true

	hit := s.RayCast(picking.NewRay(math.Vec3{Z: 10}, math.Vec3{Z: -1}))
	if !hit.Hit {
		t.Fatal("marker not hit")
	}
	if hit.Mesh != nil {
		t.Errorf("marker hit reports a mesh: %v", hit.Mesh)
	}
	if hit.Editable() {
		t.Error("marker hit should not be editable")
	}
}

func TestMeshByIDAndSelection(t *testing.T) {
	s := New()
	a := s.Add(NewObject("a", NewGrid(1, 1)))
	b := s.Add(NewObject("b", NewGrid(1, 1)))
	s.SelectOnly(b)

	if got := s.SelectedMeshes(); len(got) != 1 || got[0].ID() != b.ID() {
		t.Errorf("SelectedMeshes() = %v", got)
	}
	if m, ok := s.MeshByID(a.ID()); !ok || m.ID() != a.ID() {
		t.Errorf("MeshByID(%d) = %v, %v", a.ID(), m, ok)
	}

	s.Remove(a)
	if _, ok := s.MeshByID(a.ID()); ok {
		t.Error("removed mesh still found")
	}
}
