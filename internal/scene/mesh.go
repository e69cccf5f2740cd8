package scene

import (
	"fmt"
	"slices"

	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Vertex is a mesh vertex with a smooth normal.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// TriMesh is an indexed triangle mesh with edge adjacency.
// It implements sculpt.Mesh once attached to an Object.
type TriMesh struct {
	Vertices []Vertex
	Indices  []uint32

	obj       *Object
	neighbors [][]int
	bounds    picking.AABB
	version   uint64
}

// NewTriMesh builds a mesh from positions and triangle indices.
func NewTriMesh(positions []math.Vec3, indices []uint32) (*TriMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range at %d (have %d vertices)", idx, i, len(positions))
		}
	}

	m := &TriMesh{
		Vertices: make([]Vertex, len(positions)),
		Indices:  slices.Clone(indices),
	}
	for i, p := range positions {
		m.Vertices[i].Position = p
	}
	m.buildAdjacency()
	m.RecomputeNormals()
	return m, nil
}

// buildAdjacency collects the vertices that share an edge with each vertex.
func (m *TriMesh) buildAdjacency() {
	sets := make([]map[int]struct{}, len(m.Vertices))
	link := func(a, b int) {
		if a == b {
			return
		}
		if sets[a] == nil {
			sets[a] = make(map[int]struct{})
		}
		sets[a][b] = struct{}{}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := int(m.Indices[t]), int(m.Indices[t+1]), int(m.Indices[t+2])
		link(a, b)
		link(b, a)
		link(b, c)
		link(c, b)
		link(c, a)
		link(a, c)
	}

	m.neighbors = make([][]int, len(m.Vertices))
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		n := make([]int, 0, len(set))
		for j := range set {
			n = append(n, j)
		}
		slices.Sort(n)
		m.neighbors[i] = n
	}
}

// ID returns the id of the owning object, or 0 when detached.
func (m *TriMesh) ID() sculpt.MeshID {
	if m.obj == nil {
		return 0
	}
	return m.obj.id
}

// NumVertices returns the vertex count.
func (m *TriMesh) NumVertices() int { return len(m.Vertices) }

// NumTriangles returns the triangle count.
func (m *TriMesh) NumTriangles() int { return len(m.Indices) / 3 }

// Position returns the local position of vertex i.
func (m *TriMesh) Position(i int) math.Vec3 { return m.Vertices[i].Position }

// SetPosition moves vertex i. Normals and bounds are refreshed by RecomputeNormals.
func (m *TriMesh) SetPosition(i int, p math.Vec3) {
	m.Vertices[i].Position = p
	m.version++
}

// Neighbors returns the edge-connected vertices of i. The slice must not be modified.
func (m *TriMesh) Neighbors(i int) []int { return m.neighbors[i] }

// LocalBounds returns the bounding box in local space.
func (m *TriMesh) LocalBounds() picking.AABB { return m.bounds }

// Transform returns the owning object's local-to-world matrix.
func (m *TriMesh) Transform() math.Mat4 {
	if m.obj == nil {
		return math.Identity()
	}
	return m.obj.Transform
}

// Version increases whenever vertex data changes, so renderers know to re-upload.
func (m *TriMesh) Version() uint64 { return m.version }

// Triangle returns the local corners of triangle t.
func (m *TriMesh) Triangle(t int) (a, b, c math.Vec3) {
	i := t * 3
	return m.Vertices[m.Indices[i]].Position,
		m.Vertices[m.Indices[i+1]].Position,
		m.Vertices[m.Indices[i+2]].Position
}

// RecomputeNormals rebuilds area-weighted vertex normals and the local bounds.
func (m *TriMesh) RecomputeNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math.Vec3{}
	}
	for t := 0; t < m.NumTriangles(); t++ {
		a, b, c := m.Triangle(t)
		// Unnormalized cross product weights by triangle area.
		n := b.Sub(a).Cross(c.Sub(a))
		for k := 0; k < 3; k++ {
			v := &m.Vertices[m.Indices[t*3+k]]
			v.Normal = v.Normal.Add(n)
		}
	}
	bounds := picking.EmptyAABB()
	for i := range m.Vertices {
		n := m.Vertices[i].Normal.Normalize()
		if n == (math.Vec3{}) {
			n = math.AxisZ
		}
		m.Vertices[i].Normal = n
		bounds = bounds.Extend(m.Vertices[i].Position)
	}
	if bounds.IsEmpty() {
		bounds = picking.AABB{}
	}
	m.bounds = bounds
	m.version++
}

// FaceNormal returns the unit normal of triangle t in local space.
func (m *TriMesh) FaceNormal(t int) math.Vec3 {
	a, b, c := m.Triangle(t)
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// NewGrid builds a flat square grid in the XY plane centred on the origin.
// size is the edge length and segments the number of quads per edge.
func NewGrid(size float32, segments int) *TriMesh {
	if segments < 1 {
		segments = 1
	}
	row := segments + 1
	step := size / float32(segments)
	half := size / 2

	positions := make([]math.Vec3, 0, row*row)
	for y := 0; y < row; y++ {
		for x := 0; x < row; x++ {
			positions = append(positions, math.Vec3{
				X: float32(x)*step - half,
				Y: float32(y)*step - half,
			})
		}
	}

	indices := make([]uint32, 0, segments*segments*6)
	for y := 0; y < segments; y++ {
		for x := 0; x < segments; x++ {
			i0 := uint32(y*row + x)
			i1 := i0 + 1
			i2 := i0 + uint32(row)
			i3 := i2 + 1
			// Counter-clockwise seen from +Z.
			indices = append(indices, i0, i1, i3, i0, i3, i2)
		}
	}

	m, _ := NewTriMesh(positions, indices)
	return m
}

// GridIndex returns the vertex index at column x, row y of a NewGrid mesh.
func GridIndex(segments, x, y int) int {
	return y*(segments+1) + x
}
