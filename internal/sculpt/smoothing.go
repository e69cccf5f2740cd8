package sculpt

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// sphereMatchEpsilon is how close a sphere-world query must be to a stored sample.
const sphereMatchEpsilon = 1e-3

// SmoothingInfo holds the neighbour-averaged heights gathered before a smooth dab
// writes anything, so no vertex reads an already smoothed neighbour.
// In a flat world samples are indexed by their XY projection, which lets
// coincident vertices of separate meshes share one target height across a seam.
type SmoothingInfo struct {
	shape   WorldShape
	samples smoothSamples
	tree    *kdtree.Tree
}

// NewSmoothingInfo creates an empty aggregator for the given world shape.
func NewSmoothingInfo(shape WorldShape) *SmoothingInfo {
	return &SmoothingInfo{shape: shape}
}

// Add stores the neighbour mean height for a vertex at world position pos.
func (si *SmoothingInfo) Add(pos math.Vec3, height float32) {
	si.samples = append(si.samples, newSmoothSample(pos, height, si.shape))
	si.tree = nil
}

// Len returns the number of stored samples.
func (si *SmoothingInfo) Len() int {
	return len(si.samples)
}

// CentroidHeight returns the target height for a vertex at pos.
// Flat worlds average every sample whose horizontal projection lies within snap
// of pos. Sphere worlds use the nearest sample within a tight tolerance.
// ok is false when nothing matches.
func (si *SmoothingInfo) CentroidHeight(pos math.Vec3, snap float32) (height float32, ok bool) {
	if len(si.samples) == 0 {
		return 0, false
	}
	if si.tree == nil {
		si.tree = kdtree.New(si.samples, false)
	}
	q := newSmoothSample(pos, 0, si.shape)

	if si.shape == ShapeSphere {
		got, dist := si.tree.Nearest(q)
		if got == nil || dist > sphereMatchEpsilon*sphereMatchEpsilon {
			return 0, false
		}
		return got.(*smoothSample).height, true
	}

	keeper := kdtree.NewDistKeeper(float64(snap) * float64(snap))
	si.tree.NearestSet(keeper, q)

	var sum float64
	var n int
	for _, c := range keeper.Heap {
		// The keeper seeds its heap with a nil sentinel.
		if c.Comparable == nil {
			continue
		}
		sum += float64(c.Comparable.(*smoothSample).height)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float32(sum / float64(n)), true
}

// buildSmoothingInfo gathers, for every admitted vertex inside the brush, the mean
// signed height of its edge neighbours. Vertices without neighbours are skipped.
func buildSmoothingInfo(passes []meshPass, center math.Vec3, s *BrushSettings) *SmoothingInfo {
	info := NewSmoothingInfo(s.WorldShape)
	origin := s.Origin()

	for _, p := range passes {
		n := p.mesh.NumVertices()
		for i := 0; i < n; i++ {
			wpos := p.toWorld.TransformPoint(p.mesh.Position(i))
			down, _ := DownVector(wpos, origin, s.WorldShape)
			if axialDistance(wpos, center, down) >= s.Radius {
				continue
			}

			neighbors := p.mesh.Neighbors(i)
			if len(neighbors) == 0 {
				continue
			}
			var sum float32
			for _, j := range neighbors {
				npos := p.toWorld.TransformPoint(p.mesh.Position(j))
				_, h := DownVector(npos, origin, s.WorldShape)
				sum += h
			}
			info.Add(wpos, sum/float32(len(neighbors)))
		}
	}
	return info
}

// smoothSample is a kd-tree point keyed by 2 or 3 coordinates.
type smoothSample struct {
	key    [3]float64
	dims   int
	height float32
}

func newSmoothSample(pos math.Vec3, height float32, shape WorldShape) *smoothSample {
	s := &smoothSample{
		key:    [3]float64{float64(pos.X), float64(pos.Y), float64(pos.Z)},
		dims:   3,
		height: height,
	}
	if shape == ShapeFlat {
		s.key[2] = 0
		s.dims = 2
	}
	return s
}

// Compare returns the signed distance of s from the plane through c
// perpendicular to dimension d.
func (s *smoothSample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.key[d] - c.(*smoothSample).key[d]
}

// Dims returns the number of indexed dimensions.
func (s *smoothSample) Dims() int { return s.dims }

// Distance returns the squared Euclidean distance over the indexed dimensions.
func (s *smoothSample) Distance(c kdtree.Comparable) float64 {
	o := c.(*smoothSample)
	var sum float64
	for i := 0; i < s.dims; i++ {
		d := s.key[i] - o.key[i]
		sum += d * d
	}
	return sum
}

// smoothSamples implements kdtree.Interface.
type smoothSamples []*smoothSample

func (p smoothSamples) Index(i int) kdtree.Comparable { return p[i] }
func (p smoothSamples) Len() int                      { return len(p) }

// Pivot partitions the list based on the dimension specified.
func (p smoothSamples) Pivot(d kdtree.Dim) int {
	plane := samplePlane{dim: d, samples: p}
	return kdtree.Partition(plane, kdtree.MedianOfMedians(plane))
}

func (p smoothSamples) Slice(start, end int) kdtree.Interface { return p[start:end] }

type samplePlane struct {
	dim     kdtree.Dim
	samples smoothSamples
}

func (p samplePlane) Less(i, j int) bool {
	return p.samples[i].Compare(p.samples[j], p.dim) < 0
}
func (p samplePlane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}
func (p samplePlane) Len() int {
	return len(p.samples)
}
func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
