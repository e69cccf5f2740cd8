// Package terrain moves heights between grayscale images and grid meshes.
package terrain

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"

	"github.com/Faultbox/terrain-sculpt/internal/scene"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Heightmap is a row-major grid of heights. Row 0 is the image top, which
// maps to the +Y edge of a grid mesh.
type Heightmap struct {
	Width, Height int
	Heights       []float32
}

// FromImage converts an image to heights: black is 0, white is maxHeight.
func FromImage(img image.Image, maxHeight float32) *Heightmap {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	h := &Heightmap{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Heights: make([]float32, b.Dx()*b.Dy()),
	}
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			c := gray.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			h.Heights[y*h.Width+x] = float32(c.R) / 255 * maxHeight
		}
	}
	return h
}

// Load reads a heightmap image from disk.
func Load(path string, maxHeight float32) (*Heightmap, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("heightmap %s: %w", path, err)
	}
	return FromImage(img, maxHeight), nil
}

// At returns the height of a texel, clamping coordinates to the map.
func (h *Heightmap) At(x, y int) float32 {
	x = max(0, min(x, h.Width-1))
	y = max(0, min(y, h.Height-1))
	return h.Heights[y*h.Width+x]
}

// Sample bilinearly interpolates the map at (u, v) in [0,1], with v=0 at the
// top row.
func (h *Heightmap) Sample(u, v float32) float32 {
	if h.Width == 0 || h.Height == 0 {
		return 0
	}
	fx := math.Clamp(u, 0, 1) * float32(h.Width-1)
	fy := math.Clamp(v, 0, 1) * float32(h.Height-1)
	x0, y0 := int(fx), int(fy)
	tx, ty := fx-float32(x0), fy-float32(y0)

	top := math.Lerp(h.At(x0, y0), h.At(x0+1, y0), tx)
	bottom := math.Lerp(h.At(x0, y0+1), h.At(x0+1, y0+1), tx)
	return math.Lerp(top, bottom, ty)
}

func checkGrid(m *scene.TriMesh, segments int) error {
	if want := (segments + 1) * (segments + 1); segments < 1 || m.NumVertices() != want {
		return fmt.Errorf("mesh has %d vertices, not a %d segment grid", m.NumVertices(), segments)
	}
	return nil
}

// ApplyToGrid sets the Z of every vertex of a scene.NewGrid mesh from the map.
func (h *Heightmap) ApplyToGrid(m *scene.TriMesh, segments int) error {
	if err := checkGrid(m, segments); err != nil {
		return err
	}
	for y := 0; y <= segments; y++ {
		for x := 0; x <= segments; x++ {
			i := scene.GridIndex(segments, x, y)
			p := m.Position(i)
			u := float32(x) / float32(segments)
			v := 1 - float32(y)/float32(segments)
			m.SetPosition(i, math.Vec3{X: p.X, Y: p.Y, Z: h.Sample(u, v)})
		}
	}
	m.RecomputeNormals()
	return nil
}

// Capture reads the vertex heights of a grid mesh into a map with one texel
// per vertex.
func Capture(m *scene.TriMesh, segments int) (*Heightmap, error) {
	if err := checkGrid(m, segments); err != nil {
		return nil, err
	}
	n := segments + 1
	h := &Heightmap{Width: n, Height: n, Heights: make([]float32, n*n)}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			row := segments - y
			h.Heights[row*n+x] = m.Position(scene.GridIndex(segments, x, y)).Z
		}
	}
	return h, nil
}

// Image renders the map as 16-bit grayscale, mapping [0, maxHeight] to black..white.
func (h *Heightmap) Image(maxHeight float32) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, h.Width, h.Height))
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			t := float32(0)
			if maxHeight > 0 {
				t = math.Clamp(h.At(x, y)/maxHeight, 0, 1)
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math32.Round(t * 0xffff))})
		}
	}
	return img
}

// Save writes the map as a grayscale image. The format follows the extension.
func (h *Heightmap) Save(path string, maxHeight float32) error {
	if err := imaging.Save(h.Image(maxHeight), path); err != nil {
		return fmt.Errorf("saving heightmap: %w", err)
	}
	return nil
}
