package debug

import (
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func TestFromGLFlipsRows(t *testing.T) {
	// Two rows, bottom row red and top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	img, err := FromGL(pixels, 2, 2)
	if err != nil {
		t.Fatalf("FromGL() error = %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("top-left = %v, want blue", got)
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("bottom-right = %v, want red", got)
	}
}

func TestFromGLSizeMismatch(t *testing.T) {
	if _, err := FromGL(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected an error for a short buffer")
	}
	if _, err := FromGL(nil, 0, 0); err == nil {
		t.Error("expected an error for an empty image")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "sculpt")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	pixels := []byte{
		10, 20, 30, 255,
		40, 50, 60, 255,
	}
	name, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels() error = %v", err)
	}
	if filepath.Dir(name) != dir || !strings.HasPrefix(filepath.Base(name), "sculpt_2024-05-01_12-30-00") {
		t.Errorf("file name = %s", name)
	}

	saved, err := imaging.Open(name)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	r, g, b, _ := saved.At(0, 0).RGBA()
	if r>>8 != 40 || g>>8 != 50 || b>>8 != 60 {
		t.Errorf("top pixel = %d,%d,%d, want the last GL row", r>>8, g>>8, b>>8)
	}
}
