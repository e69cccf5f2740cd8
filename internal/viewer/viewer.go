// Package viewer runs the interactive sculpting window: it feeds SDL input to
// the sculpt operator and draws the terrain with the brush overlay.
package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/internal/config"
	"github.com/Faultbox/terrain-sculpt/internal/engine/camera"
	"github.com/Faultbox/terrain-sculpt/internal/engine/debug"
	"github.com/Faultbox/terrain-sculpt/internal/engine/input"
	"github.com/Faultbox/terrain-sculpt/internal/engine/picking"
	"github.com/Faultbox/terrain-sculpt/internal/engine/renderer"
	"github.com/Faultbox/terrain-sculpt/internal/engine/terrain"
	"github.com/Faultbox/terrain-sculpt/internal/engine/window"
	"github.com/Faultbox/terrain-sculpt/internal/logger"
	"github.com/Faultbox/terrain-sculpt/internal/scene"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

const title = "Terrain Sculpt"

var (
	ringColor   = renderer.Color{1, 0.85, 0.2, 1}
	innerColor  = renderer.Color{1, 0.5, 0.1, 1}
	pickerColor = renderer.Color{0.3, 0.9, 1, 1}
	rampColor   = renderer.Color{0.4, 1, 0.4, 1}
	lightDir    = math.Vec3{X: -0.4, Y: -0.3, Z: -1}
)

// Viewer is the sculpt application window.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture

	scene    *scene.Scene
	terrain  *scene.Object
	brush    sculpt.BrushSettings
	operator *sculpt.Operator

	// reloads delivers config changes; nil when no file is watched.
	reloads <-chan *config.Config

	orbiting  bool
	panning   bool
	lastTitle string
}

// New opens the window and builds the demo terrain.
func New(cfg *config.Config, reloads <-chan *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		reloads: reloads,
		brush:   cfg.Brush,
		input:   input.New(),
		camera:  camera.NewOrbitCamera(),
		shots:   debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "sculpt"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.buildScene(); err != nil {
		v.Close()
		return nil, err
	}
	v.operator = sculpt.NewOperator(v.scene, &v.brush, cfg.History.Capacity, logger.Named("sculpt"))
	if err := v.operator.Begin(); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to start sculpting: %w", err)
	}

	v.log.Info("viewer initialized",
		zap.Int("vertices", v.terrain.Mesh.NumVertices()),
		zap.Stringer("mode", v.brush.Mode),
		zap.Stringer("world", v.brush.WorldShape))
	return v, nil
}

// buildScene creates one selected grid. In a sphere world the grid floats
// above the terrain origin so that heights are radii.
func (v *Viewer) buildScene() error {
	v.scene = scene.New()
	grid := scene.NewGrid(v.cfg.Viewer.GridSize, v.cfg.Viewer.GridSegments)
	if path := v.cfg.Viewer.Heightmap; path != "" {
		hm, err := terrain.Load(path, v.cfg.Viewer.HeightScale)
		if err != nil {
			return err
		}
		if err := hm.ApplyToGrid(grid, v.cfg.Viewer.GridSegments); err != nil {
			return fmt.Errorf("heightmap %s: %w", path, err)
		}
		v.log.Info("heightmap loaded", zap.String("path", path), zap.Int("width", hm.Width), zap.Int("height", hm.Height))
	}
	v.terrain = v.scene.Add(scene.NewObject("terrain", grid))
	if v.brush.WorldShape == sculpt.ShapeSphere {
		o := v.brush.Origin()
		v.terrain.Transform = math.Translate(o.X, o.Y, o.Z+v.cfg.Viewer.GridSize)
	}
	v.scene.SelectOnly(v.terrain)
	v.fitCamera()
	return nil
}

func (v *Viewer) fitCamera() {
	box := picking.TransformAABB(v.terrain.Mesh.LocalBounds(), v.terrain.Transform).Bounds()
	v.camera.FitToBounds(box)
}

// Run runs the main loop until the window closes or the session ends.
func (v *Viewer) Run() error {
	v.running = true

	var frameBudget time.Duration
	if v.cfg.Viewer.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Viewer.FPSLimit)
	}
	frames := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")
	for v.running {
		start := time.Now()

		if v.input.Update() {
			v.running = false
			break
		}
		for _, ev := range v.input.Events() {
			v.handle(ev)
		}
		v.applyReloads()
		v.updateTitle()

		v.render()
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.DrawableSize())

	case input.EventKeyDown:
		v.handleKey(ev)

	case input.EventMouseDown:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			if p, ok := v.pointer(ev); ok {
				v.operator.PointerDown(p)
			}
		case sdl.BUTTON_RIGHT:
			v.orbiting = true
		case sdl.BUTTON_MIDDLE:
			v.panning = true
		}

	case input.EventMouseUp:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			if p, ok := v.pointer(ev); ok {
				v.operator.PointerUp(p)
			}
		case sdl.BUTTON_RIGHT:
			v.orbiting = false
		case sdl.BUTTON_MIDDLE:
			v.panning = false
		}

	case input.EventMouseMove:
		switch {
		case v.orbiting:
			v.camera.HandleDrag(ev.DeltaX, ev.DeltaY)
		case v.panning:
			v.camera.HandlePan(ev.DeltaX, ev.DeltaY)
		default:
			if p, ok := v.pointer(ev); ok {
				v.operator.PointerMove(p)
			}
		}

	case input.EventWheel:
		v.camera.HandleZoom(ev.Wheel)
	}
}

func (v *Viewer) handleKey(ev input.Event) {
	status := v.operator.Key(sculpt.KeyEvent{Key: input.SculptKey(ev.Key), Mods: ev.Mods})
	switch status {
	case sculpt.StatusFinished, sculpt.StatusCancelled:
		v.log.Info("sculpt session ended", zap.Stringer("status", status))
		v.running = false
	case sculpt.StatusPassThrough:
		switch ev.Key {
		case sdl.K_F12:
			v.screenshot()
		case sdl.K_F2:
			v.exportHeightmap()
		case sdl.K_f:
			v.fitCamera()
		}
	}
}

// pointer turns a mouse event into a sculpt pointer event. Mouse coordinates
// are in window units, so the window size is used for the ray.
func (v *Viewer) pointer(ev input.Event) (sculpt.PointerEvent, bool) {
	w, h := v.window.Size()
	ray, ok := v.camera.Ray(ev.MouseX, ev.MouseY, w, h)
	if !ok {
		return sculpt.PointerEvent{}, false
	}
	return sculpt.PointerEvent{Ray: ray, Pressure: ev.Pressure, Mods: ev.Mods}, true
}

// applyReloads takes the newest config from the watcher, if any. Brush
// settings are replaced; hotkey tweaks since the last reload are lost.
func (v *Viewer) applyReloads() {
	if v.reloads == nil {
		return
	}
	select {
	case cfg, ok := <-v.reloads:
		if !ok {
			v.reloads = nil
			return
		}
		v.operator.SetSettings(cfg.Brush)
		v.log.Info("brush settings reloaded",
			zap.Stringer("mode", cfg.Brush.Mode),
			zap.Float32("radius", cfg.Brush.Radius))
	default:
	}
}

func (v *Viewer) updateTitle() {
	s := v.operator.Settings()
	t := fmt.Sprintf("%s | %s  r=%.2f  inner=%.2f  height=%.2f  undo=%d",
		title, s.Mode, s.Radius, s.InnerRadius, s.DrawHeight, v.operator.HistoryLen())
	if t != v.lastTitle {
		v.window.SetTitle(t)
		v.lastTitle = t
	}
}

func (v *Viewer) render() {
	w, h := v.window.DrawableSize()
	vp := v.camera.ViewProjection(w, h)

	v.renderer.Begin()
	v.renderer.DrawScene(v.scene.Objects(), vp, lightDir)

	c := v.operator.Cursor()
	switch {
	case c.Picker:
		v.renderer.DrawLines(debug.Ring(c.Position, c.Normal, c.Radius*0.1, debug.RingSegments), pickerColor, vp)
	case c.Visible:
		v.renderer.DrawLines(debug.Ring(c.Position, c.Normal, c.Radius, debug.RingSegments), ringColor, vp)
		if c.InnerRadius > 0 {
			v.renderer.DrawLines(debug.Ring(c.Position, c.Normal, c.Radius*c.InnerRadius, debug.RingSegments), innerColor, vp)
		}
	}
	if c.Ramp != nil {
		down, _ := sculpt.DownVector(c.Ramp.Start, v.brush.Origin(), v.brush.WorldShape)
		v.renderer.DrawLines(debug.Quad(c.Ramp.Start, c.Ramp.End, down.Neg(), c.Ramp.Width), rampColor, vp)
	}
}

// exportHeightmap writes the sculpted grid next to the screenshots.
func (v *Viewer) exportHeightmap() {
	hm, err := terrain.Capture(v.terrain.Mesh, v.cfg.Viewer.GridSegments)
	if err != nil {
		v.log.Error("heightmap export failed", zap.Error(err))
		return
	}
	dir := v.cfg.Viewer.ScreenshotDir
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			v.log.Error("heightmap export failed", zap.Error(err))
			return
		}
	}
	path := filepath.Join(dir, "heightmap.png")
	if err := hm.Save(path, v.cfg.Viewer.HeightScale); err != nil {
		v.log.Error("heightmap export failed", zap.Error(err))
		return
	}
	v.log.Info("heightmap saved", zap.String("file", path))
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}
