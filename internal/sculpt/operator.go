package sculpt

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/internal/history"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Status tells the host what the operator did with an event.
type Status int

const (
	StatusRunning Status = iota
	StatusFinished
	StatusCancelled
	// StatusPassThrough leaves the event to the host (camera navigation etc).
	StatusPassThrough
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	case StatusPassThrough:
		return "pass-through"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// sessionBookmark holds the state from before the operator started.
const sessionBookmark = 0

// MeshState is a copy of one mesh's local vertex positions.
type MeshState struct {
	Positions []math.Vec3
}

// Snapshot maps meshes to their saved vertex positions.
type Snapshot map[MeshID]MeshState

// RampPreview is the ramp footprint while a ramp stroke is being dragged.
type RampPreview struct {
	Start math.Vec3
	End   math.Vec3
	Width float32
}

// Cursor is what the overlay draws under the pointer.
type Cursor struct {
	Visible bool
	// Picker is set while Ctrl turns the Draw brush into a height picker.
	Picker      bool
	Position    math.Vec3
	Normal      math.Vec3
	Radius      float32
	InnerRadius float32
	Ramp        *RampPreview
}

// Operator is the interactive sculpting tool. It is not safe for concurrent use.
type Operator struct {
	scene    Scene
	settings *BrushSettings
	engine   *Engine
	history  *history.Manager[int, Snapshot]
	log      *zap.Logger

	session *StrokeSession
	cursor  Cursor
	active  bool
}

// NewOperator creates an operator that edits the selected meshes of scene with
// the given settings. settings is shared with the caller and hotkeys write to it.
func NewOperator(scene Scene, settings *BrushSettings, historyCapacity int, log *zap.Logger) *Operator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Operator{
		scene:    scene,
		settings: settings,
		engine:   NewEngine(scene, log),
		history:  history.New[int, Snapshot](historyCapacity),
		log:      log,
	}
}

// Settings returns the live brush settings.
func (o *Operator) Settings() *BrushSettings {
	return o.settings
}

// SetSettings replaces the brush settings, e.g. after a config reload.
func (o *Operator) SetSettings(s BrushSettings) {
	*o.settings = s
}

// Cursor returns the overlay state.
func (o *Operator) Cursor() Cursor {
	c := o.cursor
	c.Radius = o.settings.Radius
	c.InnerRadius = o.settings.InnerRadius
	return c
}

// Dragging reports whether a stroke is in progress.
func (o *Operator) Dragging() bool {
	return o.session != nil
}

// Active reports whether Begin succeeded and the operator has not finished.
func (o *Operator) Active() bool {
	return o.active
}

// HistoryLen returns the number of undo entries.
func (o *Operator) HistoryLen() int {
	return o.history.Len()
}

// Begin starts a sculpting session. The selection is captured as the first
// undo entry and as the cancel bookmark.
func (o *Operator) Begin() error {
	if !o.scene.Is3DViewport() {
		o.log.Warn("sculpt operator needs a 3D viewport")
		return ErrNoViewport
	}
	o.history.Clear()
	snap := o.capture()
	if err := o.history.Snapshot(snap); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	if err := o.history.SetBookmark(sessionBookmark, snap); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	o.active = true
	o.log.Info("sculpt session started", zap.Int("meshes", len(snap)))
	return nil
}

// PointerDown starts a stroke, or samples a height when the picker is active.
func (o *Operator) PointerDown(ev PointerEvent) Status {
	pick := o.scene.RayCast(ev.Ray)
	if !pick.Editable() {
		return StatusRunning
	}

	if pickerActive(o.settings, ev.Mods) {
		if h, ok := PickHeight(pick, o.settings); ok {
			o.settings.DrawHeight = h
			o.log.Debug("draw height picked", zap.Float32("height", h))
		}
		return StatusRunning
	}

	o.session = NewStrokeSession(pick, o.settings)
	o.engine.ApplyDab(pick, o.settings, o.session, ev.Mods, ev.Pressure)
	o.session.Dabs++
	return StatusRunning
}

// PointerMove updates the cursor and dabs while a stroke is in progress.
func (o *Operator) PointerMove(ev PointerEvent) Status {
	pick := o.scene.RayCast(ev.Ray)

	o.cursor.Picker = pickerActive(o.settings, ev.Mods)
	o.cursor.Visible = pick.Hit && !o.cursor.Picker
	if pick.Hit {
		o.cursor.Position = pick.Point
		o.cursor.Normal = pick.Normal
	}
	if o.cursor.Picker {
		return StatusRunning
	}

	if o.session == nil {
		return StatusRunning
	}
	if o.session.Mode == ModeRamp {
		if pick.Hit {
			o.cursor.Ramp = &RampPreview{
				Start: o.session.StartPoint,
				End:   pick.Point,
				Width: o.settings.RampWidth,
			}
		}
		return StatusRunning
	}

	o.engine.ApplyDab(pick, o.settings, o.session, ev.Mods, ev.Pressure)
	o.session.Dabs++
	return StatusRunning
}

// PointerUp ends the stroke. Ramp strokes are applied here. The result is
// committed as a new undo entry.
func (o *Operator) PointerUp(ev PointerEvent) Status {
	if o.session == nil {
		return StatusRunning
	}
	session := o.session
	o.session = nil
	o.cursor.Ramp = nil

	if session.Mode == ModeRamp {
		pick := o.scene.RayCast(ev.Ray)
		o.engine.ApplyRamp(session.StartPoint, pick, o.settings)
	}

	if err := o.history.Snapshot(o.capture()); err != nil {
		o.log.Error("failed to record undo entry", zap.Error(err))
	}
	o.log.Debug("stroke finished",
		zap.Stringer("mode", session.Mode),
		zap.Int("dabs", session.Dabs),
		zap.Int("history", o.history.Len()))
	return StatusRunning
}

// Undo restores the previous undo entry.
func (o *Operator) Undo() bool {
	snap, ok := o.history.Undo()
	if !ok {
		return false
	}
	o.restore(snap)
	return true
}

// Redo restores the next undo entry.
func (o *Operator) Redo() bool {
	snap, ok := o.history.Redo()
	if !ok {
		return false
	}
	o.restore(snap)
	return true
}

// Finish keeps the edits and ends the session.
func (o *Operator) Finish() Status {
	o.history.Clear()
	o.session = nil
	o.active = false
	o.log.Info("sculpt session finished")
	return StatusFinished
}

// Cancel reverts every edit made since Begin and ends the session.
func (o *Operator) Cancel() Status {
	if snap, ok := o.history.Bookmark(sessionBookmark); ok {
		o.restore(snap)
	}
	o.history.Clear()
	o.session = nil
	o.active = false
	o.log.Info("sculpt session cancelled")
	return StatusCancelled
}

// capture copies the vertex positions of every selected mesh.
func (o *Operator) capture() Snapshot {
	meshes := o.scene.SelectedMeshes()
	snap := make(Snapshot, len(meshes))
	for _, m := range meshes {
		n := m.NumVertices()
		state := MeshState{Positions: make([]math.Vec3, n)}
		for i := 0; i < n; i++ {
			state.Positions[i] = m.Position(i)
		}
		snap[m.ID()] = state
	}
	return snap
}

// restore writes a snapshot back into the meshes it was taken from.
// Meshes that no longer exist or changed vertex count are skipped.
func (o *Operator) restore(snap Snapshot) {
	for id, state := range snap {
		m, ok := o.scene.MeshByID(id)
		if !ok {
			o.log.Warn("undo entry refers to a missing mesh", zap.Uint64("mesh", uint64(id)))
			continue
		}
		if m.NumVertices() != len(state.Positions) {
			o.log.Warn("undo entry does not match mesh topology",
				zap.Uint64("mesh", uint64(id)),
				zap.Int("saved", len(state.Positions)),
				zap.Int("current", m.NumVertices()))
			continue
		}
		for i, p := range state.Positions {
			m.SetPosition(i, p)
		}
		m.RecomputeNormals()
	}
}
