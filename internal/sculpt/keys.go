package sculpt

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

const (
	// radiusStep scales the radius per bracket press.
	radiusStep      = 0.9
	innerRadiusStep = 0.1
	minInnerRadius  = 0.1
)

var modeKeys = map[Key]Mode{
	KeyD: ModeDraw,
	KeyL: ModeLevel,
	KeyA: ModeAdd,
	KeyS: ModeSubtract,
	KeyP: ModeSlope,
	KeyM: ModeSmooth,
	KeyR: ModeRamp,
}

// Key handles a hotkey press.
func (o *Operator) Key(ev KeyEvent) Status {
	s := o.settings

	if mode, ok := modeKeys[ev.Key]; ok {
		s.Mode = mode
		o.log.Debug("brush mode", zap.Stringer("mode", mode))
		return StatusRunning
	}

	switch ev.Key {
	case KeyRightBracket, KeyPageUp:
		if ev.Mods.Shift() {
			s.InnerRadius = math.Clamp(s.InnerRadius+innerRadiusStep, 0, 1)
		} else {
			s.Radius /= radiusStep
		}
	case KeyLeftBracket, KeyPageDown:
		if ev.Mods.Shift() {
			s.InnerRadius = max(s.InnerRadius-innerRadiusStep, minInnerRadius)
		} else {
			s.Radius *= radiusStep
		}
	case KeyUp:
		s.DrawHeight += s.Radius / 4
	case KeyDown:
		s.DrawHeight -= s.Radius / 4
	case KeyZ:
		if !ev.Mods.Ctrl() {
			return StatusRunning
		}
		if ev.Mods.Shift() {
			o.Redo()
		} else {
			o.Undo()
		}
	case KeyEnter:
		return o.Finish()
	case KeyEscape:
		return o.Cancel()
	default:
		return StatusPassThrough
	}
	return StatusRunning
}
