// Package input converts SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

// Event is one processed input event.
type Event struct {
	Type EventType
	Key  sdl.Keycode
	Mods sculpt.Modifiers

	Width, Height int

	MouseX, MouseY float32
	// DeltaX and DeltaY are the relative motion of a move event.
	DeltaX, DeltaY float32
	Button         uint8
	Wheel          float32
	// Pressure is 1 for a plain mouse, or the pen pressure reported by touch
	// events while a pen is down.
	Pressure float32
}

// Input collects the events of one frame.
type Input struct {
	events   []Event
	pressure float32
	penDown  bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		pressure: 1,
	}
}

// Update polls SDL events. It returns true when the window should close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Sym,
					Mods: Modifiers(sdl.Keymod(e.Keysym.Mod)),
				})
			}

		case *sdl.TouchFingerEvent:
			switch e.Type {
			case sdl.FINGERDOWN, sdl.FINGERMOTION:
				i.penDown = true
				i.pressure = e.Pressure
			case sdl.FINGERUP:
				i.penDown = false
				i.pressure = 1
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:     EventMouseMove,
				MouseX:   float32(e.X),
				MouseY:   float32(e.Y),
				DeltaX:   float32(e.XRel),
				DeltaY:   float32(e.YRel),
				Mods:     Modifiers(sdl.GetModState()),
				Pressure: i.currentPressure(),
			})

		case *sdl.MouseButtonEvent:
			typ := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:     typ,
				MouseX:   float32(e.X),
				MouseY:   float32(e.Y),
				Button:   e.Button,
				Mods:     Modifiers(sdl.GetModState()),
				Pressure: i.currentPressure(),
			})

		case *sdl.MouseWheelEvent:
			wheel := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			i.events = append(i.events, Event{Type: EventWheel, Wheel: wheel})
		}
	}
	return false
}

func (i *Input) currentPressure() float32 {
	if i.penDown {
		return i.pressure
	}
	return 1
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Modifiers maps SDL modifier state to sculpt modifiers. Cmd counts as Ctrl.
func Modifiers(mod sdl.Keymod) sculpt.Modifiers {
	var m sculpt.Modifiers
	if mod&sdl.KMOD_SHIFT != 0 {
		m |= sculpt.ModShift
	}
	if mod&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0 {
		m |= sculpt.ModCtrl
	}
	return m
}

var sculptKeys = map[sdl.Keycode]sculpt.Key{
	sdl.K_d:            sculpt.KeyD,
	sdl.K_l:            sculpt.KeyL,
	sdl.K_a:            sculpt.KeyA,
	sdl.K_s:            sculpt.KeyS,
	sdl.K_p:            sculpt.KeyP,
	sdl.K_m:            sculpt.KeyM,
	sdl.K_r:            sculpt.KeyR,
	sdl.K_z:            sculpt.KeyZ,
	sdl.K_RIGHTBRACKET: sculpt.KeyRightBracket,
	sdl.K_LEFTBRACKET:  sculpt.KeyLeftBracket,
	sdl.K_PAGEUP:       sculpt.KeyPageUp,
	sdl.K_PAGEDOWN:     sculpt.KeyPageDown,
	sdl.K_UP:           sculpt.KeyUp,
	sdl.K_DOWN:         sculpt.KeyDown,
	sdl.K_RETURN:       sculpt.KeyEnter,
	sdl.K_KP_ENTER:     sculpt.KeyEnter,
	sdl.K_ESCAPE:       sculpt.KeyEscape,
}

// SculptKey maps an SDL keycode to an operator hotkey.
func SculptKey(k sdl.Keycode) sculpt.Key {
	if key, ok := sculptKeys[k]; ok {
		return key
	}
	return sculpt.KeyUnknown
}
