package sculpt

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Mode selects how a dab changes vertex heights.
type Mode int

const (
	ModeDraw Mode = iota
	ModeAdd
	ModeSubtract
	ModeLevel
	ModeSlope
	ModeSmooth
	ModeRamp
)

var modeNames = [...]string{"draw", "add", "subtract", "level", "slope", "smooth", "ramp"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name (case insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeDraw, fmt.Errorf("unknown brush mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid brush mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// WorldShape selects the gravity model.
type WorldShape int

const (
	// ShapeFlat pulls along -Z.
	ShapeFlat WorldShape = iota
	// ShapeSphere pulls toward the terrain origin.
	ShapeSphere
)

func (w WorldShape) String() string {
	switch w {
	case ShapeFlat:
		return "flat"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("WorldShape(%d)", int(w))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (w WorldShape) MarshalText() ([]byte, error) {
	switch w {
	case ShapeFlat, ShapeSphere:
		return []byte(w.String()), nil
	default:
		return nil, fmt.Errorf("invalid world shape %d", int(w))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WorldShape) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "flat":
		*w = ShapeFlat
	case "sphere":
		*w = ShapeSphere
	default:
		return fmt.Errorf("unknown world shape %q", string(b))
	}
	return nil
}

// BrushSettings holds every user-tunable brush parameter.
type BrushSettings struct {
	Radius             float32    `yaml:"radius" toml:"radius"`
	InnerRadius        float32    `yaml:"inner_radius" toml:"inner_radius"`
	Strength           float32    `yaml:"strength" toml:"strength"`
	RampStrength       float32    `yaml:"ramp_strength" toml:"ramp_strength"`
	UsePressure        bool       `yaml:"use_pressure" toml:"use_pressure"`
	Mode               Mode       `yaml:"mode" toml:"mode"`
	WorldShape         WorldShape `yaml:"world_shape" toml:"world_shape"`
	DrawHeight         float32    `yaml:"draw_height" toml:"draw_height"`
	AddAmount          float32    `yaml:"add_amount" toml:"add_amount"`
	SmoothSnapDistance float32    `yaml:"smooth_snap_distance" toml:"smooth_snap_distance"`
	RampWidth          float32    `yaml:"ramp_width" toml:"ramp_width"`
	RampFalloff        float32    `yaml:"ramp_falloff" toml:"ramp_falloff"`
	// TerrainOrigin is the point heights are measured from; nil is the world origin.
	TerrainOrigin *math.Vec3 `yaml:"terrain_origin,omitempty" toml:"terrain_origin,omitempty"`
}

// DefaultBrushSettings returns the settings a new session starts with.
func DefaultBrushSettings() BrushSettings {
	return BrushSettings{
		Radius:             1,
		InnerRadius:        0,
		Strength:           1,
		RampStrength:       1,
		Mode:               ModeDraw,
		WorldShape:         ShapeFlat,
		DrawHeight:         1,
		AddAmount:          1,
		SmoothSnapDistance: 0.001,
		RampWidth:          1,
		RampFalloff:        0.2,
	}
}

// Origin returns the terrain origin, defaulting to the world origin.
func (s *BrushSettings) Origin() math.Vec3 {
	if s.TerrainOrigin == nil {
		return math.Vec3{}
	}
	return *s.TerrainOrigin
}

// Validate reports every violated constraint.
func (s *BrushSettings) Validate() error {
	var err error
	if s.Radius <= 0 {
		err = multierr.Append(err, fmt.Errorf("radius must be positive, got %g", s.Radius))
	}
	if s.InnerRadius < 0 || s.InnerRadius > 1 {
		err = multierr.Append(err, fmt.Errorf("inner_radius must be in [0,1], got %g", s.InnerRadius))
	}
	if s.Strength < 0 {
		err = multierr.Append(err, fmt.Errorf("strength must not be negative, got %g", s.Strength))
	}
	if s.RampStrength < 0 {
		err = multierr.Append(err, fmt.Errorf("ramp_strength must not be negative, got %g", s.RampStrength))
	}
	if s.Mode < ModeDraw || s.Mode > ModeRamp {
		err = multierr.Append(err, fmt.Errorf("invalid mode %d", int(s.Mode)))
	}
	if s.WorldShape != ShapeFlat && s.WorldShape != ShapeSphere {
		err = multierr.Append(err, fmt.Errorf("invalid world_shape %d", int(s.WorldShape)))
	}
	if s.SmoothSnapDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("smooth_snap_distance must not be negative, got %g", s.SmoothSnapDistance))
	}
	if s.RampWidth < 0 {
		err = multierr.Append(err, fmt.Errorf("ramp_width must not be negative, got %g", s.RampWidth))
	}
	if s.RampFalloff < 0 || s.RampFalloff > 1 {
		err = multierr.Append(err, fmt.Errorf("ramp_falloff must be in [0,1], got %g", s.RampFalloff))
	}
	if s.TerrainOrigin != nil && !s.TerrainOrigin.IsFinite() {
		err = multierr.Append(err, fmt.Errorf("terrain_origin must be finite"))
	}
	return err
}
