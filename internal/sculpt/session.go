package sculpt

import (
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// StrokeSession is the state captured when the pointer goes down. It lives
// until the pointer is released.
type StrokeSession struct {
	StartPoint  math.Vec3
	StartNormal math.Vec3
	// StartHeight is the signed height of StartPoint, used by Level.
	StartHeight float32
	Mode        Mode
	Dabs        int
}

// NewStrokeSession opens a stroke at the pick point.
func NewStrokeSession(pick PickResult, s *BrushSettings) *StrokeSession {
	_, h := DownVector(pick.Point, s.Origin(), s.WorldShape)
	return &StrokeSession{
		StartPoint:  pick.Point,
		StartNormal: pick.Normal,
		StartHeight: h,
		Mode:        s.Mode,
	}
}
