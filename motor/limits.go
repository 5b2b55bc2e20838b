package motor

import "golang.org/x/exp/constraints"

// Limits are optional software travel bounds on the raw count
// position. A nil bound is unset. They exist purely in logic; nothing
// physical stops the stage.
type Limits struct {
	Upper *int64
	Lower *int64
}

// Clamp caps delta so that current+delta does not pass the bound for
// the direction of travel. The full delta passes when the relevant
// bound is unset. A position already beyond the bound clamps to a move
// back onto it.
func (l Limits) Clamp(current, delta int64) int64 {
	switch {
	case delta > 0 && l.Upper != nil:
		if room := *l.Upper - current; delta > room {
			return room
		}
	case delta < 0 && l.Lower != nil:
		if room := *l.Lower - current; delta < room {
			return room
		}
	}
	return delta
}

// AtLimit reports whether current sits at or beyond a configured bound.
func (l Limits) AtLimit(current int64) bool {
	if l.Lower != nil && current <= *l.Lower {
		return true
	}
	if l.Upper != nil && current >= *l.Upper {
		return true
	}
	return false
}

func abs[T constraints.Signed](val T) T {
	if val < 0 {
		return -val
	}
	return val
}
