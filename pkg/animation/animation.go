// Package animation implements a frame-based sprite animation player for
// Ebitengine: named playback states backed by ordered frame sequences, three
// playback modes (loop/once/pingpong), lifecycle callbacks, and an LRU cache
// of transformed frames keyed by (frame name, scale, flip).
package animation

import (
	"fmt"
	"math"
)

// PlayMode selects the frame-index transition policy at a duration boundary.
type PlayMode int

const (
	// ModeLoop wraps the frame index back to zero after the last frame.
	ModeLoop PlayMode = iota
	// ModeOnce clamps at the last frame, fires completion once, then pauses.
	ModeOnce
	// ModePingPong bounces between the first and last frame, firing
	// completion at every direction reversal.
	ModePingPong
)

// String returns the mode name used in configuration files.
func (m PlayMode) String() string {
	switch m {
	case ModeLoop:
		return "loop"
	case ModeOnce:
		return "once"
	case ModePingPong:
		return "pingpong"
	}
	return fmt.Sprintf("PlayMode(%d)", int(m))
}

// Valid reports whether m is one of the three defined modes.
func (m PlayMode) Valid() bool {
	return m == ModeLoop || m == ModeOnce || m == ModePingPong
}

// ParsePlayMode converts a configuration string ("loop", "once", "pingpong")
// into a PlayMode.
func ParsePlayMode(s string) (PlayMode, error) {
	switch s {
	case "loop":
		return ModeLoop, nil
	case "once":
		return ModeOnce, nil
	case "pingpong":
		return ModePingPong, nil
	}
	return ModeLoop, fmt.Errorf("%w: %q (want loop, once or pingpong)", ErrInvalidPlayMode, s)
}

// Flip is a horizontal/vertical mirror pair applied to frames.
type Flip struct {
	X bool
	Y bool
}

// Any reports whether at least one axis is mirrored.
func (f Flip) Any() bool {
	return f.X || f.Y
}

// Scale is the output size in pixels applied to frames. The zero value keeps
// the frame's native size.
type Scale struct {
	W int
	H int
}

// IsZero reports whether s keeps the native frame size.
func (s Scale) IsZero() bool {
	return s.W == 0 && s.H == 0
}

const (
	// DefaultMaxCacheSize is the cache capacity used when Config.MaxCacheSize
	// is left zero.
	DefaultMaxCacheSize = 200
	// MinCacheSize is the lowest accepted cache capacity.
	MinCacheSize = 10

	placeholderSize = 32
	sampleKeyCount  = 3
	debugLineHeight = 16
)

// normalizeAngle maps an angle in degrees into [0, 360).
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}
