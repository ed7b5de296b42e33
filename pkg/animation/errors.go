package animation

import "errors"

// Error kinds surfaced by this package. Configuration and usage failures wrap
// one of these sentinels so callers can classify them with errors.Is;
// transient resource failures and observer failures are absorbed internally
// and only logged.
var (
	// ErrInvalidConfig marks construction-time configuration failures:
	// mismatched state/duration keys, empty frame lists, missing sources.
	ErrInvalidConfig = errors.New("animation: invalid configuration")

	// ErrInvalidPlayMode marks an unknown playback mode.
	ErrInvalidPlayMode = errors.New("animation: invalid play mode")

	// ErrUnknownState is returned when a state name was never declared.
	ErrUnknownState = errors.New("animation: unknown state")

	// ErrFrameIndex is returned by low-level accessors for an out-of-range
	// frame index.
	ErrFrameIndex = errors.New("animation: frame index out of range")

	// ErrCacheSize is returned when a cache capacity below MinCacheSize is
	// requested.
	ErrCacheSize = errors.New("animation: cache size below minimum")

	// ErrNotReady is returned by Draw before any image has been materialized.
	ErrNotReady = errors.New("animation: player not ready")

	// ErrReleased is returned by operations on a released player.
	ErrReleased = errors.New("animation: player released")
)
