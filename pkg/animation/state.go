package animation

import (
	"fmt"
	"sort"
)

// stateManager owns the playback cursor: current state, frame index,
// accumulated time, play mode and ping-pong direction, plus the three
// callback registries. It holds no lock of its own; the owning Player
// serializes access to the cursor, and the registries are touched by the
// owning goroutine only.
type stateManager struct {
	order     []string
	counts    map[string]int
	durations map[string]float64

	mode        PlayMode
	current     string
	previous    string
	frameIndex  int
	elapsed     float64
	pingpongDir int

	onComplete    []func()
	onFrameChange []func(int)
	onStateChange []func(string)

	log Logger
}

// advanceResult reports what one frame-advance did, so the player can
// materialize and dispatch callbacks outside its critical section.
type advanceResult struct {
	frameChanged bool
	frameIndex   int
	completed    bool
}

func newStateManager(counts map[string]int, durations map[string]float64, mode PlayMode, log Logger) *stateManager {
	order := make([]string, 0, len(counts))
	for name := range counts {
		order = append(order, name)
	}
	sort.Strings(order)
	return &stateManager{
		order:       order,
		counts:      counts,
		durations:   durations,
		mode:        mode,
		pingpongDir: 1,
		log:         log,
	}
}

// setState switches the active state. It reports whether anything changed so
// the caller can fire the state-change registry; switching to the state that
// is already active is a silent no-op. Without resetFrame the frame index is
// kept but clamped into the new state's range.
func (s *stateManager) setState(state string, resetFrame bool) (bool, error) {
	if _, ok := s.counts[state]; !ok {
		return false, fmt.Errorf("%w: %q (available: %v)", ErrUnknownState, state, s.order)
	}
	if state == s.current {
		return false, nil
	}
	s.current = state
	if resetFrame {
		s.frameIndex = 0
		s.elapsed = 0
	} else if last := s.counts[state] - 1; s.frameIndex > last {
		s.frameIndex = last
	}
	return true, nil
}

// pause clears the active-state marker. Frame index and accumulated time are
// preserved so re-entering the state continues where it stopped.
func (s *stateManager) pause() {
	if s.current != "" {
		s.previous = s.current
		s.current = ""
	}
}

// resume re-activates the state that was active when pause was called, or
// the first declared state when nothing was ever active. The frame index is
// not reset.
func (s *stateManager) resume() {
	if s.current != "" || len(s.order) == 0 {
		return
	}
	if s.previous != "" {
		s.current = s.previous
		return
	}
	s.current = s.order[0]
}

// rewind resets the frame index and accumulated time without changing state.
func (s *stateManager) rewind() {
	s.frameIndex = 0
	s.elapsed = 0
}

func (s *stateManager) setPlayMode(mode PlayMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayMode, int(mode))
	}
	s.mode = mode
	return nil
}

// advance moves the frame index one step according to the play mode. It is
// called once per crossed duration boundary, with the accumulator already
// reset; any excess beyond one frame duration has been dropped by the caller.
func (s *stateManager) advance() advanceResult {
	count := s.counts[s.current]
	prev := s.frameIndex
	completed := false

	switch s.mode {
	case ModePingPong:
		next := s.frameIndex + s.pingpongDir
		if next < 0 || next >= count {
			s.pingpongDir = -s.pingpongDir
			next += s.pingpongDir * 2
			if next < 0 {
				next = 0
			}
			if next > count-1 {
				next = count - 1
			}
			completed = true
		}
		s.frameIndex = next
	case ModeOnce:
		s.frameIndex++
		if s.frameIndex >= count {
			s.frameIndex = count - 1
			completed = true
			s.pause()
		}
	default: // ModeLoop
		s.frameIndex = (s.frameIndex + 1) % count
	}

	return advanceResult{
		frameChanged: s.frameIndex != prev,
		frameIndex:   s.frameIndex,
		completed:    completed,
	}
}

// release stops playback and drops every registered callback.
func (s *stateManager) release() {
	s.pause()
	s.previous = ""
	s.onComplete = nil
	s.onFrameChange = nil
	s.onStateChange = nil
}

// dispatchComplete runs the completion registry. A panicking observer is
// logged and the remaining observers still run.
func (s *stateManager) dispatchComplete() {
	for _, cb := range s.onComplete {
		s.safeCall("completion", cb)
	}
}

func (s *stateManager) dispatchFrameChange(index int) {
	for _, cb := range s.onFrameChange {
		s.safeCall("frame change", func() { cb(index) })
	}
}

func (s *stateManager) dispatchStateChange(state string) {
	for _, cb := range s.onStateChange {
		s.safeCall("state change", func() { cb(state) })
	}
}

func (s *stateManager) safeCall(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s callback failed: %v", kind, r)
		}
	}()
	fn()
}
