package animation

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Config describes a Player. Exactly one of Frames and Images must be set;
// the choice fixes the player's materialization path for its whole lifetime.
type Config struct {
	// Frames maps each state name to an ordered list of symbolic frame
	// names, resolved through Source.
	Frames map[string][]string

	// Images maps each state name to an ordered list of ready-made frames.
	Images map[string][]*ebiten.Image

	// Durations holds the seconds-per-frame of every state. Its key set
	// must exactly match the key set of the frame mapping.
	Durations map[string]float64

	// Mode is the initial playback mode. The zero value is ModeLoop.
	Mode PlayMode

	// Scale is the initial output size. The zero value keeps native size.
	Scale Scale

	// InitialState selects the state activated at construction. When empty
	// the lexicographically first declared state is used.
	InitialState string

	// MaxCacheSize bounds the frame cache. Zero selects
	// DefaultMaxCacheSize; values below MinCacheSize are rejected.
	MaxCacheSize int

	// Source resolves symbolic frame names. Required with Frames, ignored
	// with Images.
	Source ImageSource

	// Transformer overrides the scale/flip/rotate capability. Optional.
	Transformer Transformer

	// Logger overrides the default standard-library logger. Optional.
	Logger Logger
}

// Player is a frame-based sprite animation player. It owns a playback state
// machine and an LRU cache of transformed frames, advances through frames as
// Update accumulates time, and always holds a displayable image once
// constructed.
//
// Update, Draw, Release and the callback registration methods must be driven
// by one goroutine (the game loop); the frame cache underneath tolerates
// concurrent access from other goroutines such as prefetchers.
type Player struct {
	mu     sync.Mutex
	frames frameSet
	states *stateManager
	cache  *frameCache
	xform  Transformer
	log    Logger

	placeholder *ebiten.Image

	scale     Scale
	flip      Flip
	angle     float64
	lastScale Scale
	lastFlip  Flip

	image    *ebiten.Image
	bounds   image.Rectangle
	released bool
}

// NewPlayer validates cfg and builds a Player. The initial state is activated
// and its first frame materialized, so the player is drawable immediately.
// For named frames every distinct name is resolved once here, keeping
// decoding off the per-tick path.
func NewPlayer(cfg Config) (*Player, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = StdLogger{}
	}
	xform := cfg.Transformer
	if xform == nil {
		xform = defaultTransformer{}
	}

	counts, err := validateConfig(&cfg)
	if err != nil {
		return nil, err
	}

	maxCache := cfg.MaxCacheSize
	if maxCache == 0 {
		maxCache = DefaultMaxCacheSize
	}

	placeholder := newPlaceholderImage()

	p := &Player{
		xform:       xform,
		log:         logger,
		placeholder: placeholder,
		scale:       cfg.Scale,
		lastScale:   cfg.Scale,
	}

	if cfg.Images != nil {
		process := func(name string, _ Scale, _ Flip) (*ebiten.Image, error) {
			return nil, fmt.Errorf("player holds direct images; no symbolic frame %q", name)
		}
		p.cache = newFrameCache(maxCache, process, placeholder, logger)
		p.frames = &directFrames{images: cfg.Images, xform: xform}
	} else {
		source := cfg.Source
		process := func(name string, scale Scale, flip Flip) (*ebiten.Image, error) {
			img, err := source.Resolve(name)
			if err != nil {
				return nil, err
			}
			if img == nil {
				return nil, fmt.Errorf("source returned no image for %q", name)
			}
			return transformFrame(img, xform, scale, flip, 0), nil
		}
		p.cache = newFrameCache(maxCache, process, placeholder, logger)
		p.frames = &namedFrames{
			names:       cfg.Frames,
			cache:       p.cache,
			xform:       xform,
			placeholder: placeholder,
		}
	}

	p.states = newStateManager(counts, cfg.Durations, cfg.Mode, logger)

	initial := cfg.InitialState
	if initial == "" {
		initial = p.states.order[0]
	}
	p.states.current = initial

	p.materialize()
	return p, nil
}

// NewSimplePlayer builds a direct-image player with one uniform duration for
// every state.
func NewSimplePlayer(images map[string][]*ebiten.Image, secondsPerFrame float64, mode PlayMode) (*Player, error) {
	durations := make(map[string]float64, len(images))
	for state := range images {
		durations[state] = secondsPerFrame
	}
	return NewPlayer(Config{
		Images:    images,
		Durations: durations,
		Mode:      mode,
	})
}

// validateConfig checks every construction invariant and returns the
// per-state frame counts on success.
func validateConfig(cfg *Config) (map[string]int, error) {
	if cfg.Frames != nil && cfg.Images != nil {
		return nil, fmt.Errorf("%w: set exactly one of Frames and Images", ErrInvalidConfig)
	}

	counts := make(map[string]int)
	switch {
	case cfg.Images != nil:
		for state, frames := range cfg.Images {
			counts[state] = len(frames)
		}
	case cfg.Frames != nil:
		for state, frames := range cfg.Frames {
			counts[state] = len(frames)
		}
	default:
		return nil, fmt.Errorf("%w: set exactly one of Frames and Images", ErrInvalidConfig)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: frames must not be empty", ErrInvalidConfig)
	}

	if diff := keyDifference(counts, cfg.Durations); len(diff) > 0 {
		return nil, fmt.Errorf("%w: states definition incomplete, missing: %v", ErrInvalidConfig, diff)
	}

	states := make([]string, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		if state == "" {
			return nil, fmt.Errorf("%w: state names must not be empty", ErrInvalidConfig)
		}
		if counts[state] == 0 {
			return nil, fmt.Errorf("%w: frames[%q] must not be empty", ErrInvalidConfig, state)
		}
		if d := cfg.Durations[state]; d <= 0 {
			return nil, fmt.Errorf("%w: duration for state %q must be positive, got %v", ErrInvalidConfig, state, d)
		}
	}

	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayMode, int(cfg.Mode))
	}
	if cfg.Scale.W < 0 || cfg.Scale.H < 0 {
		return nil, fmt.Errorf("%w: scale must not be negative", ErrInvalidConfig)
	}
	if cfg.MaxCacheSize != 0 && cfg.MaxCacheSize < MinCacheSize {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrCacheSize, cfg.MaxCacheSize, MinCacheSize)
	}
	if cfg.InitialState != "" {
		if _, ok := counts[cfg.InitialState]; !ok {
			return nil, fmt.Errorf("%w: initial state %q is not declared", ErrInvalidConfig, cfg.InitialState)
		}
	}

	if cfg.Images != nil {
		for _, state := range states {
			for i, img := range cfg.Images[state] {
				if img == nil {
					return nil, fmt.Errorf("%w: frames[%q][%d] is nil", ErrInvalidConfig, state, i)
				}
			}
		}
		return counts, nil
	}

	if cfg.Source == nil {
		return nil, fmt.Errorf("%w: Source is required with named frames", ErrInvalidConfig)
	}
	// Resolve every distinct name now so decoding happens at construction,
	// never on the per-tick path.
	for _, state := range states {
		for i, name := range cfg.Frames[state] {
			if name == "" {
				return nil, fmt.Errorf("%w: frames[%q][%d] is empty", ErrInvalidConfig, state, i)
			}
			if _, err := cfg.Source.Resolve(name); err != nil {
				return nil, fmt.Errorf("%w: cannot resolve frame %q for state %q: %v", ErrInvalidConfig, name, state, err)
			}
		}
	}
	return counts, nil
}

// keyDifference returns the sorted symmetric difference of the two key sets.
func keyDifference(counts map[string]int, durations map[string]float64) []string {
	var diff []string
	for state := range counts {
		if _, ok := durations[state]; !ok {
			diff = append(diff, state)
		}
	}
	for state := range durations {
		if _, ok := counts[state]; !ok {
			diff = append(diff, state)
		}
	}
	sort.Strings(diff)
	return diff
}

func newPlaceholderImage() *ebiten.Image {
	img := ebiten.NewImage(placeholderSize, placeholderSize)
	img.Fill(color.RGBA{R: 0xff, A: 0xff})
	return img
}

// Update advances the animation by dt seconds and applies the ambient
// transform for this tick. It is a no-op while idle or released.
//
// The critical section is minimal: threshold check and index mutation only.
// Materialization and callback dispatch run outside the lock, and a frame
// image is re-materialized when the frame index moved or when the
// caller-visible scale or flip changed since the previous call. A changed
// angle alone does not re-materialize; it is picked up by the next
// materialization.
func (p *Player) Update(dt float64, flip Flip, scale Scale, angle float64) {
	p.mu.Lock()
	if p.released || p.states.current == "" {
		p.mu.Unlock()
		return
	}
	p.flip = flip
	p.scale = scale
	p.angle = normalizeAngle(angle)

	p.states.elapsed += dt
	var res advanceResult
	if p.states.elapsed >= p.states.durations[p.states.current] {
		p.states.elapsed = 0
		res = p.states.advance()
	}

	rematerialize := res.frameChanged
	if scale != p.lastScale || flip != p.lastFlip {
		p.lastScale = scale
		p.lastFlip = flip
		rematerialize = true
	}
	p.mu.Unlock()

	if rematerialize {
		p.materialize()
	}
	if res.completed {
		p.states.dispatchComplete()
	}
	if res.frameChanged {
		p.states.dispatchFrameChange(res.frameIndex)
	}
}

// materialize produces the display image for the current cursor and swaps it
// in, preserving the bounds center. Any failure is logged and substituted
// with the placeholder so the player never loses its displayable image.
func (p *Player) materialize() {
	p.mu.Lock()
	if p.released || p.states.current == "" {
		p.mu.Unlock()
		return
	}
	state, index := p.states.current, p.states.frameIndex
	scale, flip, angle := p.scale, p.flip, p.angle
	p.mu.Unlock()

	img, err := p.frames.materialize(state, index, scale, flip, angle)
	if err != nil {
		p.log.Errorf("update image failed: %v", err)
		img = p.placeholder
	}

	p.mu.Lock()
	old := p.bounds
	p.image = img
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if old.Empty() {
		p.bounds = image.Rect(0, 0, w, h)
	} else {
		cx := old.Min.X + old.Dx()/2
		cy := old.Min.Y + old.Dy()/2
		p.bounds = image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
	}
	p.mu.Unlock()
}

// Draw blits the current image at its bounds.
func (p *Player) Draw(screen *ebiten.Image) error {
	p.mu.Lock()
	img, bounds := p.image, p.bounds
	p.mu.Unlock()
	if img == nil || bounds.Empty() {
		return fmt.Errorf("%w: no image materialized", ErrNotReady)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(bounds.Min.X), float64(bounds.Min.Y))
	screen.DrawImage(img, op)
	return nil
}

// SetState switches to a declared state. Switching to the active state is a
// no-op; any actual change re-materializes the image and fires the
// state-change callbacks. With resetFrame the cursor restarts at frame zero,
// otherwise it is kept (clamped into the new state's range).
func (p *Player) SetState(state string, resetFrame bool) error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return ErrReleased
	}
	changed, err := p.states.setState(state, resetFrame)
	p.mu.Unlock()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	p.log.Debugf("state changed to %q", state)
	p.materialize()
	p.states.dispatchStateChange(state)
	return nil
}

// Pause stops playback, preserving the frame index and accumulated time.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.released {
		p.states.pause()
	}
	p.mu.Unlock()
}

// Resume continues the state that was active when Pause was called, without
// resetting the frame index. On a player that never played it activates the
// first declared state.
func (p *Player) Resume() {
	p.mu.Lock()
	if !p.released {
		p.states.resume()
	}
	p.mu.Unlock()
}

// Rewind resets the frame index and accumulated time, keeping the state.
func (p *Player) Rewind() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	changed := p.states.frameIndex != 0
	p.states.rewind()
	p.mu.Unlock()
	if changed {
		p.materialize()
	}
}

// SetPlayMode switches the playback mode mid-flight.
func (p *Player) SetPlayMode(mode PlayMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	return p.states.setPlayMode(mode)
}

// PlayMode returns the active playback mode.
func (p *Player) PlayMode() PlayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states.mode
}

// State returns the active state name, or "" while paused or released.
func (p *Player) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states.current
}

// IsPlaying reports whether a state is active.
func (p *Player) IsPlaying() bool {
	return p.State() != ""
}

// FrameIndex returns the current frame index.
func (p *Player) FrameIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states.frameIndex
}

// States returns the declared state names in sorted order.
func (p *Player) States() []string {
	out := make([]string, len(p.states.order))
	copy(out, p.states.order)
	return out
}

// Image returns the currently displayed image, or nil after release.
func (p *Player) Image() *ebiten.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.image
}

// Bounds returns the display bounding box.
func (p *Player) Bounds() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds
}

// SetPosition moves the bounds so their top-left corner lands on (x, y).
func (p *Player) SetPosition(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bounds = image.Rect(x, y, x+p.bounds.Dx(), y+p.bounds.Dy())
}

// SetCenter moves the bounds so their center lands on (x, y).
func (p *Player) SetCenter(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h := p.bounds.Dx(), p.bounds.Dy()
	p.bounds = image.Rect(x-w/2, y-h/2, x-w/2+w, y-h/2+h)
}

// Frame materializes the frame at (state, index) with the current ambient
// transform, without touching the playback cursor.
func (p *Player) Frame(state string, index int) (*ebiten.Image, error) {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return nil, ErrReleased
	}
	scale, flip, angle := p.scale, p.flip, p.angle
	p.mu.Unlock()
	return p.frames.materialize(state, index, scale, flip, angle)
}

// OnComplete registers a completion observer. Observers run in registration
// order; a panicking observer is logged and does not stop the others.
// Registration must happen on the goroutine driving Update.
func (p *Player) OnComplete(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || fn == nil {
		p.log.Warnf("ignoring completion callback registration")
		return
	}
	p.states.onComplete = append(p.states.onComplete, fn)
}

// OnFrameChange registers an observer of actual frame-index changes.
func (p *Player) OnFrameChange(fn func(frameIndex int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || fn == nil {
		p.log.Warnf("ignoring frame change callback registration")
		return
	}
	p.states.onFrameChange = append(p.states.onFrameChange, fn)
}

// OnStateChange registers an observer of state switches.
func (p *Player) OnStateChange(fn func(state string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || fn == nil {
		p.log.Warnf("ignoring state change callback registration")
		return
	}
	p.states.onStateChange = append(p.states.onStateChange, fn)
}

// ClearCache empties the frame cache.
func (p *Player) ClearCache() {
	p.cache.Clear()
}

// SetMaxCacheSize adjusts the cache capacity at runtime. Sizes below
// MinCacheSize are rejected; shrinking evicts the oldest entries.
func (p *Player) SetMaxCacheSize(size int) error {
	return p.cache.Resize(size)
}

// CacheInfo returns a snapshot of the cache occupancy.
func (p *Player) CacheInfo() CacheInfo {
	return p.cache.Info()
}

// DrawDebugInfo prints state, frame index, cache occupancy and play mode on
// screen starting at (x, y).
func (p *Player) DrawDebugInfo(screen *ebiten.Image, x, y int) {
	p.mu.Lock()
	state := p.states.current
	index := p.states.frameIndex
	mode := p.states.mode
	p.mu.Unlock()
	if state == "" {
		state = "none"
	}
	info := p.cache.Info()

	lines := []string{
		fmt.Sprintf("State: %s", state),
		fmt.Sprintf("Frame: %d", index),
		fmt.Sprintf("Cache: %d/%d", info.Size, info.MaxSize),
		fmt.Sprintf("Mode: %s", mode),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y+i*debugLineHeight)
	}
}

// Release frees the player's resources: playback stops, callbacks are
// dropped, cached and displayed images are scrubbed. The first call returns
// true, later calls are safe no-ops returning false. The released flag is
// set even when a step fails, so the player can never get stuck
// half-released; the failure is logged and returned.
func (p *Player) Release() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		p.log.Infof("resources already released (skipped)")
		return false, nil
	}
	defer func() { p.released = true }()

	if err := p.releaseOnce(); err != nil {
		p.log.Errorf("resource release failed: %v", err)
		return true, err
	}
	return true, nil
}

func (p *Player) releaseOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("release panicked: %v", r)
		}
	}()
	p.states.release()
	p.cache.Release(p.image)
	p.image = nil
	p.bounds = image.Rectangle{}
	return nil
}
