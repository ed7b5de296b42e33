package animation

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/frameplay/pkg/utils"
)

// frameSet is the frame-storage variant of a player, fixed at construction:
// either ready-made images or symbolic names resolved through an ImageSource.
// Keeping the two materialization paths behind one internal interface removes
// the "wrong mode" usage-error class entirely; there is no public symbolic
// accessor to misuse.
type frameSet interface {
	// materialize produces the display image for (state, index) under the
	// given transform. Implementations never return (nil, nil).
	materialize(state string, index int, scale Scale, flip Flip, angle float64) (*ebiten.Image, error)
}

// directFrames holds ready-made images per state. Every materialization works
// on a copy so the caller-owned frames are never mutated or scrubbed.
type directFrames struct {
	images map[string][]*ebiten.Image
	xform  Transformer
}

func (d *directFrames) materialize(state string, index int, scale Scale, flip Flip, angle float64) (*ebiten.Image, error) {
	frames, ok := d.images[state]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	if index < 0 || index >= len(frames) {
		return nil, fmt.Errorf("%w: %d (state %q has %d frames)", ErrFrameIndex, index, state, len(frames))
	}
	return transformFrame(frames[index], d.xform, scale, flip, angle), nil
}

// namedFrames holds symbolic names per state and materializes through the
// LRU cache, which stores the scaled+flipped pixels. Rotation is applied on
// top of the cached image: the cache key carries no angle, and rotating the
// cached instance in place would poison it.
type namedFrames struct {
	names       map[string][]string
	cache       *frameCache
	xform       Transformer
	placeholder *ebiten.Image
}

func (n *namedFrames) materialize(state string, index int, scale Scale, flip Flip, angle float64) (*ebiten.Image, error) {
	frames, ok := n.names[state]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	if index < 0 || index >= len(frames) {
		return nil, fmt.Errorf("%w: %d (state %q has %d frames)", ErrFrameIndex, index, state, len(frames))
	}
	img := n.cache.Get(frames[index], scale, flip)
	if img == n.placeholder {
		// Processing failed; show the placeholder as-is.
		return img, nil
	}
	if normalizeAngle(angle) != 0 {
		img = n.xform.Rotate(img, angle)
	}
	return img, nil
}

// transformFrame applies scale, flip and rotation in that fixed order. The
// order matters: scaling after rotation would change the size of the
// axis-aligned bounds. The input is never returned directly, so the result
// is always safe for the player to own.
func transformFrame(img *ebiten.Image, xform Transformer, scale Scale, flip Flip, angle float64) *ebiten.Image {
	out := img
	applied := false
	if scale.W > 0 && scale.H > 0 {
		b := out.Bounds()
		if scale.W != b.Dx() || scale.H != b.Dy() {
			out = xform.Scale(out, scale.W, scale.H)
			applied = true
		}
	}
	if flip.Any() {
		out = xform.Flip(out, flip.X, flip.Y)
		applied = true
	}
	if normalizeAngle(angle) != 0 {
		out = xform.Rotate(out, angle)
		applied = true
	}
	if !applied {
		out = utils.CloneImage(out)
	}
	return out
}
