package animation

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/frameplay/pkg/utils"
)

// ImageSource resolves a symbolic frame name to a decoded image. Resolve must
// return an error when the name is unknown; it must never return (nil, nil).
type ImageSource interface {
	Resolve(name string) (*ebiten.Image, error)
}

// MapSource is the trivial ImageSource backed by an in-memory map.
type MapSource map[string]*ebiten.Image

// Resolve returns the image registered under name.
func (m MapSource) Resolve(name string) (*ebiten.Image, error) {
	img, ok := m[name]
	if !ok || img == nil {
		return nil, fmt.Errorf("frame image %q not found", name)
	}
	return img, nil
}

// Transformer is the image-processing capability used during materialization.
// All methods are pure: they return new images and never mutate their inputs.
type Transformer interface {
	// Scale resizes img to w×h pixels.
	Scale(img *ebiten.Image, w, h int) *ebiten.Image
	// Flip mirrors img along the requested axes.
	Flip(img *ebiten.Image, flipX, flipY bool) *ebiten.Image
	// Rotate turns img counter-clockwise by the given degrees, growing the
	// bounds to fit.
	Rotate(img *ebiten.Image, degrees float64) *ebiten.Image
}

// defaultTransformer implements Transformer on the GeoM helpers in pkg/utils.
type defaultTransformer struct{}

func (defaultTransformer) Scale(img *ebiten.Image, w, h int) *ebiten.Image {
	return utils.ScaleImage(img, w, h)
}

func (defaultTransformer) Flip(img *ebiten.Image, flipX, flipY bool) *ebiten.Image {
	return utils.FlipImage(img, flipX, flipY)
}

func (defaultTransformer) Rotate(img *ebiten.Image, degrees float64) *ebiten.Image {
	return utils.RotateImage(img, degrees)
}
