package utils

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ScaleImage resizes an image to the given pixel size using GPU-side GeoM
// scaling. It is the scale step of the player's materialization pipeline and
// is also reusable on its own.
//
// Parameters:
//   - img: The source image (never mutated)
//   - w, h: Target size in pixels
//
// Returns:
//   - A new w×h ebiten.Image with the scaled pixels
//   - A plain copy when the target size is not positive (graceful degradation)
//
// Usage Example:
//
//	thumb := utils.ScaleImage(frame, 64, 64)
func ScaleImage(img *ebiten.Image, w, h int) *ebiten.Image {
	if img == nil {
		return nil
	}
	if w <= 0 || h <= 0 {
		return CloneImage(img)
	}

	bounds := img.Bounds()
	scaled := ebiten.NewImage(w, h)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(w)/float64(bounds.Dx()),
		float64(h)/float64(bounds.Dy()),
	)
	scaled.DrawImage(img, op)

	return scaled
}

// FlipImage mirrors an image along the requested axes.
//
// Parameters:
//   - img: The source image (never mutated)
//   - flipX: Mirror horizontally (left/right)
//   - flipY: Mirror vertically (top/bottom)
//
// Returns:
//   - A new image of the same size with the mirrored pixels
//   - A plain copy when both flags are false
func FlipImage(img *ebiten.Image, flipX, flipY bool) *ebiten.Image {
	if img == nil {
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	flipped := ebiten.NewImage(w, h)

	op := &ebiten.DrawImageOptions{}
	sx, sy := 1.0, 1.0
	if flipX {
		sx = -1
	}
	if flipY {
		sy = -1
	}
	op.GeoM.Scale(sx, sy)
	if flipX {
		op.GeoM.Translate(float64(w), 0)
	}
	if flipY {
		op.GeoM.Translate(0, float64(h))
	}
	flipped.DrawImage(img, op)

	return flipped
}

// RotateImage turns an image counter-clockwise by the given degrees. The
// result grows to the axis-aligned bounds of the rotated source, so no pixel
// is clipped; the source center stays at the result center.
//
// Parameters:
//   - img: The source image (never mutated)
//   - degrees: Rotation angle; positive turns counter-clockwise
//
// Returns:
//   - A new image containing the rotated pixels
//   - A plain copy when the angle is a multiple of 360
func RotateImage(img *ebiten.Image, degrees float64) *ebiten.Image {
	if img == nil {
		return nil
	}
	if math.Mod(degrees, 360) == 0 {
		return CloneImage(img)
	}

	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	rad := degrees * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	newW := int(math.Ceil(w*cos + h*sin))
	newH := int(math.Ceil(w*sin + h*cos))

	rotated := ebiten.NewImage(newW, newH)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	// Screen coordinates grow downwards, so a negative GeoM angle turns
	// counter-clockwise on screen.
	op.GeoM.Rotate(-rad)
	op.GeoM.Translate(float64(newW)/2, float64(newH)/2)
	rotated.DrawImage(img, op)

	return rotated
}

// CloneImage returns an independent copy of an image. The copy shares no
// pixel memory with the source, so scrubbing or drawing on one never affects
// the other.
func CloneImage(img *ebiten.Image) *ebiten.Image {
	if img == nil {
		return nil
	}
	return ebiten.NewImageFromImage(img)
}

// CropImage extracts a rectangular region from an image.
//
// The returned image is a view sharing pixels with the source (SubImage);
// wrap it in CloneImage when an independent copy is needed.
//
// Usage Example (cutting one cell out of a sprite sheet):
//
//	frame := utils.CropImage(sheet, image.Rect(0, 0, 32, 32))
func CropImage(img *ebiten.Image, rect image.Rectangle) *ebiten.Image {
	if img == nil {
		return nil
	}
	return img.SubImage(rect).(*ebiten.Image)
}
