package codec

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// canvasFill is the neutral background behind letterboxed frames.
var canvasFill = color.NRGBA{R: 16, G: 16, B: 16, A: 255}

// Letterbox scales src onto a square canvas of the given edge length,
// preserving aspect ratio: uniform scale = min(target/srcW, target/srcH),
// centered, with the surrounding area filled with the neutral background.
// Stills and motion frames go through this same path so the hover
// transition is pixel-identical in geometry.
func Letterbox(src image.Image, size int) *image.NRGBA {
	if size <= 0 {
		size = 1
	}
	canvas := imaging.New(size, size, canvasFill)
	if src == nil {
		return canvas
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return canvas
	}
	fitted := imaging.Fit(src, size, size, imaging.Lanczos)
	return imaging.PasteCenter(canvas, fitted)
}
