package codec

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestLetterboxWideSource(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	out := Letterbox(solid(320, 160, white), 160)

	if out.Bounds().Dx() != 160 || out.Bounds().Dy() != 160 {
		t.Fatalf("canvas = %v, want 160x160", out.Bounds())
	}
	// 320x160 scaled by min(160/320, 160/160)=0.5 -> 160x80 centered:
	// rows 40..119 are content, the rest background.
	if got := out.NRGBAAt(80, 80); got != white {
		t.Errorf("center pixel = %v, want white", got)
	}
	if got := out.NRGBAAt(80, 10); got != canvasFill {
		t.Errorf("top band pixel = %v, want background", got)
	}
	if got := out.NRGBAAt(80, 150); got != canvasFill {
		t.Errorf("bottom band pixel = %v, want background", got)
	}
}

func TestLetterboxTallSource(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	out := Letterbox(solid(100, 200, white), 160)

	// Scale 0.8 -> 80x160 centered: columns 40..119 are content.
	if got := out.NRGBAAt(80, 80); got != white {
		t.Errorf("center pixel = %v, want white", got)
	}
	if got := out.NRGBAAt(10, 80); got != canvasFill {
		t.Errorf("left band pixel = %v, want background", got)
	}
	if got := out.NRGBAAt(150, 80); got != canvasFill {
		t.Errorf("right band pixel = %v, want background", got)
	}
}

func TestLetterboxNilSource(t *testing.T) {
	out := Letterbox(nil, 64)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Fatalf("canvas = %v, want 64x64", out.Bounds())
	}
	if got := out.NRGBAAt(32, 32); got != canvasFill {
		t.Errorf("pixel = %v, want background", got)
	}
}

func TestLetterboxIdenticalGeometryForStillAndMotion(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	still := Letterbox(solid(640, 480, white), 160)
	frame := Letterbox(solid(640, 480, white), 160)
	for _, p := range []image.Point{{0, 0}, {80, 10}, {80, 80}, {159, 159}} {
		if still.NRGBAAt(p.X, p.Y) != frame.NRGBAAt(p.X, p.Y) {
			t.Errorf("pixel %v differs between still and motion scaling", p)
		}
	}
}
