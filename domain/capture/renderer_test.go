package capture

import (
	"image"
	"image/color"
	"testing"
)

func rowStriped(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(y * 10), uint8(x), 0, 255})
		}
	}
	return img
}

func TestRenderer_FlipsRowsAndKeepsSize(t *testing.T) {
	src := rowStriped(5, 4)
	out := NewRenderer(DefaultRenderOptions()).Render(src)
	if out.Bounds().Dx() != 5 || out.Bounds().Dy() != 4 {
		t.Fatalf("size=%v want 5x4", out.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			got := out.NRGBAAt(x, y)
			want := src.RGBAAt(x, 3-y)
			if got.R != want.R || got.G != want.G {
				t.Fatalf("pixel (%d,%d)=%v want %v", x, y, got, want)
			}
		}
	}
	if src.RGBAAt(0, 0).R != 0 {
		t.Fatal("source image modified")
	}
}

func TestRenderer_NoFlipCopies(t *testing.T) {
	src := rowStriped(3, 3)
	out := NewRenderer(RenderOptions{}).Render(src)
	if out.NRGBAAt(1, 2).R != src.RGBAAt(1, 2).R {
		t.Fatal("unflipped render changed row order")
	}
}

func TestRenderer_FitsWithinMaximum(t *testing.T) {
	out := NewRenderer(RenderOptions{FlipVertical: true, MaxWidth: 32, MaxHeight: 32}).Render(rowStriped(64, 48))
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 24 {
		t.Fatalf("size=%v want 32x24", out.Bounds())
	}
	small := NewRenderer(RenderOptions{MaxWidth: 32, MaxHeight: 32}).Render(rowStriped(8, 8))
	if small.Bounds().Dx() != 8 {
		t.Fatalf("small image resized to %v", small.Bounds())
	}
}

func TestRenderer_NilImagePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil image")
		}
	}()
	NewRenderer(DefaultRenderOptions()).Render(nil)
}
