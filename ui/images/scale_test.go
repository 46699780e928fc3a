package images

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestScaleToFit_PreservesAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	out := ScaleToFit(src, 320, 320)
	if out.Bounds().Dx() != 320 || out.Bounds().Dy() != 240 {
		t.Fatalf("scaled to %v", out.Bounds())
	}
	if ScaleToFit(src, 800, 600) != image.Image(src) {
		t.Fatal("fitting image was scaled")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatal("nil input should return nil")
	}
}

func TestEncode_RoundTripsFormats(t *testing.T) {
	img := Placeholder(8, 6)
	p, err := png.Decode(bytes.NewReader(EncodePNG(img)))
	if err != nil || p.Bounds().Dx() != 8 {
		t.Fatalf("png decode: %v", err)
	}
	j, err := jpeg.Decode(bytes.NewReader(EncodeJPEG(img, 0)))
	if err != nil || j.Bounds().Dy() != 6 {
		t.Fatalf("jpeg decode: %v", err)
	}
	if EncodePNG(nil) != nil {
		t.Fatal("nil image produced bytes")
	}
}
