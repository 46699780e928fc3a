package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used for streamed and snapshot frames.
const DefaultJPEGQuality = 80

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	return encode(img, imaging.PNG)
}

// EncodeJPEG encodes an image to JPEG bytes at the given quality (1-100).
// Errors are ignored and may return an empty slice.
func EncodeJPEG(img image.Image, quality int) []byte {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return encode(img, imaging.JPEG, imaging.JPEGQuality(quality))
}

func encode(img image.Image, format imaging.Format, opts ...imaging.EncodeOption) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, format, opts...)
	return buf.Bytes()
}

// ScaleToFit scales src so that it fits within maxW x maxH preserving aspect
// ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, max(maxW, 1), max(maxH, 1), imaging.Box)
}

// Placeholder returns an opaque black frame shown while no capture is available.
func Placeholder(w, h int) image.Image {
	return imaging.New(max(w, 1), max(h, 1), image.Black.C)
}
