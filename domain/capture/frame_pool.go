package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"
)

// Decoded frames are copied out of the pixel buffer because the driver
// recycles the buffer as soon as the handler returns, while rendering may
// happen later on the main thread. The copies come from a pool so steady
// state capture does not allocate a fresh backing slice per frame.
//
// Buffers whose image is already a private allocation (OwnedPixelBuffer)
// skip the copy and are never returned to the pool.

var framePool sync.Pool // stores *image.RGBA

var errEmptyFrame = errors.New("capture: empty frame")

// Frame is a decoded image scoped to a single dispatch.
type Frame struct {
	Image      *image.RGBA
	CapturedAt time.Time
	pooled     bool
}

// Recycle returns a pooled frame's pixels for reuse. The frame must not be
// accessed afterwards.
func (f *Frame) Recycle() {
	if f == nil || !f.pooled {
		return
	}
	recycleFrame(f.Image)
	f.Image = nil
}

// DecodeBuffer locks buf and converts its pixels into an RGBA frame.
func DecodeBuffer(buf PixelBuffer) (*Frame, error) {
	if buf == nil {
		return nil, errEmptyFrame
	}
	img, err := buf.Lock()
	if err != nil {
		return nil, fmt.Errorf("capture: lock buffer: %w", err)
	}
	defer buf.Unlock()
	if img == nil || img.Bounds().Empty() {
		return nil, errEmptyFrame
	}
	now := time.Now()

	if ob, ok := buf.(OwnedPixelBuffer); ok && ob.Owned() {
		if rgba := asRGBA(img); rgba != nil {
			return &Frame{Image: rgba, CapturedAt: now}, nil
		}
	}

	b := img.Bounds()
	dst := acquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.RGBA); ok {
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[so:so+rowLen])
		}
	} else {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return &Frame{Image: dst, CapturedAt: now, pooled: true}, nil
}

// asRGBA returns img as an RGBA image sharing its pixels, or nil. An opaque
// NRGBA image has the same byte layout as RGBA.
func asRGBA(img image.Image) *image.RGBA {
	switch m := img.(type) {
	case *image.RGBA:
		return m
	case *image.NRGBA:
		if m.Opaque() {
			return &image.RGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
		}
	}
	return nil
}

// acquireFrame returns a reusable RGBA image sized to rect. The returned Pix
// length exactly matches rect area * 4, and Stride is width*4.
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	} else {
		img.Stride = w * 4
		img.Rect = rect
		img.Pix = img.Pix[:needed]
	}
	return img
}

func recycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
