package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// RenderOptions control the frame-to-bitmap transform.
type RenderOptions struct {
	// FlipVertical compensates for sensors that deliver rows bottom-up.
	FlipVertical bool
	// MaxWidth and MaxHeight, when both positive, shrink the output to fit
	// while preserving aspect ratio. Zero keeps source dimensions.
	MaxWidth  int
	MaxHeight int
}

// DefaultRenderOptions flips vertically and keeps source dimensions.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{FlipVertical: true}
}

// Renderer turns decoded frames into displayable bitmaps. It holds no state
// between calls.
type Renderer struct {
	opts RenderOptions
}

func NewRenderer(opts RenderOptions) *Renderer {
	return &Renderer{opts: opts}
}

// Render produces a new bitmap from img; img is never modified. Calling
// Render with a nil image is a programming error.
func (r *Renderer) Render(img image.Image) *image.NRGBA {
	if img == nil {
		panic("capture: Render called with nil image")
	}
	var out *image.NRGBA
	if r.opts.FlipVertical {
		out = imaging.FlipV(img)
	} else {
		out = imaging.Clone(img)
	}
	if r.opts.MaxWidth > 0 && r.opts.MaxHeight > 0 {
		b := out.Bounds()
		if b.Dx() > r.opts.MaxWidth || b.Dy() > r.opts.MaxHeight {
			out = imaging.Fit(out, r.opts.MaxWidth, r.opts.MaxHeight, imaging.Linear)
		}
	}
	return out
}
