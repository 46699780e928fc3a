package device

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/soocke/frontcam-go/domain/capture"
)

// DefaultPatternFPS paces the synthetic pattern.
const DefaultPatternFPS = 15

// patternBackend generates a moving test pattern. It offers one front and one
// back device so facing selection can be exercised without hardware.
type patternBackend struct {
	interval time.Duration
}

// NewPatternBackend returns a synthetic backend delivering fps frames per
// second.
func NewPatternBackend(fps int) capture.Backend {
	if fps <= 0 {
		fps = DefaultPatternFPS
	}
	return &patternBackend{interval: time.Second / time.Duration(fps)}
}

func (b *patternBackend) Name() string { return "pattern" }

func (b *patternBackend) Devices() []capture.DeviceInfo {
	return []capture.DeviceInfo{
		{ID: "pattern-front", Label: "Test pattern (front)", Facing: capture.FacingFront},
		{ID: "pattern-back", Label: "Test pattern (back)", Facing: capture.FacingBack},
	}
}

type patternInput struct {
	dev capture.DeviceInfo
}

func (in *patternInput) Device() capture.DeviceInfo { return in.dev }
func (in *patternInput) Close() error               { return nil }

func (b *patternBackend) OpenInput(dev capture.DeviceInfo, settings capture.OutputSettings) (capture.Input, error) {
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, fmt.Errorf("invalid pattern size %dx%d", settings.Width, settings.Height)
	}
	return &patternInput{dev: dev}, nil
}

func (b *patternBackend) OpenOutput(in capture.Input, settings capture.OutputSettings) (capture.Output, error) {
	pi, ok := in.(*patternInput)
	if !ok {
		return nil, fmt.Errorf("input %T does not belong to the pattern backend", in)
	}
	return &patternOutput{
		back:   pi.dev.Facing == capture.FacingBack,
		width:  settings.Width,
		height: settings.Height,
		ticker: time.NewTicker(b.interval),
		done:   make(chan struct{}),
		conn:   newSoftConnection(),
	}, nil
}

type patternOutput struct {
	back          bool
	width, height int
	ticker        *time.Ticker
	done          chan struct{}
	closed        atomic.Bool
	frame         atomic.Uint64
	conn          *softConnection
}

func (o *patternOutput) ReadBuffer() (capture.PixelBuffer, error) {
	select {
	case <-o.done:
		return nil, errOutputClosed
	case <-o.ticker.C:
	}
	n := o.frame.Add(1)
	return newImageBuffer(renderPattern(o.width, o.height, n, o.back), nil, o.conn, true), nil
}

func (o *patternOutput) Connection() capture.Connection { return o.conn }

func (o *patternOutput) Close() error {
	if o.closed.CompareAndSwap(false, true) {
		o.ticker.Stop()
		close(o.done)
	}
	return nil
}

// renderPattern draws a gradient with a bar that moves one column per
// frame. Rows are written bottom-up, the way many sensors deliver them.
func renderPattern(w, h int, n uint64, back bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bar := int(n % uint64(w))
	var blue uint8
	if back {
		blue = 160
	}
	for y := 0; y < h; y++ {
		row := h - 1 - y
		shade := uint8(row * 255 / max(h-1, 1))
		for x := 0; x < w; x++ {
			c := color.RGBA{shade, uint8(x * 255 / max(w-1, 1)), blue, 255}
			if x >= bar && x < bar+4 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
