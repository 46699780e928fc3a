package device

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"

	"github.com/soocke/frontcam-go/domain/capture"
)

// DefaultScreenFPS paces screen grabs.
const DefaultScreenFPS = 10

// screenBackend treats the primary display as a front-facing camera. Useful
// on machines without a webcam.
type screenBackend struct {
	logger   *slog.Logger
	interval time.Duration
}

// NewScreenBackend returns a backend grabbing the screen at fps.
func NewScreenBackend(logger *slog.Logger, fps int) capture.Backend {
	if fps <= 0 {
		fps = DefaultScreenFPS
	}
	return &screenBackend{logger: logger, interval: time.Second / time.Duration(fps)}
}

func (b *screenBackend) Name() string { return "screen" }

func (b *screenBackend) Devices() []capture.DeviceInfo {
	return []capture.DeviceInfo{{ID: "screen0", Label: "Primary display", Facing: capture.FacingFront}}
}

type screenInput struct {
	dev  capture.DeviceInfo
	rect image.Rectangle
}

func (in *screenInput) Device() capture.DeviceInfo { return in.dev }
func (in *screenInput) Close() error               { return nil }

func (b *screenBackend) OpenInput(dev capture.DeviceInfo, settings capture.OutputSettings) (capture.Input, error) {
	rect, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screen rect: %w", err)
	}
	if rect.Empty() {
		return nil, fmt.Errorf("screen rect empty: %v", rect)
	}
	return &screenInput{dev: dev, rect: rect}, nil
}

func (b *screenBackend) OpenOutput(in capture.Input, settings capture.OutputSettings) (capture.Output, error) {
	if _, ok := in.(*screenInput); !ok {
		return nil, fmt.Errorf("input %T does not belong to the screen backend", in)
	}
	return &screenOutput{
		logger:   b.logger,
		ticker:   time.NewTicker(b.interval),
		done:     make(chan struct{}),
		settings: settings,
		conn:     newSoftConnection(),
	}, nil
}

type screenOutput struct {
	logger   *slog.Logger
	ticker   *time.Ticker
	done     chan struct{}
	closed   atomic.Bool
	settings capture.OutputSettings
	conn     *softConnection
}

// ReadBuffer waits for the next tick; missed ticks are discarded by the
// ticker, which matches the discard-late-frames policy.
func (o *screenOutput) ReadBuffer() (capture.PixelBuffer, error) {
	select {
	case <-o.done:
		return nil, errOutputClosed
	case <-o.ticker.C:
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		o.logger.Debug("capture screen", "error", err)
		return nil, nil
	}
	var frame image.Image = img
	if w, h := o.settings.Width, o.settings.Height; w > 0 && h > 0 {
		b := img.Bounds()
		if b.Dx() > w || b.Dy() > h {
			frame = imaging.Fit(img, w, h, imaging.Box)
		}
	}
	return newImageBuffer(frame, nil, o.conn, true), nil
}

func (o *screenOutput) Connection() capture.Connection { return o.conn }

func (o *screenOutput) Close() error {
	if o.closed.CompareAndSwap(false, true) {
		o.ticker.Stop()
		close(o.done)
	}
	return nil
}
