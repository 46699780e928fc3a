//go:build gocv

package device

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"github.com/soocke/frontcam-go/domain/capture"
)

// gocvMaxProbe bounds device index probing.
const gocvMaxProbe = 4

func init() {
	Register("gocv", func(l *slog.Logger) (capture.Backend, error) { return NewGocvBackend(l), nil })
}

// gocvBackend captures through OpenCV. Index 0 is assumed front-facing and
// higher indices back-facing; OpenCV exposes no labels to infer from.
type gocvBackend struct {
	logger *slog.Logger
}

// NewGocvBackend returns the OpenCV backend.
func NewGocvBackend(logger *slog.Logger) capture.Backend {
	return &gocvBackend{logger: logger}
}

func (b *gocvBackend) Name() string { return "gocv" }

func (b *gocvBackend) Devices() []capture.DeviceInfo {
	var out []capture.DeviceInfo
	for i := 0; i < gocvMaxProbe; i++ {
		vc, err := gocv.OpenVideoCapture(i)
		if err != nil {
			continue
		}
		ok := vc.IsOpened()
		_ = vc.Close()
		if !ok {
			continue
		}
		facing := capture.FacingBack
		if i == 0 {
			facing = capture.FacingFront
		}
		out = append(out, capture.DeviceInfo{ID: strconv.Itoa(i), Label: fmt.Sprintf("OpenCV device %d", i), Facing: facing})
	}
	return out
}

type gocvInput struct {
	dev    capture.DeviceInfo
	webcam *gocv.VideoCapture
	mu     sync.Mutex
}

func (in *gocvInput) Device() capture.DeviceInfo { return in.dev }

func (in *gocvInput) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.webcam == nil {
		return nil
	}
	err := in.webcam.Close()
	in.webcam = nil
	return err
}

func (b *gocvBackend) OpenInput(dev capture.DeviceInfo, settings capture.OutputSettings) (capture.Input, error) {
	idx, err := strconv.Atoi(dev.ID)
	if err != nil {
		return nil, fmt.Errorf("device id %q: %w", dev.ID, err)
	}
	webcam, err := gocv.VideoCaptureDevice(idx)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", idx, err)
	}
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(settings.Width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(settings.Height))
	if settings.DiscardLateFrames {
		webcam.Set(gocv.VideoCaptureBufferSize, 1)
	}
	return &gocvInput{dev: dev, webcam: webcam}, nil
}

func (b *gocvBackend) OpenOutput(in capture.Input, settings capture.OutputSettings) (capture.Output, error) {
	gi, ok := in.(*gocvInput)
	if !ok {
		return nil, fmt.Errorf("input %T does not belong to the gocv backend", in)
	}
	return &gocvOutput{input: gi, mat: gocv.NewMat(), conn: newSoftConnection()}, nil
}

type gocvOutput struct {
	input *gocvInput
	mu    sync.Mutex
	mat   gocv.Mat
	conn  *softConnection
	done  bool
}

func (o *gocvOutput) ReadBuffer() (capture.PixelBuffer, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil, errOutputClosed
	}
	o.input.mu.Lock()
	webcam := o.input.webcam
	o.input.mu.Unlock()
	if webcam == nil {
		return nil, errOutputClosed
	}
	if ok := webcam.Read(&o.mat); !ok || o.mat.Empty() {
		return nil, nil
	}
	img, err := o.mat.ToImage()
	if err != nil {
		return nil, err
	}
	_, owned := img.(*image.RGBA)
	return newImageBuffer(img, nil, o.conn, owned), nil
}

func (o *gocvOutput) Connection() capture.Connection { return o.conn }

func (o *gocvOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil
	}
	o.done = true
	return o.mat.Close()
}
