package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera" // registers the platform camera adapter
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	"github.com/soocke/frontcam-go/domain/capture"
)

var errOutputClosed = errors.New("device: output closed")

// cameraBackend captures from platform cameras through pion/mediadevices
// (V4L2 on Linux, AVFoundation on macOS).
type cameraBackend struct {
	logger *slog.Logger
}

// NewCameraBackend returns the mediadevices camera backend.
func NewCameraBackend(logger *slog.Logger) capture.Backend {
	return &cameraBackend{logger: logger}
}

func (b *cameraBackend) Name() string { return "camera" }

func (b *cameraBackend) Devices() []capture.DeviceInfo {
	var out []capture.DeviceInfo
	for _, d := range mediadevices.EnumerateDevices() {
		if d.Kind != mediadevices.VideoInput {
			continue
		}
		out = append(out, capture.DeviceInfo{ID: d.DeviceID, Label: d.Label, Facing: InferFacing(d.Label)})
	}
	b.logger.Debug("enumerated cameras", "count", len(out))
	return out
}

type cameraInput struct {
	dev   capture.DeviceInfo
	track *mediadevices.VideoTrack

	mu     sync.Mutex
	output *cameraOutput
	closed bool
}

func (in *cameraInput) Device() capture.DeviceInfo { return in.dev }

func (in *cameraInput) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil
	}
	in.closed = true
	return in.track.Close()
}

func (b *cameraBackend) OpenInput(dev capture.DeviceInfo, settings capture.OutputSettings) (capture.Input, error) {
	stream, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			c.DeviceID = prop.String(dev.ID)
			c.FrameFormat = prop.FrameFormatOneOf{frame.FormatI420, frame.FormatYUY2}
			c.Width = prop.Int(settings.Width)
			c.Height = prop.Int(settings.Height)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev.Label, err)
	}
	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return nil, fmt.Errorf("open %s: no video track", dev.Label)
	}
	track, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		for _, t := range tracks {
			_ = t.Close()
		}
		return nil, fmt.Errorf("open %s: unexpected track type %T", dev.Label, tracks[0])
	}
	return &cameraInput{dev: dev, track: track}, nil
}

// OpenOutput attaches a raw frame reader. An input accepts one output.
func (b *cameraBackend) OpenOutput(in capture.Input, settings capture.OutputSettings) (capture.Output, error) {
	ci, ok := in.(*cameraInput)
	if !ok {
		return nil, fmt.Errorf("input %T does not belong to the camera backend", in)
	}
	ci.mu.Lock()
	defer ci.mu.Unlock()
	if ci.closed {
		return nil, errors.New("input closed")
	}
	if ci.output != nil {
		return nil, errors.New("input already has an output")
	}
	out := &cameraOutput{reader: ci.track.NewReader(false), conn: newSoftConnection()}
	ci.output = out
	return out, nil
}

type cameraOutput struct {
	reader video.Reader
	conn   *softConnection
	closed atomic.Bool
}

// ReadBuffer blocks on the driver. Closing the input unblocks it.
func (o *cameraOutput) ReadBuffer() (capture.PixelBuffer, error) {
	if o.closed.Load() {
		return nil, errOutputClosed
	}
	img, release, err := o.reader.Read()
	if err != nil {
		if o.closed.Load() {
			return nil, errOutputClosed
		}
		return nil, err
	}
	if img == nil {
		if release != nil {
			release()
		}
		return nil, nil
	}
	return newImageBuffer(img, release, o.conn, false), nil
}

func (o *cameraOutput) Connection() capture.Connection { return o.conn }

func (o *cameraOutput) Close() error {
	o.closed.Store(true)
	return nil
}
