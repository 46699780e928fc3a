package capture

import (
	"fmt"
	"image"
	"strings"
)

// Facing selects which side of the host the camera looks at.
type Facing int

const (
	FacingFront Facing = iota
	FacingBack
)

func (f Facing) String() string {
	switch f {
	case FacingFront:
		return "front"
	case FacingBack:
		return "back"
	default:
		return "unknown"
	}
}

// ParseFacing accepts "front"/"user" and "back"/"rear"/"environment".
func ParseFacing(s string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "user", "":
		return FacingFront, nil
	case "back", "rear", "environment":
		return FacingBack, nil
	default:
		return FacingFront, fmt.Errorf("capture: unknown facing %q", s)
	}
}

// Preset names a capture resolution.
type Preset int

const (
	PresetLow Preset = iota
	PresetVGA640x480
	PresetHD1280x720
	PresetHD1920x1080
)

// Size returns the pixel dimensions requested from the device.
func (p Preset) Size() (w, h int) {
	switch p {
	case PresetLow:
		return 320, 240
	case PresetHD1280x720:
		return 1280, 720
	case PresetHD1920x1080:
		return 1920, 1080
	default:
		return 640, 480
	}
}

func (p Preset) String() string {
	switch p {
	case PresetLow:
		return "low"
	case PresetVGA640x480:
		return "vga640x480"
	case PresetHD1280x720:
		return "hd1280x720"
	case PresetHD1920x1080:
		return "hd1920x1080"
	default:
		return "unknown"
	}
}

// ParsePreset maps a preset name to its value. Empty selects VGA.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PresetLow, nil
	case "vga640x480", "vga", "":
		return PresetVGA640x480, nil
	case "hd1280x720", "720p":
		return PresetHD1280x720, nil
	case "hd1920x1080", "1080p":
		return PresetHD1920x1080, nil
	default:
		return PresetVGA640x480, fmt.Errorf("capture: unknown preset %q", s)
	}
}

// Orientation describes how the sensor image should be rotated for display.
type Orientation int

const (
	OrientationPortrait Orientation = iota
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "portraitUpsideDown"
	case OrientationLandscapeLeft:
		return "landscapeLeft"
	case OrientationLandscapeRight:
		return "landscapeRight"
	default:
		return "unknown"
	}
}

// ParseOrientation maps an orientation name to its value. Empty selects portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "":
		return OrientationPortrait, nil
	case "portraitupsidedown", "upsidedown":
		return OrientationPortraitUpsideDown, nil
	case "landscapeleft":
		return OrientationLandscapeLeft, nil
	case "landscaperight":
		return OrientationLandscapeRight, nil
	default:
		return OrientationPortrait, fmt.Errorf("capture: unknown orientation %q", s)
	}
}

// sensorCorrected swaps the landscape orientations: the sensor is mounted
// rotated relative to the display, so left and right are inverted.
func (o Orientation) sensorCorrected() Orientation {
	switch o {
	case OrientationLandscapeLeft:
		return OrientationLandscapeRight
	case OrientationLandscapeRight:
		return OrientationLandscapeLeft
	default:
		return o
	}
}

// CaptureConfiguration is applied once per Configure call and copied into the
// session; later mutation of the caller's value has no effect.
type CaptureConfiguration struct {
	Facing      Facing
	Preset      Preset
	Mirror      bool
	Orientation Orientation
	// DeviceID pins a specific device and bypasses facing selection.
	DeviceID string
	// CallbackOnSessionQueue delivers frames on the session queue instead of
	// the output's own delivery goroutine.
	CallbackOnSessionQueue bool
}

// DefaultCaptureConfiguration is the front camera at VGA, mirrored.
func DefaultCaptureConfiguration() CaptureConfiguration {
	return CaptureConfiguration{
		Facing:      FacingFront,
		Preset:      PresetVGA640x480,
		Mirror:      true,
		Orientation: OrientationPortrait,
	}
}

// SessionState enumerates capture session lifecycle states.
type SessionState int

const (
	StateIdle SessionState = iota
	StateConfigured
	StateRunning
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// FrameHandler receives each pixel buffer delivered by a running session.
// Invocations are serialized; the buffer is only valid during the call.
type FrameHandler func(buf PixelBuffer)

// DisplaySink accepts rendered frames. Show is called on the main thread.
type DisplaySink interface {
	Show(img image.Image)
}

// MainThread runs closures on the thread that owns the display surface.
// Both methods report false when the handoff is shut down and fn was
// dropped.
type MainThread interface {
	// Sync runs fn and returns once it has completed.
	Sync(fn func()) bool
	// Async schedules fn and returns immediately.
	Async(fn func()) bool
}
