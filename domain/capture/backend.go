package capture

import "image"

// DeviceInfo identifies a capture device offered by a Backend.
type DeviceInfo struct {
	ID     string
	Label  string
	Facing Facing
}

// OutputSettings are the fixed properties every output is opened with.
type OutputSettings struct {
	Width  int
	Height int
	// DiscardLateFrames drops frames the consumer has not picked up in time
	// instead of queueing them.
	DiscardLateFrames bool
}

// Backend abstracts a platform camera API: device enumeration plus input and
// output binding.
type Backend interface {
	Name() string
	Devices() []DeviceInfo
	// OpenInput binds dev. Failures are reported as invalid input.
	OpenInput(dev DeviceInfo, settings OutputSettings) (Input, error)
	// OpenOutput attaches a frame output to in. Failures are reported as an
	// invalid output.
	OpenOutput(in Input, settings OutputSettings) (Output, error)
}

// Input is a bound capture device.
type Input interface {
	Device() DeviceInfo
	Close() error
}

// Output delivers pixel buffers from its input.
type Output interface {
	// ReadBuffer blocks until the next frame is available. It returns a nil
	// buffer with a nil error when a frame was momentarily unavailable.
	ReadBuffer() (PixelBuffer, error)
	// Connection reports orientation support; nil means none.
	Connection() Connection
	Close() error
}

// Connection mirrors the platform's per-output video connection settings.
type Connection interface {
	OrientationSupported() bool
	SetOrientation(o Orientation)
	Orientation() Orientation
	SetMirrored(m bool)
}

// PixelBuffer is a platform-native frame. Lock exposes its pixels until Unlock.
// The session calls Release once the frame handler has returned.
type PixelBuffer interface {
	Lock() (image.Image, error)
	Unlock()
	Release()
}

// OwnedPixelBuffer is implemented by buffers whose locked image is a fresh
// allocation that outlives Release, allowing decode to skip the copy.
type OwnedPixelBuffer interface {
	PixelBuffer
	Owned() bool
}
