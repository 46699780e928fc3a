package capture

import (
	"image"
	"time"
)

// FrameSnapshot carries the most recently displayed frame and metadata.
type FrameSnapshot struct {
	Image      image.Image
	CapturedAt time.Time
	RenderedAt time.Time
	Sequence   uint64
}

// DispatchStats summarises dispatcher behaviour for instrumentation.
// Every delivered frame ends up either rendered, dropped, or in flight.
type DispatchStats struct {
	Delivered      uint64
	Rendered       uint64
	DroppedMissing uint64
	DroppedDecode  uint64
	DroppedBusy    uint64
	// DroppedClosed counts frames rejected by a shut down main thread.
	DroppedClosed  uint64
	AvgRender      time.Duration
	LastRender     time.Time
	LatestAge      time.Duration
}

// Dropped is the total number of frames dropped for any reason.
func (s DispatchStats) Dropped() uint64 {
	return s.DroppedMissing + s.DroppedDecode + s.DroppedBusy + s.DroppedClosed
}

// SessionStats describes the capture session.
type SessionStats struct {
	ID          string
	State       SessionState
	Backend     string
	Device      string
	Facing      Facing
	Preset      Preset
	Transitions uint64
	Delivered   uint64
	ReadErrors  uint64
}
