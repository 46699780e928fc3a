package capture

import (
	"log/slog"
	"sync/atomic"
	"time"
)

const dispatchStatsLogInterval = 5 * time.Second

// Dispatcher is the FrameHandler that turns delivered pixel buffers into
// displayed images. At most one frame is in flight between decode and
// display; frames arriving while one is pending are dropped.
type Dispatcher struct {
	renderer    *Renderer
	sink        DisplaySink
	main        MainThread
	logger      *slog.Logger
	syncHandoff atomic.Bool

	inFlight atomic.Bool
	latest   atomic.Pointer[FrameSnapshot]

	delivered      atomic.Uint64
	rendered       atomic.Uint64
	droppedMissing atomic.Uint64
	droppedDecode  atomic.Uint64
	droppedBusy    atomic.Uint64
	droppedClosed  atomic.Uint64
	renderNanos    atomic.Uint64
	sequence       atomic.Uint64
	lastStatsLog   atomic.Int64
}

// NewDispatcher wires renderer output to sink through main.
func NewDispatcher(renderer *Renderer, sink DisplaySink, main MainThread, logger *slog.Logger) *Dispatcher {
	if renderer == nil {
		renderer = NewRenderer(DefaultRenderOptions())
	}
	return &Dispatcher{renderer: renderer, sink: sink, main: main, logger: logger}
}

// SetSyncHandoff selects whether Handle blocks until the frame is displayed.
func (d *Dispatcher) SetSyncHandoff(sync bool) { d.syncHandoff.Store(sync) }

// Handle processes one delivered buffer. It satisfies FrameHandler.
func (d *Dispatcher) Handle(buf PixelBuffer) {
	d.delivered.Add(1)
	defer d.maybeLogStats()

	if buf == nil {
		d.droppedMissing.Add(1)
		return
	}
	frame, err := DecodeBuffer(buf)
	if err != nil {
		d.droppedDecode.Add(1)
		return
	}
	if !d.inFlight.CompareAndSwap(false, true) {
		frame.Recycle()
		d.droppedBusy.Add(1)
		return
	}

	display := func() {
		defer d.inFlight.Store(false)
		defer frame.Recycle()
		start := time.Now()
		out := d.renderer.Render(frame.Image)
		if d.sink != nil {
			d.sink.Show(out)
		}
		d.renderNanos.Add(uint64(time.Since(start).Nanoseconds()))
		d.rendered.Add(1)
		d.latest.Store(&FrameSnapshot{
			Image:      out,
			CapturedAt: frame.CapturedAt,
			RenderedAt: time.Now(),
			Sequence:   d.sequence.Add(1),
		})
	}
	accepted := true
	switch {
	case d.main == nil:
		display()
	case d.syncHandoff.Load():
		accepted = d.main.Sync(display)
	default:
		accepted = d.main.Async(display)
	}
	if !accepted {
		frame.Recycle()
		d.inFlight.Store(false)
		d.droppedClosed.Add(1)
	}
}

// InFlight reports whether a frame is waiting to be displayed.
func (d *Dispatcher) InFlight() bool { return d.inFlight.Load() }

// LatestFrame returns the most recently displayed frame.
func (d *Dispatcher) LatestFrame() FrameSnapshot {
	snap := d.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

// Stats returns counters accumulated since creation.
func (d *Dispatcher) Stats() DispatchStats {
	rendered := d.rendered.Load()
	total := d.renderNanos.Load()
	var avg time.Duration
	if rendered > 0 {
		avg = time.Duration(total / rendered)
	}
	snap := d.LatestFrame()
	var age time.Duration
	if !snap.RenderedAt.IsZero() {
		age = time.Since(snap.RenderedAt)
	}
	return DispatchStats{
		Delivered:      d.delivered.Load(),
		Rendered:       rendered,
		DroppedMissing: d.droppedMissing.Load(),
		DroppedDecode:  d.droppedDecode.Load(),
		DroppedBusy:    d.droppedBusy.Load(),
		DroppedClosed:  d.droppedClosed.Load(),
		AvgRender:      avg,
		LastRender:     snap.RenderedAt,
		LatestAge:      age,
	}
}

func (d *Dispatcher) maybeLogStats() {
	if d.logger == nil {
		return
	}
	now := time.Now().UnixNano()
	last := d.lastStatsLog.Load()
	if last != 0 && time.Duration(now-last) < dispatchStatsLogInterval {
		return
	}
	if !d.lastStatsLog.CompareAndSwap(last, now) || last == 0 {
		return
	}
	stats := d.Stats()
	d.logger.Debug("dispatch.stats",
		"delivered", stats.Delivered,
		"rendered", stats.Rendered,
		"dropped_missing", stats.DroppedMissing,
		"dropped_decode", stats.DroppedDecode,
		"dropped_busy", stats.DroppedBusy,
		"dropped_closed", stats.DroppedClosed,
		"avg_render", stats.AvgRender,
	)
}
