package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const readErrorBackoff = 5 * time.Millisecond

// Session owns the capture lifecycle: device selection, one input binding,
// one output binding, and the flow of pixel buffers to the registered
// FrameHandler. Construct with NewSession.
type Session struct {
	backend Backend
	main    MainThread
	queue   *Queue
	logger  *slog.Logger

	// configMu serializes Configure and Close; mu guards the fields below
	// and is never held across backend calls.
	configMu    sync.Mutex
	mu          sync.Mutex
	id          string
	state       SessionState
	cfg         CaptureConfiguration
	bind        *binding
	transitions uint64

	handler    atomic.Pointer[FrameHandler]
	delivered  atomic.Uint64
	readErrors atomic.Uint64
}

// binding pairs the bound input and output with the gate that lets the
// delivery goroutine read frames only while the session is running.
type binding struct {
	input  Input
	output Output

	mu      sync.Mutex
	cond    *sync.Cond
	running bool
	closed  bool
	done    chan struct{}
}

func newBinding(in Input, out Output) *binding {
	b := &binding{input: in, output: out, done: make(chan struct{})}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *binding) waitRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for !b.running && !b.closed {
		b.cond.Wait()
	}
	return !b.closed
}

func (b *binding) setRunning(v bool) {
	b.mu.Lock()
	b.running = v
	b.cond.Broadcast()
	b.mu.Unlock()
}

func (b *binding) isRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running && !b.closed
}

func (b *binding) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *binding) close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.running = false
	b.cond.Broadcast()
	b.mu.Unlock()
	return errors.Join(b.output.Close(), b.input.Close())
}

// NewSession creates an idle session on backend. Completion callbacks of
// SetUp and StartCapturing run on main; a nil main runs them on the session
// queue.
func NewSession(backend Backend, main MainThread, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		backend: backend,
		main:    main,
		queue:   NewQueue("session", logger),
		logger:  logger,
		state:   StateIdle,
	}
}

// SetFrameHandler registers the per-frame callback. Passing nil unregisters it
// and subsequent frames are released undelivered.
func (s *Session) SetFrameHandler(h FrameHandler) {
	if h == nil {
		s.handler.Store(nil)
		return
	}
	s.handler.Store(&h)
}

// Configure selects a device and replaces the input and output bindings.
// A running session is stopped first; the session is left configured, not
// running. When no device matches, the previous bindings stay untouched.
// Devices are opened without holding the state lock, so State and Stats
// stay responsive while a slow device comes up.
func (s *Session) Configure(cfg CaptureConfiguration) error {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	dev, err := s.selectDevice(cfg)
	if err != nil {
		return newCaptureError(KindDeviceUnavailable, "configure", err)
	}

	s.mu.Lock()
	s.stopLocked()
	old := s.bind
	s.bind = nil
	s.state = StateIdle
	id := s.id
	s.mu.Unlock()
	if old != nil {
		if err := old.close(); err != nil {
			s.logger.Warn("release previous bindings", "session", id, "error", err)
		}
	}

	w, h := cfg.Preset.Size()
	settings := OutputSettings{Width: w, Height: h, DiscardLateFrames: true}

	in, err := s.backend.OpenInput(dev, settings)
	if err != nil {
		return newCaptureError(KindInvalidInput, "configure", err)
	}
	out, err := s.backend.OpenOutput(in, settings)
	if err != nil {
		_ = in.Close()
		return newCaptureError(KindInvalidOutput, "configure", err)
	}
	if conn := out.Connection(); conn != nil && conn.OrientationSupported() {
		conn.SetOrientation(cfg.Orientation.sensorCorrected())
		conn.SetMirrored(cfg.Mirror)
	}

	b := newBinding(in, out)
	s.mu.Lock()
	s.bind = b
	s.cfg = cfg
	s.id = uuid.NewString()
	s.state = StateConfigured
	id = s.id
	s.mu.Unlock()
	go s.deliver(b, cfg.CallbackOnSessionQueue)

	s.logger.Info("capture session configured",
		"session", id,
		"backend", s.backend.Name(),
		"device", dev.Label,
		"facing", cfg.Facing.String(),
		"preset", cfg.Preset.String(),
		"mirror", cfg.Mirror,
	)
	return nil
}

func (s *Session) selectDevice(cfg CaptureConfiguration) (DeviceInfo, error) {
	devices := s.backend.Devices()
	if cfg.DeviceID != "" {
		for _, d := range devices {
			if d.ID == cfg.DeviceID {
				return d, nil
			}
		}
		return DeviceInfo{}, fmt.Errorf("no device with id %q among %d", cfg.DeviceID, len(devices))
	}
	for _, d := range devices {
		if d.Facing == cfg.Facing {
			return d, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("no %s-facing device among %d", cfg.Facing, len(devices))
}

// Start begins the flow of frames. It is a no-op unless the session is
// configured and stopped.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRunning:
		return
	case StateIdle:
		s.logger.Warn("start ignored: session not configured")
		return
	}
	s.state = StateRunning
	s.transitions++
	s.bind.setRunning(true)
	s.logger.Info("capture started", "session", s.id)
}

// Stop halts the flow of frames. Stopping a session that is not running does
// nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopLocked() {
		s.logger.Info("capture stopped", "session", s.id)
	}
}

func (s *Session) stopLocked() bool {
	if s.state != StateRunning {
		return false
	}
	s.bind.setRunning(false)
	s.state = StateConfigured
	return true
}

// Running reports whether frames are flowing.
func (s *Session) Running() bool { return s.State() == StateRunning }

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Configuration returns the configuration applied by the last successful
// Configure.
func (s *Session) Configuration() CaptureConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Bindings reports how many inputs and outputs are bound (0 or 1 each).
func (s *Session) Bindings() (inputs, outputs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bind == nil {
		return 0, 0
	}
	return 1, 1
}

// Transitions counts configured -> running transitions since creation.
func (s *Session) Transitions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitions
}

// Stats summarises the session for instrumentation.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	st := SessionStats{
		ID:          s.id,
		State:       s.state,
		Backend:     s.backend.Name(),
		Preset:      s.cfg.Preset,
		Facing:      s.cfg.Facing,
		Transitions: s.transitions,
	}
	if s.bind != nil {
		st.Device = s.bind.input.Device().Label
	}
	s.mu.Unlock()
	st.Delivered = s.delivered.Load()
	st.ReadErrors = s.readErrors.Load()
	return st
}

// SetUp configures the session on the session queue and reports the result
// to completion on the main thread.
func (s *Session) SetUp(cfg CaptureConfiguration, completion func(error)) {
	s.queue.Async(func() {
		err := s.Configure(cfg)
		if completion != nil {
			s.onMain(func() { completion(err) })
		}
	})
}

// StartCapturing starts the session on the session queue, then runs
// completion on the main thread.
func (s *Session) StartCapturing(completion func()) {
	s.queue.Async(func() {
		s.Start()
		if completion != nil {
			s.onMain(completion)
		}
	})
}

// StopCapturing stops the session on the session queue.
func (s *Session) StopCapturing() {
	s.queue.Async(s.Stop)
}

func (s *Session) onMain(fn func()) {
	if s.main != nil {
		s.main.Async(fn)
		return
	}
	fn()
}

// Close stops capture, releases the bindings and shuts the session queue down.
func (s *Session) Close() error {
	s.queue.Close()
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.mu.Lock()
	s.stopLocked()
	old := s.bind
	s.bind = nil
	s.state = StateIdle
	s.mu.Unlock()
	if old == nil {
		return nil
	}
	return old.close()
}

// deliver reads buffers from b while the session runs and hands them to the
// registered handler. One goroutine per binding keeps invocations serialized.
func (s *Session) deliver(b *binding, onQueue bool) {
	defer close(b.done)
	for b.waitRunning() {
		buf, err := b.output.ReadBuffer()
		if err != nil {
			if b.isClosed() {
				return
			}
			s.readErrors.Add(1)
			s.logger.Debug("read buffer", "error", err)
			time.Sleep(readErrorBackoff)
			continue
		}
		if !b.isRunning() {
			if buf != nil {
				buf.Release()
			}
			continue
		}
		s.delivered.Add(1)
		s.dispatch(buf, onQueue)
	}
}

// dispatch runs the handler for one buffer. A panicking handler loses only
// that frame.
func (s *Session) dispatch(buf PixelBuffer, onQueue bool) {
	hp := s.handler.Load()
	if hp == nil {
		if buf != nil {
			buf.Release()
		}
		return
	}
	h := *hp
	call := func() {
		defer func() {
			if buf != nil {
				buf.Release()
			}
		}()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("frame handler panic", "error", r, "stack", string(debug.Stack()))
			}
		}()
		h(buf)
	}
	if onQueue {
		if !s.queue.Sync(call) && buf != nil {
			buf.Release()
		}
		return
	}
	call()
}
