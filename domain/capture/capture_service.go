package capture

import (
	"log/slog"
	"sync"
)

// CaptureService couples a Session with its Dispatcher and exposes the
// lifecycle used by the application shell and presenters. Use
// NewCaptureService to construct an instance.
type CaptureService interface {
	Start()
	Stop()
	// Restart (re)starts capture, configuring first when needed. Bound to
	// the tap gesture.
	Restart()
	Reconfigure(cfg CaptureConfiguration)
	Configuration() CaptureConfiguration
	Running() bool
	LatestFrame() FrameSnapshot
	Stats() CaptureStats
	Close() error
}

// CaptureStats combines session and dispatcher counters. SetupError holds
// the most recent configuration failure, cleared by the next successful one.
type CaptureStats struct {
	Session    SessionStats
	Dispatch   DispatchStats
	SetupError string
}

type captureService struct {
	session    *Session
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	cfg      CaptureConfiguration
	setupErr error
}

// NewCaptureService registers dispatcher as the session's frame handler.
func NewCaptureService(session *Session, dispatcher *Dispatcher, cfg CaptureConfiguration, logger *slog.Logger) CaptureService {
	if logger == nil {
		logger = slog.Default()
	}
	session.SetFrameHandler(dispatcher.Handle)
	return &captureService{session: session, dispatcher: dispatcher, cfg: cfg, logger: logger}
}

func (s *captureService) Start() {
	if s.session.State() == StateIdle {
		s.setUpAndStart()
		return
	}
	s.session.StartCapturing(nil)
}

func (s *captureService) Stop() { s.session.StopCapturing() }

func (s *captureService) Restart() { s.Start() }

func (s *captureService) Reconfigure(cfg CaptureConfiguration) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.setUpAndStart()
}

func (s *captureService) setUpAndStart() {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	s.session.SetUp(cfg, func(err error) {
		s.mu.Lock()
		s.setupErr = err
		s.mu.Unlock()
		if err != nil {
			s.logger.Error("Failed to setup camera", "error", err)
			return
		}
		s.session.StartCapturing(nil)
	})
}

func (s *captureService) Running() bool { return s.session.Running() }

func (s *captureService) LatestFrame() FrameSnapshot { return s.dispatcher.LatestFrame() }

func (s *captureService) Stats() CaptureStats {
	st := CaptureStats{Session: s.session.Stats(), Dispatch: s.dispatcher.Stats()}
	s.mu.Lock()
	if s.setupErr != nil {
		st.SetupError = s.setupErr.Error()
	}
	s.mu.Unlock()
	return st
}

// Configuration returns the configuration the next setup will use.
func (s *captureService) Configuration() CaptureConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *captureService) Close() error { return s.session.Close() }
