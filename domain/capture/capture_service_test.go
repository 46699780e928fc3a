package capture

import (
	"strings"
	"testing"
)

func TestCaptureService_StartConfiguresAndRenders(t *testing.T) {
	b := newFakeBackend()
	s := newTestSession(t, b)
	sink := &recordingSink{}
	d := NewDispatcher(NewRenderer(DefaultRenderOptions()), sink, nil, testLogger())
	svc := NewCaptureService(s, d, DefaultCaptureConfiguration(), testLogger())

	svc.Start()
	waitFor(t, svc.Running, "service running")
	b.lastOutput().frames <- newFakeBuffer(7)
	waitFor(t, func() bool { return sink.count() == 1 }, "frame rendered")

	st := svc.Stats()
	if st.Session.Delivered != 1 || st.Dispatch.Rendered != 1 || st.SetupError != "" {
		t.Fatalf("stats %+v", st)
	}
	if svc.LatestFrame().Image == nil {
		t.Fatal("latest frame not recorded")
	}

	svc.Stop()
	waitFor(t, func() bool { return !svc.Running() }, "service stopped")
	svc.Restart()
	waitFor(t, svc.Running, "service restarted")
	if in, out := s.Bindings(); in != 1 || out != 1 {
		t.Fatalf("restart rebound: %d/%d", in, out)
	}
}

func TestCaptureService_SetupFailureIsReported(t *testing.T) {
	b := newFakeBackend()
	b.devices = nil
	s := newTestSession(t, b)
	svc := NewCaptureService(s, NewDispatcher(nil, &recordingSink{}, nil, nil), DefaultCaptureConfiguration(), testLogger())

	svc.Start()
	waitFor(t, func() bool { return svc.Stats().SetupError != "" }, "setup error")
	if svc.Running() {
		t.Fatal("running after failed setup")
	}
	if msg := svc.Stats().SetupError; !strings.Contains(msg, "device unavailable") {
		t.Fatalf("setup error %q", msg)
	}
}

func TestCaptureService_ReconfigureSwitchesPreset(t *testing.T) {
	b := newFakeBackend()
	s := newTestSession(t, b)
	svc := NewCaptureService(s, NewDispatcher(nil, &recordingSink{}, nil, nil), DefaultCaptureConfiguration(), testLogger())
	svc.Start()
	waitFor(t, svc.Running, "service running")

	cfg := svc.Configuration()
	cfg.Preset = PresetHD1280x720
	svc.Reconfigure(cfg)
	waitFor(t, func() bool { return svc.Running() && b.lastSettings().Width == 1280 }, "reconfigured")
	if b.liveOutputs.Load() != 1 {
		t.Fatalf("live outputs=%d", b.liveOutputs.Load())
	}
	if svc.Configuration().Preset != PresetHD1280x720 {
		t.Fatal("configuration not stored")
	}
}
