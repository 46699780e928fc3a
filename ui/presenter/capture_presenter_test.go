package presenter

import (
	"testing"

	"github.com/soocke/frontcam-go/domain/capture"
)

type mockModel struct{ enabled bool }

func (m *mockModel) Enabled() bool     { return m.enabled }
func (m *mockModel) SetEnabled(b bool) { m.enabled = b }

// mockService implements capture.CaptureService with call counters.
type mockService struct {
	started, stopped, restarted int
	reconfigured                []capture.CaptureConfiguration
	stats                       capture.CaptureStats
}

func (s *mockService) Start()   { s.started++ }
func (s *mockService) Stop()    { s.stopped++ }
func (s *mockService) Restart() { s.restarted++ }
func (s *mockService) Reconfigure(cfg capture.CaptureConfiguration) {
	s.reconfigured = append(s.reconfigured, cfg)
}
func (s *mockService) Configuration() capture.CaptureConfiguration {
	return capture.DefaultCaptureConfiguration()
}
func (s *mockService) LatestFrame() capture.FrameSnapshot { return capture.FrameSnapshot{} }
func (s *mockService) Running() bool                      { return s.started > s.stopped }
func (s *mockService) Stats() capture.CaptureStats        { return s.stats }
func (s *mockService) Close() error                       { return nil }

var _ capture.CaptureService = (*mockService)(nil)

type mockView struct {
	reset, editableCalls int
	lastEditable         bool
}

func (v *mockView) DisplayReset()         { v.reset++ }
func (v *mockView) ConfigEditable(b bool) { v.editableCalls++; v.lastEditable = b }

func TestCapturePresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	view := &mockView{}
	p := NewCapturePresenter(m, svc, view)

	p.Enable()
	if !m.Enabled() || svc.started != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("enable failed: enabled=%v started=%d editableCalls=%d lastEditable=%v", m.Enabled(), svc.started, view.editableCalls, view.lastEditable)
	}
	p.Enable()
	if svc.started != 1 {
		t.Fatalf("enable not idempotent: started=%d", svc.started)
	}

	p.Disable()
	if m.Enabled() || svc.stopped != 1 || view.reset != 1 || !view.lastEditable || view.editableCalls != 2 {
		t.Fatalf("disable failed: enabled=%v stopped=%d reset=%d editableCalls=%d lastEditable=%v", m.Enabled(), svc.stopped, view.reset, view.editableCalls, view.lastEditable)
	}
	p.Disable()
	if svc.stopped != 1 || view.reset != 1 {
		t.Fatalf("disable not idempotent: stopped=%d reset=%d", svc.stopped, view.reset)
	}
}

func TestCapturePresenter_Toggle(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	view := &mockView{}
	p := NewCapturePresenter(m, svc, view)
	p.Toggle() // enable path
	if !m.Enabled() || svc.started != 1 {
		t.Fatalf("toggle enable failed")
	}
	p.Toggle() // disable path
	if m.Enabled() || svc.stopped != 1 || view.reset != 1 {
		t.Fatalf("toggle disable failed")
	}
}

func TestCapturePresenter_RestartOnTap(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	p := NewCapturePresenter(m, svc, &mockView{})

	p.Restart() // disabled: behaves like Enable
	if !m.Enabled() || svc.started != 1 || svc.restarted != 0 {
		t.Fatalf("tap while disabled: started=%d restarted=%d", svc.started, svc.restarted)
	}
	p.Restart()
	if svc.restarted != 1 {
		t.Fatalf("tap while enabled: restarted=%d", svc.restarted)
	}
}

func TestCapturePresenter_ApplyDefersWhileDisabled(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	p := NewCapturePresenter(m, svc, &mockView{})

	cfg := capture.DefaultCaptureConfiguration()
	cfg.Preset = capture.PresetLow
	p.Apply(cfg)
	if len(svc.reconfigured) != 0 {
		t.Fatal("applied while disabled")
	}
	p.Enable()
	if svc.started != 0 || len(svc.reconfigured) != 1 || svc.reconfigured[0].Preset != capture.PresetLow {
		t.Fatalf("pending config not used on enable: started=%d reconfigured=%v", svc.started, svc.reconfigured)
	}
	cfg.Preset = capture.PresetHD1920x1080
	p.Apply(cfg)
	if len(svc.reconfigured) != 2 {
		t.Fatal("apply while enabled did not reconfigure")
	}
}

func TestCapturePresenter_NilSafe(t *testing.T) {
	var p *CapturePresenter
	p.Enable()
	p.Toggle()
	p.Restart()
	NewCapturePresenter(nil, nil, nil).Disable()
}
