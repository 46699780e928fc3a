package model

import (
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	// 5s session rendering 50 frames, counter already at 100.
	m.OnTick(true, 100, base)
	m.OnTick(true, 150, base.Add(5*time.Second))
	v := m.Values()
	if v.Session != 5*time.Second || v.Total != 5*time.Second {
		t.Fatalf("expected 5s session & total; got %+v", v)
	}
	if v.Frames != 50 || v.FPS != 10 {
		t.Fatalf("frames=%d fps=%v want 50/10", v.Frames, v.FPS)
	}

	m.OnTick(false, 150, base.Add(5*time.Second))
	stopped := m.Values()
	if stopped.Session != 5*time.Second || stopped.Total != 5*time.Second {
		t.Fatalf("after stop expected persisted 5s; got %+v", stopped)
	}

	// Idle ticks change nothing.
	m.OnTick(false, 150, base.Add(7*time.Second))
	if m.Values() != stopped {
		t.Fatalf("idle tick changed values: %+v -> %+v", stopped, m.Values())
	}

	// Second session at 10s lasting 3s.
	m.OnTick(true, 150, base.Add(10*time.Second))
	m.OnTick(true, 180, base.Add(13*time.Second))
	v = m.Values()
	if v.Session != 3*time.Second || v.Total != 8*time.Second || v.Frames != 30 {
		t.Fatalf("second session %+v", v)
	}

	m.OnTick(false, 180, base.Add(13*time.Second))
	if v := m.Values(); v.Total != 8*time.Second {
		t.Fatalf("final total %v", v.Total)
	}
}

func TestCaptureModel_EnableClearsFailure(t *testing.T) {
	var m CaptureModel
	m.SetFailure("no camera")
	if m.Failure() != "no camera" || m.Enabled() {
		t.Fatalf("zero model state wrong: %q %v", m.Failure(), m.Enabled())
	}
	m.SetEnabled(true)
	if !m.Enabled() || m.Failure() != "" {
		t.Fatalf("enable did not clear failure: %q", m.Failure())
	}
	var nilModel *CaptureModel
	nilModel.SetEnabled(true)
	if nilModel.Enabled() {
		t.Fatal("nil model enabled")
	}
}
