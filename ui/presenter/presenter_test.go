package presenter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/model"
)

type labelView struct {
	labels  []string
	details []string
}

func (v *labelView) SetStateLabel(s string)  { v.labels = append(v.labels, s) }
func (v *labelView) SetStateDetail(s string) { v.details = append(v.details, s) }

func TestStatePresenter_UpdatesOnChangeOnly(t *testing.T) {
	svc := &mockService{}
	svc.stats.Session.State = capture.StateRunning
	view := &labelView{}
	m := &model.CaptureModel{}
	p := NewStatePresenter(svc, m, view)

	p.Tick()
	p.Tick()
	if len(view.labels) != 1 || view.labels[0] != "State: running" {
		t.Fatalf("labels %v", view.labels)
	}

	svc.stats.Session.State = capture.StateIdle
	svc.stats.SetupError = "capture: configure: device unavailable"
	p.Tick()
	if len(view.labels) != 2 || view.labels[1] != "Camera unavailable (tap to retry)" {
		t.Fatalf("labels %v", view.labels)
	}
	if m.Failure() != svc.stats.SetupError {
		t.Fatalf("model failure %q", m.Failure())
	}
	if len(view.details) != 1 || view.details[0] != svc.stats.SetupError {
		t.Fatalf("details %v", view.details)
	}

	svc.stats.Session.State = capture.StateRunning
	svc.stats.SetupError = ""
	p.Tick()
	if len(view.details) != 2 || view.details[1] != "" || m.Failure() != "" {
		t.Fatalf("detail not cleared: %v %q", view.details, m.Failure())
	}
}

type sessionView struct {
	values   model.SessionValues
	dispatch capture.DispatchStats
	calls    int
}

func (v *sessionView) SetSession(s model.SessionValues)     { v.values = s; v.calls++ }
func (v *sessionView) SetDispatch(st capture.DispatchStats) { v.dispatch = st }

func TestSessionPresenter_Tick(t *testing.T) {
	svc := &mockService{}
	view := &sessionView{}
	enabled := &mockModel{enabled: true}
	p := NewSessionPresenter(model.NewSessionModel(), enabled, svc, view)

	base := time.Unix(100, 0)
	p.Tick(base)
	svc.stats.Dispatch.Rendered = 20
	svc.stats.Dispatch.DroppedBusy = 3
	p.Tick(base.Add(2 * time.Second))
	if view.values.Frames != 20 || view.values.Session != 2*time.Second || view.values.FPS != 10 {
		t.Fatalf("values %+v", view.values)
	}
	if view.dispatch.DroppedBusy != 3 {
		t.Fatalf("dispatch %+v", view.dispatch)
	}
}

func TestMainQueue_SyncWaitsForDrain(t *testing.T) {
	q := NewMainQueue(nil)
	var ran atomic.Bool
	done := make(chan struct{})
	go func() {
		q.Sync(func() { ran.Store(true) })
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for q.Drain() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sync task never queued")
		}
		time.Sleep(time.Millisecond)
	}
	<-done
	if !ran.Load() {
		t.Fatal("sync task did not run")
	}
}

func TestMainQueue_CloseDrainsAndRejects(t *testing.T) {
	q := NewMainQueue(nil)
	n := 0
	q.Async(func() { n++ })
	q.Async(func() { panic("widget gone") })
	q.Close()
	if n != 1 {
		t.Fatalf("pending work not drained: %d", n)
	}
	if q.Async(func() { n++ }) || q.Sync(func() { n++ }) {
		t.Fatal("closed queue accepted work")
	}
	if q.Drain() != 0 || n != 1 {
		t.Fatalf("work accepted after close: n=%d", n)
	}
}

func TestLoop_TickOrder(t *testing.T) {
	q := NewMainQueue(nil)
	scheduled := 0
	var order []string
	q.Async(func() { order = append(order, "main") })
	l := NewLoop(q, nil, nil, func() { scheduled++; order = append(order, "schedule") })
	l.Tick()
	if scheduled != 1 || len(order) != 2 || order[0] != "main" {
		t.Fatalf("order %v", order)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
