package presenter

import (
	"time"

	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/model"
)

// CaptureEnabledModel reports whether capture is enabled.
type CaptureEnabledModel interface{ Enabled() bool }

// SessionView displays session durations and frame counters.
type SessionView interface {
	SetSession(v model.SessionValues)
	SetDispatch(st capture.DispatchStats)
}

// SessionPresenter pushes session durations and dispatcher counters to the view.
type SessionPresenter struct {
	sess  *model.SessionModel
	cap   CaptureEnabledModel
	stats StatsSource
	view  SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, cap CaptureEnabledModel, stats StatsSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, cap: cap, stats: stats, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.cap == nil || p.stats == nil || p.view == nil {
		return
	}
	st := p.stats.Stats()
	p.sess.OnTick(p.cap.Enabled(), st.Dispatch.Rendered, now)
	p.view.SetSession(p.sess.Values())
	p.view.SetDispatch(st.Dispatch)
}
