package model

import (
	"time"
)

// SessionValues is a snapshot of the session model.
type SessionValues struct {
	Session time.Duration // current or last session
	Total   time.Duration // all sessions, including the ongoing one
	Frames  uint64        // frames rendered in the current or last session
	FPS     float64       // rendered frames per second over the current session
}

// SessionModel tracks the current session duration, the accumulated active
// time and the frames rendered while capturing. Presenters poll Values and
// update views. The zero value is ready to use.
type SessionModel struct {
	active              bool
	captureStart        time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration

	renderedAtStart uint64
	sessionFrames   uint64
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the capture state, the dispatcher's
// cumulative rendered count and the current time.
func (m *SessionModel) OnTick(capturing bool, rendered uint64, now time.Time) {
	if m == nil {
		return
	}
	if capturing {
		if !m.active { // off -> on
			m.active = true
			m.captureStart = now
			m.lastSessionDuration = 0
			m.renderedAtStart = rendered
		}
		m.lastSessionDuration = now.Sub(m.captureStart)
		m.sessionFrames = rendered - m.renderedAtStart
	} else if m.active { // on -> off
		m.lastSessionDuration = now.Sub(m.captureStart)
		m.sessionFrames = rendered - m.renderedAtStart
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Values returns the current snapshot.
func (m *SessionModel) Values() SessionValues {
	if m == nil {
		return SessionValues{}
	}
	v := SessionValues{Session: m.lastSessionDuration, Total: m.accumulated, Frames: m.sessionFrames}
	if m.active {
		v.Total += v.Session
	}
	if secs := v.Session.Seconds(); secs > 0 {
		v.FPS = float64(v.Frames) / secs
	}
	return v
}
