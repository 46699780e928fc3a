package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// Each Tick drains the main queue, refreshes the sub-presenters and invokes
// the scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Main     *MainQueue
	State    *StatePresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(main *MainQueue, state *StatePresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Main: main, State: state, Session: sess, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	// Renders first so the counters below include them.
	if l.Main != nil {
		l.Main.Drain()
	}
	if l.State != nil {
		l.State.Tick()
	}
	if l.Session != nil {
		l.Session.Tick(time.Now())
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
