package model

import (
	"sync"
	"sync/atomic"
)

// CaptureModel tracks whether capture is enabled and the last setup failure.
// The zero value is disabled and usable. Enabled is atomic because UI
// callbacks and presenter ticks may race.
type CaptureModel struct {
	enabled atomic.Bool

	mu     sync.Mutex
	failed string
}

// Enabled reports whether capture is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag. Enabling clears a previous failure.
func (m *CaptureModel) SetEnabled(b bool) {
	if m == nil {
		return
	}
	if m.enabled.Swap(b) == b { // no change
		return
	}
	if b {
		m.SetFailure("")
	}
}

// SetFailure records a setup failure message; empty clears it.
func (m *CaptureModel) SetFailure(msg string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.failed = msg
	m.mu.Unlock()
}

// Failure returns the last recorded setup failure.
func (m *CaptureModel) Failure() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed
}
