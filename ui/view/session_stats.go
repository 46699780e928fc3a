package view

import (
	"fmt"
	"time"

	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/model"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows session durations and frame counters.
type SessionStats interface {
	SetSession(v model.SessionValues)
	SetDispatch(st capture.DispatchStats)
}

type sessionStats struct {
	sessionLbl  *LabelWidget
	totalLbl    *LabelWidget
	fpsLbl      *LabelWidget
	droppedLbl  *LabelWidget
	lastFPS     string
	lastDropped string
}

// NewSessionStats creates the labels in parent starting at (row, startCol).
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		sessionLbl: Label(Width(14)),
		totalLbl:   Label(Width(14)),
		fpsLbl:     Label(Width(10)),
		droppedLbl: Label(Width(22)),
	}
	for i, lbl := range []*LabelWidget{s.sessionLbl, s.totalLbl, s.fpsLbl, s.droppedLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.fpsLbl.Configure(Txt("FPS: -"))
	s.droppedLbl.Configure(Txt("Dropped: 0"))
	return s
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the duration and frame rate labels.
func (s *sessionStats) SetSession(v model.SessionValues) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(v.Session)))
	s.totalLbl.Configure(Txt("Total: " + clock(v.Total)))
	if fps := fmt.Sprintf("FPS: %.1f", v.FPS); fps != s.lastFPS {
		s.lastFPS = fps
		s.fpsLbl.Configure(Txt(fps))
	}
}

// SetDispatch updates the dropped frame counter.
func (s *sessionStats) SetDispatch(st capture.DispatchStats) {
	if s == nil || s.droppedLbl == nil {
		return
	}
	txt := fmt.Sprintf("Dropped: %d (busy %d)", st.Dropped(), st.DroppedBusy)
	if txt != s.lastDropped {
		s.lastDropped = txt
		s.droppedLbl.Configure(Txt(txt))
	}
}
