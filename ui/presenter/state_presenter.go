package presenter

import (
	"github.com/soocke/frontcam-go/domain/capture"
)

// StatsSource provides capture counters.
type StatsSource interface {
	Stats() capture.CaptureStats
}

// FailureModel records setup failures for the view.
type FailureModel interface {
	SetFailure(string)
	Failure() string
}

// StateView sets the state label and the failure detail below it.
type StateView interface {
	SetStateLabel(string)
	SetStateDetail(string)
}

// StatePresenter reflects the session state and setup failures in the state label.
type StatePresenter struct {
	src    StatsSource
	model  FailureModel
	view   StateView
	label  string // last reflected label
	detail string
}

func NewStatePresenter(src StatsSource, model FailureModel, view StateView) *StatePresenter {
	return &StatePresenter{src: src, model: model, view: view}
}

// Tick polls the source and updates the view when the label changes.
func (p *StatePresenter) Tick() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	st := p.src.Stats()
	failure := st.SetupError
	if p.model != nil {
		p.model.SetFailure(st.SetupError)
		failure = p.model.Failure()
	}
	label, detail := "State: "+st.Session.State.String(), ""
	if failure != "" && st.Session.State == capture.StateIdle {
		label, detail = "Camera unavailable (tap to retry)", failure
	}
	if label != p.label {
		p.label = label
		p.view.SetStateLabel(label)
	}
	if detail != p.detail {
		p.detail = detail
		p.view.SetStateDetail(detail)
	}
}
