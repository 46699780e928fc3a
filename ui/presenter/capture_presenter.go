package presenter

import (
	"github.com/soocke/frontcam-go/domain/capture"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// LifecycleContract narrows what presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
	Restart()
	Reconfigure(cfg capture.CaptureConfiguration)
}

// CaptureView updates UI elements affected by capture toggling.
type CaptureView interface {
	DisplayReset()
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for toggling capture state.
type CapturePresenter struct {
	model   CaptureModel
	service LifecycleContract // narrowed from full capture.CaptureService
	view    CaptureView
	pending *capture.CaptureConfiguration
}

func NewCapturePresenter(model CaptureModel, service capture.CaptureService, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, view: view}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil
}

// Enable starts the capture service, applying a configuration stored while
// disabled. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	if c.pending != nil {
		c.service.Reconfigure(*c.pending)
		c.pending = nil
	} else {
		c.service.Start()
	}
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
}

// Disable stops the capture service and resets the display. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.DisplayReset()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// Restart handles a tap on the display: capture is (re)started, setting the
// session up again when it never came up.
func (c *CapturePresenter) Restart() {
	if !c.ready() {
		return
	}
	if !c.model.Enabled() {
		c.Enable()
		return
	}
	c.service.Restart()
}

// Apply switches to cfg. While disabled the configuration is kept for the
// next Enable.
func (c *CapturePresenter) Apply(cfg capture.CaptureConfiguration) {
	if !c.ready() {
		return
	}
	if !c.model.Enabled() {
		c.pending = &cfg
		return
	}
	c.service.Reconfigure(cfg)
}
