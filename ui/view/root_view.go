package view

import (
	"image"
	"log/slog"

	"github.com/soocke/frontcam-go/config"
	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/model"
	"github.com/soocke/frontcam-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Display     Display

	// Widgets
	StateLabel  *TLabelWidget
	StateDetail *TLabelWidget
}

// Handlers are invoked on user actions from the Tk thread.
type Handlers struct {
	ToggleCapture func()
	Tap           func() // tap on the display
	ToggleTheme   func()
	Apply         func(capture.CaptureConfiguration)
	Exit          func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: session stats and state label
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(0), Columnspan(4), Sticky("w"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(statsFrame, 0, 0)
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, In(statsFrame), Row(1), Column(0), Columnspan(4), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
	rv.StateDetail = TLabel(Txt(""))
	Grid(rv.StateDetail, In(statsFrame), Row(2), Column(0), Columnspan(4), Sticky("w"), Padx("0.2m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	buttons := []struct {
		text  string
		style string
		fn    func()
	}{
		{"Toggle Capture", theme.StylePrimaryButton, h.ToggleCapture},
		{"Restart", theme.StylePrimaryButton, h.Tap},
		{"Dark Mode", "", h.ToggleTheme},
		{"Exit", theme.StyleDangerButton, h.Exit},
	}
	for i, b := range buttons {
		if b.fn == nil {
			continue
		}
		opts := []Opt{Txt(b.text), Command(b.fn)}
		if b.style != "" {
			opts = append(opts, Style(b.style))
		}
		Grid(TButton(opts...), In(btnFrame), Row(i), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}

	// Display spans the width below the header.
	rv.Display = NewDisplay(1, h.Tap)

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.Apply)
	rv.ConfigPanel.Build(2)
}

// Show forwards a rendered frame to the display. Satisfies capture.DisplaySink.
func (rv *RootView) Show(img image.Image) {
	if rv != nil && rv.Display != nil {
		rv.Display.Show(img)
	}
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetStateDetail shows why the camera could not be set up; empty clears it.
func (rv *RootView) SetStateDetail(text string) {
	if rv != nil && rv.StateDetail != nil {
		rv.StateDetail.Configure(Txt(text))
	}
}

// SetSession updates session durations and frame rate.
func (rv *RootView) SetSession(v model.SessionValues) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetSession(v)
	}
}

// SetDispatch updates the dropped frame counters.
func (rv *RootView) SetDispatch(st capture.DispatchStats) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetDispatch(st)
	}
}

// --- CapturePresenter view contract methods ---

// DisplayReset clears the display back to the placeholder.
func (rv *RootView) DisplayReset() {
	if rv != nil && rv.Display != nil {
		rv.Display.Reset()
	}
}

// ConfigEditable toggles config panel editability.
func (rv *RootView) ConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// Resize adapts the display bounds to the window size.
func (rv *RootView) Resize(width, height int) {
	if rv != nil && rv.Display != nil {
		rv.Display.SetTargetSize(width-40, height-260)
	}
}
