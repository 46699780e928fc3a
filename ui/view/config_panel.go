package view

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/frontcam-go/config"
	"github.com/soocke/frontcam-go/domain/capture"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the capture settings form and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widgets into the config, persists and notifies
}

var (
	facingChoices      = []string{capture.FacingFront.String(), capture.FacingBack.String()}
	presetChoices      = []string{capture.PresetLow.String(), capture.PresetVGA640x480.String(), capture.PresetHD1280x720.String(), capture.PresetHD1920x1080.String()}
	orientationChoices = []string{capture.OrientationPortrait.String(), capture.OrientationPortraitUpsideDown.String(), capture.OrientationLandscapeLeft.String(), capture.OrientationLandscapeRight.String()}
)

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  func(capture.CaptureConfiguration)
	applyBtn *ButtonWidget
	combos   map[string]*TComboboxWidget
	choices  map[string][]string
	texts    map[string]*TextWidget
}

// NewConfigPanel creates the view bound to cfg. onApply receives the capture
// configuration after a successful apply.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(capture.CaptureConfiguration)) ConfigPanel {
	return &configPanel{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  logger,
		onApply: onApply,
		combos:  make(map[string]*TComboboxWidget),
		choices: make(map[string][]string),
		texts:   make(map[string]*TextWidget),
	}
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	label := func(text string) {
		lbl := Label(Txt(text), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	}
	makeCombo := func(id, text string, values []string, current string) {
		label(text)
		w := TCombobox(Values(values), Width(18), State("readonly"))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Current(indexOf(values, current))
		v.combos[id] = w
		v.choices[id] = values
		row++
	}
	makeText := func(id, text, value string) {
		label(text)
		w := Text(Height(1), Width(18))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.texts[id] = w
		row++
	}
	makeCombo("facing", "Camera", facingChoices, c.Facing)
	makeCombo("preset", "Resolution", presetChoices, c.Preset)
	makeCombo("orientation", "Orientation", orientationChoices, c.Orientation)
	makeText("mirror", "Mirror (true/false)", strconv.FormatBool(c.Mirror))
	makeText("deviceID", "Device ID (optional)", c.DeviceID)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state, comboState := "disabled", "disabled"
	if enabled {
		state, comboState = "normal", "readonly"
	}
	for _, w := range v.texts {
		if w != nil {
			w.Configure(State(state))
		}
	}
	for _, w := range v.combos {
		if w != nil {
			w.Configure(State(comboState))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) string {
	w := v.texts[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *configPanel) selected(id string) (string, bool) {
	w := v.combos[id]
	if w == nil {
		return "", false
	}
	idx, err := strconv.Atoi(w.Current(nil))
	values := v.choices[id]
	if err != nil || idx < 0 || idx >= len(values) {
		if v.logger != nil {
			v.logger.Error("config selection parse error", "field", id, "error", err)
		}
		return "", false
	}
	return values[idx], true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	if s, ok := v.selected("facing"); ok {
		cfg.Facing = s
	}
	if s, ok := v.selected("preset"); ok {
		cfg.Preset = s
	}
	if s, ok := v.selected("orientation"); ok {
		cfg.Orientation = s
	}
	if b, ok := parseBoolLoose(v.text("mirror")); ok {
		cfg.Mirror = b
	}
	cfg.DeviceID = v.text("deviceID")
	if err := cfg.Validate(); err != nil {
		if v.logger != nil {
			v.logger.Warn("config rejected", "error", err)
		}
		return
	}
	*v.cfg = cfg
	if v.cfgPath != "" {
		if err := v.cfg.Save(v.cfgPath); err != nil {
			if v.logger != nil {
				v.logger.Error("config save failed", "error", err)
			}
		} else if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
	if v.onApply != nil {
		v.onApply(v.cfg.CaptureConfiguration())
	}
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
