package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/soocke/frontcam-go/domain/capture"
)

// Config holds runtime configuration for capture, display and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"` // debug, info, warn, error

	// Capture source
	Backend     string `json:"backend"` // camera, screen, pattern, gocv
	Facing      string `json:"facing"`
	Preset      string `json:"preset"`
	DeviceID    string `json:"device_id,omitempty"`
	Mirror      bool   `json:"mirror"`
	Orientation string `json:"orientation"`

	// Frame handoff
	CallbackOnSessionQueue bool `json:"callback_on_session_queue"`
	SyncHandoff            bool `json:"sync_handoff"`
	FlipVertical           bool `json:"flip_vertical"`

	// Display
	Headless     bool   `json:"headless"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	WebAddr      string `json:"web_addr,omitempty"` // empty disables the web preview
	JPEGQuality  int    `json:"jpeg_quality"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		LogLevel:     "info",
		Backend:      "camera",
		Facing:       capture.FacingFront.String(),
		Preset:       capture.PresetVGA640x480.String(),
		Mirror:       true,
		Orientation:  capture.OrientationPortrait.String(),
		FlipVertical: true,
		WindowWidth:  800,
		WindowHeight: 600,
		JPEGQuality:  80,
	}
}

// Validate clamps/normalizes values to safe ranges. Unknown enum names are
// reported; the offending field is reset to its default.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var errs []string
	if _, err := capture.ParseFacing(c.Facing); err != nil {
		errs = append(errs, err.Error())
		c.Facing = def.Facing
	}
	if _, err := capture.ParsePreset(c.Preset); err != nil {
		errs = append(errs, err.Error())
		c.Preset = def.Preset
	}
	if _, err := capture.ParseOrientation(c.Orientation); err != nil {
		errs = append(errs, err.Error())
		c.Orientation = def.Orientation
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
		c.LogLevel = def.LogLevel
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.WindowWidth < 200 {
		c.WindowWidth = def.WindowWidth
	}
	if c.WindowHeight < 150 {
		c.WindowHeight = def.WindowHeight
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = def.JPEGQuality
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// CaptureConfiguration converts the capture fields. Call Validate first;
// unparseable names fall back to their defaults.
func (c *Config) CaptureConfiguration() capture.CaptureConfiguration {
	facing, _ := capture.ParseFacing(c.Facing)
	preset, _ := capture.ParsePreset(c.Preset)
	orientation, _ := capture.ParseOrientation(c.Orientation)
	return capture.CaptureConfiguration{
		Facing:                 facing,
		Preset:                 preset,
		Mirror:                 c.Mirror,
		Orientation:            orientation,
		DeviceID:               c.DeviceID,
		CallbackOnSessionQueue: c.CallbackOnSessionQueue,
	}
}

// SetCaptureConfiguration stores cc back into the string fields.
func (c *Config) SetCaptureConfiguration(cc capture.CaptureConfiguration) {
	c.Facing = cc.Facing.String()
	c.Preset = cc.Preset.String()
	c.Mirror = cc.Mirror
	c.Orientation = cc.Orientation.String()
	c.DeviceID = cc.DeviceID
	c.CallbackOnSessionQueue = cc.CallbackOnSessionQueue
}

// Level returns the slog level, forced to debug when Debug is set.
func (c *Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
