package app

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/frontcam-go/config"
	"github.com/soocke/frontcam-go/device"
	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/model"
	"github.com/soocke/frontcam-go/ui/presenter"
	"github.com/soocke/frontcam-go/web"
)

// mainThread is the display thread handoff: the Tk tick queue in windowed
// mode, a plain queue when headless.
type mainThread interface {
	capture.MainThread
	Close()
}

// AppContainer assembles the backend, capture pipeline, models and
// presenters. Views are attached by the windowed App.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Backend    capture.Backend
	Main       mainThread
	UIQueue    *presenter.MainQueue // nil when headless
	Session    *capture.Session
	Dispatcher *capture.Dispatcher
	CaptureSvc capture.CaptureService
	Web        *web.Server // nil unless WebAddr is set

	Capture      *model.CaptureModel
	SessionModel *model.SessionModel

	sinks capture.MultiSink
}

// BuildContainer constructs all components. Nothing starts capturing yet.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	backend, err := device.Open(cfg.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("app: backend: %w", err)
	}
	c.Backend = backend

	if cfg.Headless {
		c.Main = capture.NewQueue("main", logger)
	} else {
		c.UIQueue = presenter.NewMainQueue(logger)
		c.Main = c.UIQueue
	}

	c.Session = capture.NewSession(backend, c.Main, logger)
	renderer := capture.NewRenderer(capture.RenderOptions{FlipVertical: cfg.FlipVertical})
	c.Dispatcher = capture.NewDispatcher(renderer, capture.SinkFunc(c.show), c.Main, logger)
	c.Dispatcher.SetSyncHandoff(cfg.SyncHandoff)
	c.CaptureSvc = capture.NewCaptureService(c.Session, c.Dispatcher, cfg.CaptureConfiguration(), logger)

	if cfg.WebAddr != "" {
		c.Web = web.NewServer(cfg.WebAddr, c.CaptureSvc, cfg.JPEGQuality, logger)
		c.AddSink(c.Web)
	}

	c.Capture = &model.CaptureModel{}
	c.SessionModel = model.NewSessionModel()
	logger.Info("container built",
		"backend", backend.Name(),
		"devices", len(backend.Devices()),
		"headless", cfg.Headless,
		"web", cfg.WebAddr != "",
	)
	return c, nil
}

// AddSink attaches a display sink. Call before capture starts.
func (c *AppContainer) AddSink(s capture.DisplaySink) {
	c.sinks = append(c.sinks, s)
}

func (c *AppContainer) show(img image.Image) { c.sinks.Show(img) }

// Close stops capture and releases the device, then shuts the main thread
// handoff so no delivery blocks on it.
func (c *AppContainer) Close() error {
	c.Main.Close()
	return c.CaptureSvc.Close()
}
