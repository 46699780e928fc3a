// Package gui runs the Tk window: it attaches the root view to the capture
// pipeline and drives presenters from the Tk event loop.
package gui

import (
	"context"
	"fmt"
	"time"

	tk "modernc.org/tk9.0"

	"github.com/soocke/frontcam-go/app"
	"github.com/soocke/frontcam-go/ui/presenter"
	"github.com/soocke/frontcam-go/ui/theme"
	"github.com/soocke/frontcam-go/ui/view"
)

// tick paces the UI loop; every tick drains queued renders.
const tick = 33 * time.Millisecond

// Window is the windowed application shell.
type Window struct {
	c       *app.AppContainer
	title   string
	width   int
	height  int
	afterID string
	cancel  context.CancelFunc

	root    *view.RootView
	capture *presenter.CapturePresenter
	loop    *presenter.Loop
}

func NewWindow(title string, c *app.AppContainer) *Window {
	return &Window{c: c, title: title, width: c.Config.WindowWidth, height: c.Config.WindowHeight}
}

// Start builds the window, starts capture and blocks in the Tk event loop
// until the window closes.
func (a *Window) Start() error {
	if a.c.UIQueue == nil {
		return fmt.Errorf("gui: container built headless")
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	tk.App.WmTitle(a.title)
	tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", a.exitHandler)
	tk.WmGeometry(tk.App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))
	theme.InitStyles()

	c := a.c
	a.root = view.NewRootView(c.Config, c.CfgPath, c.Logger)
	a.capture = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, a.root)
	a.root.Build(view.Handlers{
		ToggleCapture: a.capture.Toggle,
		Tap:           a.capture.Restart,
		ToggleTheme:   func() { theme.ToggleDark() },
		Apply:         a.capture.Apply,
		Exit:          a.exitHandler,
	})
	a.root.Resize(a.width, a.height)
	c.AddSink(a.root)

	state := presenter.NewStatePresenter(c.CaptureSvc, c.Capture, a.root)
	sess := presenter.NewSessionPresenter(c.SessionModel, c.Capture, c.CaptureSvc, a.root)
	a.loop = presenter.NewLoop(c.UIQueue, state, sess, a.scheduleUpdate)

	if c.Web != nil {
		go func() {
			if err := c.Web.Run(ctx); err != nil {
				c.Logger.Error("web preview stopped", "error", err)
			}
		}()
	}

	// Capture starts with the window, as the camera view appears.
	a.capture.Enable()
	a.scheduleUpdate()
	tk.App.Wait()
	return nil
}

func (a *Window) scheduleUpdate() {
	// TclAfter keeps the loop on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, func() { a.loop.Tick() })
}

func (a *Window) exitHandler() {
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.c.Close(); err != nil {
		a.c.Logger.Error("shutdown", "error", err)
	}
	tk.Destroy(tk.App)
}
