package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// statsInterval paces the headless progress log.
const statsInterval = 10 * time.Second

// RunHeadless captures without a window until ctx is done. Frames go to the
// web preview when configured; otherwise they are only counted.
func (c *AppContainer) RunHeadless(ctx context.Context) error {
	c.Capture.SetEnabled(true)
	c.CaptureSvc.Start()

	g, ctx := errgroup.WithContext(ctx)
	if c.Web != nil {
		g.Go(func() error { return c.Web.Run(ctx) })
	}
	g.Go(func() error {
		t := time.NewTicker(statsInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-t.C:
				c.logProgress(now)
			}
		}
	})
	err := g.Wait()
	if cerr := c.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (c *AppContainer) logProgress(now time.Time) {
	st := c.CaptureSvc.Stats()
	c.SessionModel.OnTick(c.CaptureSvc.Running(), st.Dispatch.Rendered, now)
	v := c.SessionModel.Values()
	c.Logger.Info("capture progress",
		"state", st.Session.State.String(),
		"session", v.Session.Round(time.Second).String(),
		"fps", v.FPS,
		"rendered", st.Dispatch.Rendered,
		"dropped", st.Dispatch.Dropped(),
		"setup_error", st.SetupError,
	)
}
