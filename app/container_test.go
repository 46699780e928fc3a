package app

import (
	"context"
	"image"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/frontcam-go/config"
	"github.com/soocke/frontcam-go/domain/capture"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func headlessConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Backend = "pattern"
	cfg.Headless = true
	cfg.Preset = "low"
	return cfg
}

func TestBuildContainer_UnknownBackend(t *testing.T) {
	cfg := headlessConfig()
	cfg.Backend = "nope"
	if _, err := BuildContainer(cfg, "", testLogger()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestBuildContainer_WindowedUsesTickQueue(t *testing.T) {
	cfg := headlessConfig()
	cfg.Headless = false
	c, err := BuildContainer(cfg, "", testLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	if c.UIQueue == nil || c.Main != c.UIQueue {
		t.Fatal("windowed container must hand off through the UI queue")
	}
	if c.Web != nil {
		t.Fatal("web server built without address")
	}
}

func TestRunHeadless_RendersPatternFrames(t *testing.T) {
	c, err := BuildContainer(headlessConfig(), "", testLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var shown atomic.Int32
	c.AddSink(capture.SinkFunc(func(img image.Image) {
		if img.Bounds().Dx() == 320 {
			shown.Add(1)
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.RunHeadless(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for shown.Load() < 3 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("only %d frames shown; stats %+v", shown.Load(), c.CaptureSvc.Stats())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.CaptureSvc.Running() {
		t.Fatal("still running after shutdown")
	}
	if in, out := c.Session.Bindings(); in != 0 || out != 0 {
		t.Fatalf("bindings left after shutdown: %d/%d", in, out)
	}
}
