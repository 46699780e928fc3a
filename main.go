package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/soocke/frontcam-go/app"
	"github.com/soocke/frontcam-go/app/gui"
	"github.com/soocke/frontcam-go/config"
	"github.com/soocke/frontcam-go/debug"
	"github.com/soocke/frontcam-go/device"
)

func main() {
	cfgPath := flag.String("config", "frontcam.json", "path to the JSON config file")
	backend := flag.String("backend", "", "capture backend: "+strings.Join(device.Names(), ", "))
	debugFlag := flag.Bool("debug", false, "debug logging and runtime stats")
	webAddr := flag.String("web", "", "serve the browser preview on this address, e.g. :8080")
	headless := flag.Bool("headless", false, "capture without a window")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config %s: %v (using defaults where invalid)\n", *cfgPath, err)
	}
	// Flags override file values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "debug":
			cfg.Debug = *debugFlag
		case "web":
			cfg.WebAddr = *webAddr
		case "headless":
			cfg.Headless = *headless
		}
	})
	_ = cfg.Validate()

	logger := NewLogger(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger)
		debug.StartMemLogger(ctx, 5*time.Second, logger)
	}

	c, err := app.BuildContainer(cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if cfg.Headless {
		if err := c.RunHeadless(ctx); err != nil {
			logger.Error("capture stopped", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := gui.NewWindow("Front Camera", c).Start(); err != nil {
		logger.Error("window failed", "error", err)
		os.Exit(1)
	}
}
