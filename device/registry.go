// Package device provides capture backends: real cameras, the screen, a
// synthetic test pattern and, when built with the gocv tag, OpenCV devices.
package device

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/soocke/frontcam-go/domain/capture"
)

// Constructor builds a backend.
type Constructor func(logger *slog.Logger) (capture.Backend, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a backend available to Open under name.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// Names lists registered backends in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend registered under name.
func Open(name string, logger *slog.Logger) (capture.Backend, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("device: unknown backend %q (have %v)", name, Names())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return ctor(logger.With("backend", name))
}

func init() {
	Register("camera", func(l *slog.Logger) (capture.Backend, error) { return NewCameraBackend(l), nil })
	Register("screen", func(l *slog.Logger) (capture.Backend, error) { return NewScreenBackend(l, DefaultScreenFPS), nil })
	Register("pattern", func(l *slog.Logger) (capture.Backend, error) { return NewPatternBackend(DefaultPatternFPS), nil })
}
