package device

import (
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/soocke/frontcam-go/domain/capture"
)

// softConnection applies orientation and mirroring in software for drivers
// that deliver frames as-is.
type softConnection struct {
	mu          sync.RWMutex
	orientation capture.Orientation
	mirrored    bool
}

func newSoftConnection() *softConnection { return &softConnection{} }

func (c *softConnection) OrientationSupported() bool { return true }

func (c *softConnection) SetOrientation(o capture.Orientation) {
	c.mu.Lock()
	c.orientation = o
	c.mu.Unlock()
}

func (c *softConnection) Orientation() capture.Orientation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orientation
}

func (c *softConnection) SetMirrored(m bool) {
	c.mu.Lock()
	c.mirrored = m
	c.mu.Unlock()
}

// apply returns img rotated and mirrored per the current settings, or img
// itself when no correction is needed.
func (c *softConnection) apply(img image.Image) image.Image {
	c.mu.RLock()
	o, mirrored := c.orientation, c.mirrored
	c.mu.RUnlock()

	var out *image.NRGBA
	switch o {
	case capture.OrientationPortraitUpsideDown:
		out = imaging.Rotate180(img)
	case capture.OrientationLandscapeLeft:
		out = imaging.Rotate90(img)
	case capture.OrientationLandscapeRight:
		out = imaging.Rotate270(img)
	}
	if mirrored {
		if out != nil {
			out = imaging.FlipH(out)
		} else {
			out = imaging.FlipH(img)
		}
	}
	if out == nil {
		return img
	}
	return out
}
