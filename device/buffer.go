package device

import (
	"errors"
	"image"
	"sync"
)

var errNoImage = errors.New("device: buffer has no image")

// imageBuffer adapts a driver frame plus its release callback to
// capture.PixelBuffer.
type imageBuffer struct {
	img     image.Image
	release func()
	conn    *softConnection
	owned   bool

	lockOnce sync.Once
	locked   image.Image
	relOnce  sync.Once
}

func newImageBuffer(img image.Image, release func(), conn *softConnection, owned bool) *imageBuffer {
	return &imageBuffer{img: img, release: release, conn: conn, owned: owned}
}

func (b *imageBuffer) Lock() (image.Image, error) {
	if b.img == nil {
		return nil, errNoImage
	}
	b.lockOnce.Do(func() {
		b.locked = b.img
		if b.conn != nil {
			if out := b.conn.apply(b.img); out != b.img {
				b.locked = out
				b.owned = true
			}
		}
	})
	return b.locked, nil
}

func (b *imageBuffer) Unlock() {}

func (b *imageBuffer) Release() {
	b.relOnce.Do(func() {
		if b.release != nil {
			b.release()
		}
	})
}

// Owned reports whether the locked image is a private allocation.
func (b *imageBuffer) Owned() bool { return b.owned }
