package capture

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

var errFakeClosed = errors.New("fake output closed")

type fakeBuffer struct {
	img      image.Image
	lockErr  error
	owned    bool
	locked   atomic.Int32
	unlocked atomic.Int32
	released atomic.Int32
	id       int
}

func (b *fakeBuffer) Lock() (image.Image, error) {
	b.locked.Add(1)
	if b.lockErr != nil {
		return nil, b.lockErr
	}
	return b.img, nil
}
func (b *fakeBuffer) Unlock()     { b.unlocked.Add(1) }
func (b *fakeBuffer) Release()    { b.released.Add(1) }
func (b *fakeBuffer) Owned() bool { return b.owned }

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newFakeBuffer(id int) *fakeBuffer {
	return &fakeBuffer{id: id, img: solidImage(4, 3, color.RGBA{uint8(id), 0, 0, 255})}
}

type fakeConn struct {
	supported   bool
	orientation Orientation
	mirrored    bool
	applied     int
}

func (c *fakeConn) OrientationSupported() bool   { return c.supported }
func (c *fakeConn) SetOrientation(o Orientation) { c.orientation = o; c.applied++ }
func (c *fakeConn) Orientation() Orientation     { return c.orientation }
func (c *fakeConn) SetMirrored(m bool)           { c.mirrored = m }

type fakeInput struct {
	dev     DeviceInfo
	backend *fakeBackend
	once    sync.Once
}

func (i *fakeInput) Device() DeviceInfo { return i.dev }
func (i *fakeInput) Close() error {
	i.once.Do(func() { i.backend.liveInputs.Add(-1) })
	return nil
}

type fakeOutput struct {
	backend *fakeBackend
	frames  chan PixelBuffer
	closed  chan struct{}
	conn    *fakeConn
	once    sync.Once
}

func (o *fakeOutput) ReadBuffer() (PixelBuffer, error) {
	select {
	case buf := <-o.frames:
		return buf, nil
	case <-o.closed:
		return nil, errFakeClosed
	}
}

func (o *fakeOutput) Connection() Connection {
	if o.conn == nil {
		return nil
	}
	return o.conn
}

func (o *fakeOutput) Close() error {
	o.once.Do(func() {
		close(o.closed)
		o.backend.liveOutputs.Add(-1)
	})
	return nil
}

type fakeBackend struct {
	devices              []DeviceInfo
	inputErr             error
	outputErr            error
	orientationSupported bool
	// When set, OpenInput signals opening and then blocks until openGate is
	// closed, like a camera that is slow to come up.
	opening  chan struct{}
	openGate chan struct{}

	liveInputs  atomic.Int32
	liveOutputs atomic.Int32

	mu       sync.Mutex
	outputs  []*fakeOutput
	settings []OutputSettings
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		devices:              []DeviceInfo{{ID: "cam0", Label: "FaceTime HD Camera (front)", Facing: FacingFront}},
		orientationSupported: true,
	}
}

func (b *fakeBackend) Name() string          { return "fake" }
func (b *fakeBackend) Devices() []DeviceInfo { return b.devices }

func (b *fakeBackend) OpenInput(dev DeviceInfo, settings OutputSettings) (Input, error) {
	if b.openGate != nil {
		select {
		case b.opening <- struct{}{}:
		default:
		}
		<-b.openGate
	}
	if b.inputErr != nil {
		return nil, b.inputErr
	}
	b.liveInputs.Add(1)
	return &fakeInput{dev: dev, backend: b}, nil
}

func (b *fakeBackend) OpenOutput(in Input, settings OutputSettings) (Output, error) {
	if b.outputErr != nil {
		return nil, b.outputErr
	}
	out := &fakeOutput{
		backend: b,
		frames:  make(chan PixelBuffer, 8),
		closed:  make(chan struct{}),
		conn:    &fakeConn{supported: b.orientationSupported},
	}
	b.liveOutputs.Add(1)
	b.mu.Lock()
	b.outputs = append(b.outputs, out)
	b.settings = append(b.settings, settings)
	b.mu.Unlock()
	return out, nil
}

func (b *fakeBackend) lastOutput() *fakeOutput {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.outputs) == 0 {
		return nil
	}
	return b.outputs[len(b.outputs)-1]
}

func (b *fakeBackend) lastSettings() OutputSettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings[len(b.settings)-1]
}

// manualMain queues Async closures until run is called; Sync runs inline.
// Once closed it rejects both.
type manualMain struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
}

func (m *manualMain) Sync(fn func()) bool {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return false
	}
	fn()
	return true
}

func (m *manualMain) Async(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.pending = append(m.pending, fn)
	return true
}

func (m *manualMain) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *manualMain) run() int {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

type recordingSink struct {
	mu     sync.Mutex
	images []image.Image
}

func (s *recordingSink) Show(img image.Image) {
	s.mu.Lock()
	s.images = append(s.images, img)
	s.mu.Unlock()
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

func (s *recordingSink) at(i int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[i]
}
