package capture

import "image"

// MultiSink shows every frame on each of its sinks in order.
type MultiSink []DisplaySink

func (m MultiSink) Show(img image.Image) {
	for _, s := range m {
		if s != nil {
			s.Show(img)
		}
	}
}

// SinkFunc adapts a function to DisplaySink.
type SinkFunc func(img image.Image)

func (f SinkFunc) Show(img image.Image) { f(img) }
