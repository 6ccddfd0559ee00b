package defs

import (
	"github.com/framemark/framemark/internal/frame"
)

// Source is an origin of raw frames.
type Source interface {
	// Geometry returns the fixed geometry of the stream.
	Geometry() frame.Geometry

	// Framerate returns the nominal frame rate.
	Framerate() float64

	// ReadFrame fills f with the next frame.
	// It returns io.EOF when the stream is over.
	ReadFrame(f *frame.Frame) error

	// Close releases the resources of the source.
	Close() error
}

// Sink is a destination for processed frames.
type Sink interface {
	// WriteFrame writes a frame.
	WriteFrame(f *frame.Frame) error

	// Close releases the resources of the sink.
	Close() error
}
