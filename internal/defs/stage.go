// Package defs contains shared definitions.
package defs

import (
	"github.com/framemark/framemark/internal/frame"
)

// Stage is a frame post-processing stage.
type Stage interface {
	// Name returns the name of the stage.
	Name() string

	// Configure binds the stage to a fixed frame geometry.
	// It is called once, before the first frame is processed.
	Configure(frame.Geometry) error

	// Process transforms a frame in place.
	// Returning true drops the frame from the stream.
	Process(*frame.Frame) bool

	// Close releases the resources of the stage.
	Close()
}
