// Package stage contains auxiliary processing stages.
package stage

import (
	"github.com/framemark/framemark/internal/frame"
)

// Negate inverts the luma plane of every frame.
type Negate struct{}

// Name implements defs.Stage.
func (*Negate) Name() string {
	return "negate"
}

// Configure implements defs.Stage.
func (*Negate) Configure(g frame.Geometry) error {
	return g.Validate()
}

// Process implements defs.Stage.
func (*Negate) Process(f *frame.Frame) bool {
	for i, v := range f.Y.Pix {
		f.Y.Pix[i] = 255 - v
	}
	return false
}

// Close implements defs.Stage.
func (*Negate) Close() {
}
