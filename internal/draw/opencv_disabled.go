//go:build !gocv

package draw

import (
	"fmt"
)

// NewOpenCV allocates a TextDrawer based on the OpenCV Hershey simplex font.
func NewOpenCV() (TextDrawer, error) {
	return nil, fmt.Errorf("binary was compiled without support for the OpenCV text backend")
}
