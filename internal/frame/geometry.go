package frame

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a pixel format cannot be processed.
var ErrUnsupportedFormat = errors.New("unsupported pixel format: only planar YUV 4:2:0 is supported")

// PixelFormat is the pixel format of a frame.
type PixelFormat int

// Pixel formats.
const (
	// PixelFormatI420 is planar YUV 4:2:0 with 8 bits per sample.
	PixelFormatI420 PixelFormat = iota

	// PixelFormatNV12 is semi-planar YUV 4:2:0. Recognized but not processable.
	PixelFormatNV12

	// PixelFormatRGB24 is packed RGB. Recognized but not processable.
	PixelFormatRGB24
)

// String implements fmt.Stringer.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatI420:
		return "I420"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatRGB24:
		return "RGB24"
	}
	return "unknown"
}

// Geometry describes the fixed geometry of a frame sequence.
type Geometry struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
}

// Validate checks whether the geometry can be processed.
func (g Geometry) Validate() error {
	if g.PixelFormat != PixelFormatI420 {
		return ErrUnsupportedFormat
	}

	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", g.Width, g.Height)
	}

	// chroma subsampling requires even dimensions
	if (g.Width%2) != 0 || (g.Height%2) != 0 {
		return fmt.Errorf("frame size %dx%d is not a multiple of 2", g.Width, g.Height)
	}

	return nil
}
