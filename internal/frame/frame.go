// Package frame contains the raw video frame model.
package frame

import (
	"time"

	"github.com/framemark/framemark/internal/frameinfo"
)

// Plane is a single-channel view over a pixel buffer.
type Plane struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// Row returns the given row of the plane.
func (p *Plane) Row(y int) []byte {
	start := y * p.Stride
	return p.Pix[start : start+p.Width]
}

// Frame is a raw video frame in I420 format.
// The three planes share a single contiguous buffer.
type Frame struct {
	Y Plane
	U Plane
	V Plane

	PTS  time.Duration
	Meta frameinfo.Info

	buf []byte
}

// New allocates a Frame with the given geometry.
func New(g Geometry) (*Frame, error) {
	err := g.Validate()
	if err != nil {
		return nil, err
	}

	lumaSize := g.Width * g.Height
	chromaW := g.Width / 2
	chromaH := g.Height / 2
	chromaSize := chromaW * chromaH

	buf := make([]byte, lumaSize+2*chromaSize)

	return &Frame{
		Y: Plane{
			Pix:    buf[:lumaSize],
			Width:  g.Width,
			Height: g.Height,
			Stride: g.Width,
		},
		U: Plane{
			Pix:    buf[lumaSize : lumaSize+chromaSize],
			Width:  chromaW,
			Height: chromaH,
			Stride: chromaW,
		},
		V: Plane{
			Pix:    buf[lumaSize+chromaSize:],
			Width:  chromaW,
			Height: chromaH,
			Stride: chromaW,
		},
		buf: buf,
	}, nil
}

// Geometry returns the geometry of the frame.
func (f *Frame) Geometry() Geometry {
	return Geometry{
		Width:       f.Y.Width,
		Height:      f.Y.Height,
		PixelFormat: PixelFormatI420,
	}
}

// Bytes returns the underlying buffer, with planes in Y, U, V order.
func (f *Frame) Bytes() []byte {
	return f.buf
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	c, _ := New(f.Geometry())
	copy(c.buf, f.buf)
	c.PTS = f.PTS
	c.Meta = f.Meta
	return c
}
