// Package draw contains the text drawing backends.
package draw

import (
	"github.com/framemark/framemark/internal/frame"
)

// TextDrawer draws text on single-channel planes.
type TextDrawer interface {
	// MeasureText returns the size of the box occupied by text above the
	// baseline, and the extent of the descender below the baseline.
	MeasureText(text string, scale float64, thickness int) (w int, h int, baseline int)

	// DrawText draws text with its baseline origin at (x, y),
	// blending anti-aliased edges with the existing content.
	DrawText(dst *frame.Plane, text string, x int, y int, scale float64, value uint8, thickness int)

	// FillRect fills a rectangle with a value.
	FillRect(dst *frame.Plane, x int, y int, w int, h int, value uint8)

	// Close releases the resources of the drawer.
	Close() error
}

func fillRect(dst *frame.Plane, x int, y int, w int, h int, value uint8) {
	for yy := y; yy < y+h; yy++ {
		row := dst.Pix[yy*dst.Stride+x : yy*dst.Stride+x+w]
		for i := range row {
			row[i] = value
		}
	}
}
