package overlay

import (
	"github.com/framemark/framemark/internal/draw"
	"github.com/framemark/framemark/internal/frame"
)

// patch is a rendered overlay, ready to be composited. Its anchor and
// dimensions are stored at render time and reused verbatim at composite
// time, so the two can never disagree.
type patch struct {
	plane frame.Plane
	x     int
	y     int
}

// renderPatch renders text into a standalone single-channel patch.
// It returns nil when the measured bounding box is degenerate.
func renderPatch(res *resolved, text string, g frame.Geometry, drawer draw.TextDrawer) *patch {
	textW, textH, baseline := drawer.MeasureText(text, res.scale, res.thickness)
	if textW <= 0 || (textH+baseline) <= 0 {
		return nil
	}

	border := res.borderWidth

	patchW := textW + 2*border
	patchH := textH + baseline + 2*border

	// the anchor keeps the text box within the frame; the border may
	// still exceed it, in which case compositing skips the overlay.
	xPos := clamp(res.x, 0, g.Width-textW)
	yPos := clamp(res.y, textH+baseline, g.Height-baseline)

	p := &patch{
		plane: frame.Plane{
			Pix:    make([]byte, patchW*patchH),
			Width:  patchW,
			Height: patchH,
			Stride: patchW,
		},
		x: xPos,
		y: yPos - textH - border,
	}

	if border > 0 {
		drawer.FillRect(&p.plane, 0, 0, patchW, patchH, res.borderColor)
	}

	if res.background != nil {
		drawer.FillRect(&p.plane, border, border, textW, textH+baseline, *res.background)
	}

	drawer.DrawText(&p.plane, text, border, border+textH, res.scale, res.foreground, res.thickness)

	return p
}

// clamp limits v to [lo, hi], hi prevailing when the range is inverted.
func clamp(v int, lo int, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
