package overlay

import (
	"github.com/framemark/framemark/internal/frame"
)

// composite copies a patch into a plane at its stored anchor. Patches
// that do not lie entirely within the plane are skipped, leaving the
// plane untouched.
func composite(dst *frame.Plane, p *patch) bool {
	if p.x < 0 || p.y < 0 ||
		p.x+p.plane.Width > dst.Width ||
		p.y+p.plane.Height > dst.Height {
		return false
	}

	for row := 0; row < p.plane.Height; row++ {
		src := p.plane.Pix[row*p.plane.Stride : row*p.plane.Stride+p.plane.Width]
		off := (p.y+row)*dst.Stride + p.x
		copy(dst.Pix[off:off+p.plane.Width], src)
	}

	return true
}
