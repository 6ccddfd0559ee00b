package overlay

import (
	"math"
	"strings"
	"time"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/frame"
)

// reference frame width of scale and thickness normalization.
const (
	scaleReferenceWidth     = 1200
	thicknessReferenceWidth = 700
)

// resolved is an overlay configuration projected onto a stream geometry.
// It is computed once, when the stream geometry becomes known, and is
// immutable afterwards.
type resolved struct {
	name        string
	text        string
	dynamic     bool
	x           int
	y           int
	foreground  uint8
	background  *uint8
	scale       float64
	thickness   int
	borderWidth int
	borderColor uint8
	interval    time.Duration
}

// resolve projects an overlay configuration onto a stream geometry.
// Scale and thickness are normalized against a reference width so that
// overlays keep their relative size across resolutions. The background
// value, when present, is blended with the configured alpha against a
// neutral black at this point, so that compositing can later degenerate
// to a plain copy.
func resolve(o conf.Overlay, g frame.Geometry) resolved {
	r := resolved{
		name:        o.Name,
		text:        o.Text,
		dynamic:     strings.ContainsRune(o.Text, '%'),
		x:           o.X.Resolve(g.Width),
		y:           o.Y.Resolve(g.Height),
		foreground:  uint8(o.Foreground),
		scale:       o.Scale * float64(g.Width) / scaleReferenceWidth,
		thickness:   max(1, o.Thickness*g.Width/thicknessReferenceWidth),
		borderWidth: o.BorderWidth,
		borderColor: uint8(o.BorderColor),
		interval:    time.Duration(o.UpdateInterval),
	}

	if o.Background != nil {
		baked := uint8(math.Round(float64(*o.Background) * o.Alpha))
		r.background = &baked
	}

	return r
}
