package overlay

import (
	"fmt"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/cespare/xxhash/v2"

	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/draw"
	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/frameinfo"
)

// entry is the cache of a single overlay. It is either empty (no patch)
// or cached (patch present, with the time it was rendered at).
type entry struct {
	res      resolved
	geometry frame.Geometry
	drawer   draw.TextDrawer

	patch          *patch
	lastUpdated    time.Time
	permanentEmpty bool

	lastText      string
	digest        uint64
	regenerations uint64
	identical     uint64
	skips         uint64
}

// refresh brings the cached patch up to date. It performs at most one
// staleness check and one regeneration per call.
func (e *entry) refresh(now time.Time, info frameinfo.Info) {
	if e.permanentEmpty {
		return
	}

	if !e.res.dynamic {
		if e.patch != nil {
			return
		}

		// static text never changes; a first render that produces
		// nothing can never recover.
		if e.res.text == "" || !e.regenerate(e.res.text, now) {
			e.permanentEmpty = true
		}
		return
	}

	if e.patch != nil && now.Sub(e.lastUpdated) < e.res.interval {
		return
	}

	text := expandText(e.res.text, info, now)
	if text == "" {
		e.patch = nil
		return
	}

	e.regenerate(text, now)
}

// regenerate renders a new patch and replaces the cached one.
func (e *entry) regenerate(text string, now time.Time) bool {
	p := renderPatch(&e.res, text, e.geometry, e.drawer)
	if p == nil {
		e.patch = nil
		return false
	}

	digest := xxhash.Sum64(p.plane.Pix)
	if e.patch != nil && digest == e.digest {
		e.identical++
	}

	e.patch = p
	e.digest = digest
	e.lastText = text
	e.lastUpdated = now
	e.regenerations++

	return true
}

func (e *entry) apiItem() *defs.APIOverlay {
	item := &defs.APIOverlay{
		Name:                   e.res.name,
		Dynamic:                e.res.dynamic,
		State:                  "empty",
		LastText:               e.lastText,
		Regenerations:          e.regenerations,
		IdenticalRegenerations: e.identical,
		Skips:                  e.skips,
	}

	if e.patch != nil {
		lastUpdated := e.lastUpdated

		item.State = "cached"
		item.PatchX = e.patch.x
		item.PatchY = e.patch.y
		item.PatchWidth = e.patch.plane.Width
		item.PatchHeight = e.patch.plane.Height
		item.LastUpdated = &lastUpdated
		item.CacheBytes = uint64(len(e.patch.plane.Pix))
		item.CacheSize = bytefmt.ByteSize(uint64(len(e.patch.plane.Pix)))
		item.Digest = fmt.Sprintf("%016x", e.digest)
	}

	return item
}
