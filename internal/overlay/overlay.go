// Package overlay composites text overlays onto the luma plane of frames.
package overlay

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/counterdumper"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/draw"
	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/logger"
)

// Stage composites text overlays onto frames.
//
// Each overlay owns a cached patch that is rendered lazily: once per
// session for static text, and whenever the update interval has elapsed
// for dynamic text. Every frame reuses the currently cached patch.
type Stage struct {
	Overlays []conf.Overlay
	Drawer   draw.TextDrawer
	Clock    clockwork.Clock
	Parent   logger.Writer

	mutex    sync.Mutex
	geometry frame.Geometry
	entries  []*entry
	skips    *counterdumper.CounterDumper
}

// Initialize initializes the stage.
func (s *Stage) Initialize() error {
	if s.Clock == nil {
		s.Clock = clockwork.NewRealClock()
	}

	s.skips = &counterdumper.CounterDumper{
		OnReport: func(val uint64) {
			s.Log(logger.Warn, "skipped %d overlay %s",
				val,
				func() string {
					if val == 1 {
						return "draw"
					}
					return "draws"
				}(),
			)
		},
	}
	s.skips.Start()

	return nil
}

// Close implements defs.Stage.
func (s *Stage) Close() {
	s.skips.Stop()
}

// Log implements logger.Writer.
func (s *Stage) Log(level logger.Level, format string, args ...interface{}) {
	s.Parent.Log(level, "[overlay] "+format, args...)
}

// Name implements defs.Stage.
func (s *Stage) Name() string {
	return "overlay"
}

// Configure implements defs.Stage.
func (s *Stage) Configure(g frame.Geometry) error {
	err := g.Validate()
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.geometry = g

	s.entries = make([]*entry, len(s.Overlays))
	for i, o := range s.Overlays {
		s.entries[i] = &entry{
			res:      resolve(o, g),
			geometry: g,
			drawer:   s.Drawer,
		}
	}

	s.Log(logger.Info, "configured %d overlay%s on %dx%d stream",
		len(s.entries),
		func() string {
			if len(s.entries) == 1 {
				return ""
			}
			return "s"
		}(),
		g.Width, g.Height)

	return nil
}

// Process implements defs.Stage. It never drops frames; overlays that
// cannot be drawn are skipped silently.
func (s *Stage) Process(f *frame.Frame) bool {
	now := s.Clock.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range s.entries {
		e.refresh(now, f.Meta)

		if e.patch == nil || !composite(&f.Y, e.patch) {
			e.skips++
			s.skips.Increase()
		}
	}

	return false
}

// ReloadOverlays replaces the overlay set while the stream is running.
// Cached patches of removed or changed overlays are discarded.
func (s *Stage) ReloadOverlays(overlays []conf.Overlay) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Overlays = overlays

	// not configured yet; Configure will pick up the new set.
	if s.geometry == (frame.Geometry{}) {
		return
	}

	s.entries = make([]*entry, len(overlays))
	for i, o := range overlays {
		s.entries[i] = &entry{
			res:      resolve(o, s.geometry),
			geometry: s.geometry,
			drawer:   s.Drawer,
		}
	}

	s.Log(logger.Info, "reloaded %d overlay%s",
		len(s.entries),
		func() string {
			if len(s.entries) == 1 {
				return ""
			}
			return "s"
		}(),
	)
}

// APIOverlaysList returns the runtime state of the overlays.
func (s *Stage) APIOverlaysList() *defs.APIOverlayList {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	items := make([]*defs.APIOverlay, len(s.entries))
	for i, e := range s.entries {
		items[i] = e.apiItem()
	}

	return &defs.APIOverlayList{
		Items: items,
	}
}
