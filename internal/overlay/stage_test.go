package overlay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/draw"
	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/test"
)

// countingDrawer wraps a TextDrawer and counts the expensive calls.
type countingDrawer struct {
	draw.TextDrawer
	measureCalls int
	drawCalls    int
}

func (d *countingDrawer) MeasureText(text string, scale float64, thickness int) (int, int, int) {
	d.measureCalls++
	return d.TextDrawer.MeasureText(text, scale, thickness)
}

func (d *countingDrawer) DrawText(dst *frame.Plane, text string, x int, y int,
	scale float64, value uint8, thickness int,
) {
	d.drawCalls++
	d.TextDrawer.DrawText(dst, text, x, y, scale, value, thickness)
}

func newTestStage(t *testing.T, raw string, drawer draw.TextDrawer, clock clockwork.Clock) *Stage {
	var overlays []conf.Overlay
	err := json.Unmarshal([]byte(raw), &overlays)
	require.NoError(t, err)

	s := &Stage{
		Overlays: overlays,
		Drawer:   drawer,
		Clock:    clock,
		Parent:   test.NilLogger,
	}
	err = s.Initialize()
	require.NoError(t, err)

	return s
}

func newTestFrame(t *testing.T, g frame.Geometry, fill byte) *frame.Frame {
	f, err := frame.New(g)
	require.NoError(t, err)
	for i := range f.Y.Pix {
		f.Y.Pix[i] = fill
	}
	return f
}

func TestStageStatic(t *testing.T) {
	builtin, err := draw.NewBuiltin()
	require.NoError(t, err)
	defer builtin.Close()

	d := &countingDrawer{TextDrawer: builtin}

	s := newTestStage(t, `[{"text": "HELLO", "x": "10", "y": "30"}]`,
		d, clockwork.NewFakeClock())
	defer s.Close()

	err = s.Configure(testGeometry)
	require.NoError(t, err)

	f := newTestFrame(t, testGeometry, 16)
	require.False(t, s.Process(f))

	p := s.entries[0].patch
	require.NotNil(t, p)
	require.GreaterOrEqual(t, p.x, 0)
	require.GreaterOrEqual(t, p.y, 0)

	// the frame now contains exactly the patch at its anchor
	expected := make([]byte, len(f.Y.Pix))
	for i := range expected {
		expected[i] = 16
	}
	for row := 0; row < p.plane.Height; row++ {
		copy(expected[(p.y+row)*f.Y.Stride+p.x:], p.plane.Row(row))
	}
	require.Equal(t, expected, f.Y.Pix)

	measureCalls := d.measureCalls
	drawCalls := d.drawCalls
	require.NotZero(t, measureCalls)
	require.Equal(t, 1, drawCalls)

	// a second pass reuses the cached patch without drawing again
	for i := range f.Y.Pix {
		f.Y.Pix[i] = 16
	}
	require.False(t, s.Process(f))

	require.Equal(t, expected, f.Y.Pix)
	require.Equal(t, measureCalls, d.measureCalls)
	require.Equal(t, drawCalls, d.drawCalls)
}

func TestStageDynamicClock(t *testing.T) {
	builtin, err := draw.NewBuiltin()
	require.NoError(t, err)
	defer builtin.Close()

	start := time.Date(2024, 5, 10, 10, 59, 59, 700000000, time.UTC)
	clock := clockwork.NewFakeClockAt(start)

	s := newTestStage(t, `[{"text": "%H:%M", "update_interval": 1000}]`,
		builtin, clock)
	defer s.Close()

	err = s.Configure(testGeometry)
	require.NoError(t, err)

	f := newTestFrame(t, testGeometry, 16)

	s.Process(f)
	require.Equal(t, "10:59", s.entries[0].lastText)
	require.Equal(t, uint64(1), s.entries[0].regenerations)
	digest := s.entries[0].digest

	// the minute boundary passes, but the interval has not elapsed yet
	clock.Advance(400 * time.Millisecond)
	s.Process(f)
	require.Equal(t, "10:59", s.entries[0].lastText)
	require.Equal(t, uint64(1), s.entries[0].regenerations)
	require.Equal(t, digest, s.entries[0].digest)

	clock.Advance(600 * time.Millisecond)
	s.Process(f)
	require.Equal(t, "11:00", s.entries[0].lastText)
	require.Equal(t, uint64(2), s.entries[0].regenerations)
	require.NotEqual(t, digest, s.entries[0].digest)
}

func TestStageClipping(t *testing.T) {
	builtin, err := draw.NewBuiltin()
	require.NoError(t, err)
	defer builtin.Close()

	// the border pushes the patch beyond the right edge
	s := newTestStage(t, `[{"text": "CLIP", "x": "100%", "border_width": 2}]`,
		builtin, clockwork.NewFakeClock())
	defer s.Close()

	err = s.Configure(testGeometry)
	require.NoError(t, err)

	f := newTestFrame(t, testGeometry, 16)
	require.False(t, s.Process(f))

	require.NotNil(t, s.entries[0].patch)
	require.Equal(t, uint64(1), s.entries[0].skips)

	for _, v := range f.Y.Pix {
		require.Equal(t, byte(16), v)
	}
}

func TestStageUnsupportedFormat(t *testing.T) {
	s := newTestStage(t, `[{"text": "HELLO"}]`,
		&fakeDrawer{w: 40, h: 10, baseline: 3}, clockwork.NewFakeClock())
	defer s.Close()

	err := s.Configure(frame.Geometry{
		Width:       640,
		Height:      480,
		PixelFormat: frame.PixelFormatNV12,
	})
	require.ErrorIs(t, err, frame.ErrUnsupportedFormat)
}

func TestStageDrawOrder(t *testing.T) {
	// two static overlays at the same position: the later one wins
	d1 := &fakeDrawer{w: 20, h: 10, baseline: 2}

	s := newTestStage(t, `[
		{"text": "UNDER", "bg": 100, "alpha": 1, "x": "50", "y": "50"},
		{"text": "OVER", "bg": 180, "alpha": 1, "x": "50", "y": "50"}
	]`, d1, clockwork.NewFakeClock())
	defer s.Close()

	err := s.Configure(testGeometry)
	require.NoError(t, err)

	f := newTestFrame(t, testGeometry, 16)
	s.Process(f)

	p := s.entries[1].patch
	require.NotNil(t, p)
	require.Equal(t, byte(180), f.Y.Pix[(p.y+1)*f.Y.Stride+p.x+1])
}

func TestStageAPIList(t *testing.T) {
	d := &fakeDrawer{w: 40, h: 10, baseline: 3}

	s := newTestStage(t, `[{"name": "clock", "text": "HELLO", "x": "10", "y": "30"}]`,
		d, clockwork.NewFakeClock())
	defer s.Close()

	err := s.Configure(testGeometry)
	require.NoError(t, err)

	f := newTestFrame(t, testGeometry, 16)
	s.Process(f)

	list := s.APIOverlaysList()
	require.Len(t, list.Items, 1)

	item := list.Items[0]
	require.Equal(t, "clock", item.Name)
	require.False(t, item.Dynamic)
	require.Equal(t, "cached", item.State)
	require.Equal(t, "HELLO", item.LastText)
	require.Equal(t, 40, item.PatchWidth)
	require.Equal(t, 13, item.PatchHeight)
	require.Equal(t, uint64(520), item.CacheBytes)
	require.NotEmpty(t, item.CacheSize)
	require.NotEmpty(t, item.Digest)
	require.NotNil(t, item.LastUpdated)
	require.Equal(t, uint64(1), item.Regenerations)
	require.Zero(t, item.Skips)
}
