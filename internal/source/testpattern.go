package source

import (
	"fmt"
	"io"
	"time"

	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/frameinfo"
	"github.com/framemark/framemark/internal/logger"
)

// TestPattern generates a diagonal luma gradient that shifts on every
// frame, with neutral chroma. Frame metadata is filled with plausible
// demo values so that metadata placeholders expand to something visible.
type TestPattern struct {
	Width  int
	Height int
	FPS    int
	Frames int
	Parent logger.Writer

	sequence uint64
}

// Initialize initializes the source.
func (s *TestPattern) Initialize() error {
	err := s.Geometry().Validate()
	if err != nil {
		return err
	}

	if s.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", s.FPS)
	}

	s.Log(logger.Info, "test pattern created (%dx%d, %d fps, %d frames)",
		s.Width, s.Height, s.FPS, s.Frames)

	return nil
}

// Log implements logger.Writer.
func (s *TestPattern) Log(level logger.Level, format string, args ...interface{}) {
	s.Parent.Log(level, "[source] "+format, args...)
}

// Geometry implements defs.Source.
func (s *TestPattern) Geometry() frame.Geometry {
	return frame.Geometry{
		Width:       s.Width,
		Height:      s.Height,
		PixelFormat: frame.PixelFormatI420,
	}
}

// Framerate implements defs.Source.
func (s *TestPattern) Framerate() float64 {
	return float64(s.FPS)
}

// ReadFrame implements defs.Source. A frame count of zero produces an
// endless stream.
func (s *TestPattern) ReadFrame(f *frame.Frame) error {
	if s.Frames > 0 && s.sequence >= uint64(s.Frames) {
		return io.EOF
	}

	shift := int(s.sequence) * 2

	for y := 0; y < f.Y.Height; y++ {
		row := f.Y.Row(y)
		for x := range row {
			row[x] = byte(x + y + shift)
		}
	}

	for i := range f.U.Pix {
		f.U.Pix[i] = 128
	}
	for i := range f.V.Pix {
		f.V.Pix[i] = 128
	}

	f.Meta = frameinfo.Info{
		Sequence:     s.sequence,
		FPS:          float64(s.FPS),
		ExposureTime: time.Second / time.Duration(s.FPS),
		AnalogueGain: 1.0,
		DigitalGain:  1.0,
		FocusMeasure: float64(s.sequence % 100),
		Lux:          400,
	}
	f.PTS = time.Duration(s.sequence) * time.Second / time.Duration(s.FPS)
	s.sequence++

	return nil
}

// Close implements defs.Source.
func (s *TestPattern) Close() error {
	return nil
}
