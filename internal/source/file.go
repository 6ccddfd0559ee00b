// Package source contains frame sources.
package source

import (
	"os"
	"time"

	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/frameinfo"
	"github.com/framemark/framemark/internal/logger"
	"github.com/framemark/framemark/internal/protocols/y4m"
)

// File reads frames from a YUV4MPEG2 file, or from standard input when
// the path is "-".
type File struct {
	Path   string
	Parent logger.Writer

	fi       *os.File
	reader   *y4m.Reader
	sequence uint64
}

// Initialize initializes the source.
func (s *File) Initialize() error {
	if s.Path == "-" {
		s.fi = os.Stdin
	} else {
		var err error
		s.fi, err = os.Open(s.Path)
		if err != nil {
			return err
		}
	}

	reader, err := y4m.NewReader(s.fi)
	if err != nil {
		if s.fi != os.Stdin {
			s.fi.Close()
		}
		return err
	}
	s.reader = reader

	g := s.reader.Geometry()
	s.Log(logger.Info, "opened %s (%dx%d, %.2f fps)",
		s.Path, g.Width, g.Height, s.reader.Framerate())

	return nil
}

// Log implements logger.Writer.
func (s *File) Log(level logger.Level, format string, args ...interface{}) {
	s.Parent.Log(level, "[source] "+format, args...)
}

// Geometry implements defs.Source.
func (s *File) Geometry() frame.Geometry {
	return s.reader.Geometry()
}

// Framerate implements defs.Source.
func (s *File) Framerate() float64 {
	return s.reader.Framerate()
}

// ReadFrame implements defs.Source.
func (s *File) ReadFrame(f *frame.Frame) error {
	err := s.reader.ReadFrame(f)
	if err != nil {
		return err
	}

	f.Meta = frameinfo.Info{
		Sequence: s.sequence,
		FPS:      s.reader.Framerate(),
	}
	f.PTS = time.Duration(float64(s.sequence) * float64(time.Second) / s.reader.Framerate())
	s.sequence++

	return nil
}

// Close implements defs.Source.
func (s *File) Close() error {
	if s.fi != nil && s.fi != os.Stdin {
		return s.fi.Close()
	}
	return nil
}
