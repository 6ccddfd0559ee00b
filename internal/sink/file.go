// Package sink contains frame sinks.
package sink

import (
	"bufio"
	"os"

	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/logger"
	"github.com/framemark/framemark/internal/protocols/y4m"
)

// File writes frames to a YUV4MPEG2 file, or to standard output when
// the path is "-".
type File struct {
	Path      string
	Geometry  frame.Geometry
	Framerate float64
	Parent    logger.Writer

	fi     *os.File
	bw     *bufio.Writer
	writer *y4m.Writer
}

// Initialize initializes the sink.
func (s *File) Initialize() error {
	if s.Path == "-" {
		s.fi = os.Stdout
	} else {
		var err error
		s.fi, err = os.Create(s.Path)
		if err != nil {
			return err
		}
	}

	s.bw = bufio.NewWriter(s.fi)

	writer, err := y4m.NewWriter(s.bw, s.Geometry, s.Framerate)
	if err != nil {
		if s.fi != os.Stdout {
			s.fi.Close()
		}
		return err
	}
	s.writer = writer

	s.Log(logger.Info, "opened %s", s.Path)

	return nil
}

// Log implements logger.Writer.
func (s *File) Log(level logger.Level, format string, args ...interface{}) {
	s.Parent.Log(level, "[sink] "+format, args...)
}

// WriteFrame implements defs.Sink.
func (s *File) WriteFrame(f *frame.Frame) error {
	return s.writer.WriteFrame(f)
}

// Close implements defs.Sink.
func (s *File) Close() error {
	err := s.bw.Flush()

	if s.fi != os.Stdout {
		if err2 := s.fi.Close(); err == nil {
			err = err2
		}
	}

	return err
}
