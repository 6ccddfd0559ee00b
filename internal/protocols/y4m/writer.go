package y4m

import (
	"fmt"
	"io"
	"math"

	"github.com/framemark/framemark/internal/frame"
)

// Writer writes YUV4MPEG2 streams.
type Writer struct {
	w io.Writer
}

// NewWriter allocates a Writer and writes the stream header.
func NewWriter(w io.Writer, g frame.Geometry, fps float64) (*Writer, error) {
	err := g.Validate()
	if err != nil {
		return nil, err
	}

	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %v", fps)
	}

	num, den := framerateToRational(fps)

	_, err = fmt.Fprintf(w, "YUV4MPEG2 W%d H%d F%d:%d Ip A1:1 C420\n",
		g.Width, g.Height, num, den)
	if err != nil {
		return nil, err
	}

	return &Writer{w: w}, nil
}

// WriteFrame writes a frame.
func (w *Writer) WriteFrame(f *frame.Frame) error {
	_, err := io.WriteString(w.w, "FRAME\n")
	if err != nil {
		return err
	}

	_, err = w.w.Write(f.Bytes())
	return err
}

func framerateToRational(fps float64) (int, int) {
	if fps == math.Trunc(fps) {
		return int(fps), 1
	}
	return int(math.Round(fps * 1000)), 1000
}
