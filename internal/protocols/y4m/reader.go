// Package y4m implements the YUV4MPEG2 uncompressed video format.
package y4m

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/framemark/framemark/internal/frame"
)

// colorspaces accepted as planar YUV 4:2:0 with 8 bits per sample.
var i420Colorspaces = map[string]struct{}{
	"420":      {},
	"420jpeg":  {},
	"420mpeg2": {},
	"420paldv": {},
}

// Reader reads YUV4MPEG2 streams.
type Reader struct {
	br       *bufio.Reader
	geometry frame.Geometry
	fpsNum   int
	fpsDen   int
}

// NewReader allocates a Reader and parses the stream header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("invalid Y4M header: %w", err)
	}

	params := strings.Split(strings.TrimSuffix(line, "\n"), " ")
	if params[0] != "YUV4MPEG2" {
		return nil, fmt.Errorf("invalid Y4M signature")
	}

	re := &Reader{
		br: br,
		geometry: frame.Geometry{
			PixelFormat: frame.PixelFormatI420,
		},
	}

	colorspace := "420"

	for _, p := range params[1:] {
		if p == "" {
			continue
		}

		switch p[0] {
		case 'W':
			re.geometry.Width, err = strconv.Atoi(p[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid Y4M width '%s'", p[1:])
			}

		case 'H':
			re.geometry.Height, err = strconv.Atoi(p[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid Y4M height '%s'", p[1:])
			}

		case 'F':
			parts := strings.SplitN(p[1:], ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid Y4M frame rate '%s'", p[1:])
			}

			re.fpsNum, err = strconv.Atoi(parts[0])
			if err == nil {
				re.fpsDen, err = strconv.Atoi(parts[1])
			}
			if err != nil || re.fpsNum <= 0 || re.fpsDen <= 0 {
				return nil, fmt.Errorf("invalid Y4M frame rate '%s'", p[1:])
			}

		case 'C':
			colorspace = p[1:]

		default:
			// interlacing, aspect ratio and comments do not affect decoding
		}
	}

	if _, ok := i420Colorspaces[colorspace]; !ok {
		return nil, fmt.Errorf("unsupported Y4M colorspace 'C%s'", colorspace)
	}

	if re.fpsNum == 0 {
		return nil, fmt.Errorf("Y4M frame rate is missing")
	}

	err = re.geometry.Validate()
	if err != nil {
		return nil, err
	}

	return re, nil
}

// Geometry returns the stream geometry.
func (r *Reader) Geometry() frame.Geometry {
	return r.geometry
}

// Framerate returns the stream frame rate.
func (r *Reader) Framerate() float64 {
	return float64(r.fpsNum) / float64(r.fpsDen)
}

// ReadFrame reads a frame into f, whose geometry must match the stream.
// It returns io.EOF at the end of the stream.
func (r *Reader) ReadFrame(f *frame.Frame) error {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return io.EOF
		}
		return fmt.Errorf("invalid Y4M frame header: %w", err)
	}

	if !strings.HasPrefix(line, "FRAME") {
		return fmt.Errorf("invalid Y4M frame header")
	}

	_, err = io.ReadFull(r.br, f.Bytes())
	if err != nil {
		return fmt.Errorf("truncated Y4M frame: %w", err)
	}

	return nil
}
