package source

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/protocols/y4m"
	"github.com/framemark/framemark/internal/test"
)

func TestFile(t *testing.T) {
	g := frame.Geometry{Width: 32, Height: 16, PixelFormat: frame.PixelFormatI420}

	var buf bytes.Buffer
	w, err := y4m.NewWriter(&buf, g, 25)
	require.NoError(t, err)

	f, err := frame.New(g)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := range f.Y.Pix {
			f.Y.Pix[j] = byte(i)
		}
		err = w.WriteFrame(f)
		require.NoError(t, err)
	}

	path, err := test.CreateTempFile(buf.Bytes())
	require.NoError(t, err)
	defer os.Remove(path)

	s := &File{
		Path:   path,
		Parent: test.NilLogger,
	}
	err = s.Initialize()
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, g, s.Geometry())
	require.Equal(t, float64(25), s.Framerate())

	out, err := frame.New(s.Geometry())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		err = s.ReadFrame(out)
		require.NoError(t, err)
		require.Equal(t, byte(i), out.Y.Pix[0])
		require.Equal(t, uint64(i), out.Meta.Sequence)
		require.Equal(t, float64(25), out.Meta.FPS)
	}

	require.Equal(t, 80*time.Millisecond, out.PTS)

	err = s.ReadFrame(out)
	require.Equal(t, io.EOF, err)
}

func TestFileInvalid(t *testing.T) {
	path, err := test.CreateTempFile([]byte("not a y4m stream\n"))
	require.NoError(t, err)
	defer os.Remove(path)

	s := &File{
		Path:   path,
		Parent: test.NilLogger,
	}
	err = s.Initialize()
	require.EqualError(t, err, "invalid Y4M signature")
}

func TestFileMissing(t *testing.T) {
	s := &File{
		Path:   "/nonexistent/stream.y4m",
		Parent: test.NilLogger,
	}
	err := s.Initialize()
	require.Error(t, err)
}

func TestTestPattern(t *testing.T) {
	s := &TestPattern{
		Width:  64,
		Height: 32,
		FPS:    30,
		Frames: 2,
		Parent: test.NilLogger,
	}
	err := s.Initialize()
	require.NoError(t, err)
	defer s.Close()

	f, err := frame.New(s.Geometry())
	require.NoError(t, err)

	err = s.ReadFrame(f)
	require.NoError(t, err)
	require.Equal(t, byte(0), f.Y.Row(0)[0])
	require.Equal(t, byte(5), f.Y.Row(2)[3])
	require.Equal(t, byte(128), f.U.Pix[0])
	require.Equal(t, uint64(0), f.Meta.Sequence)
	require.Equal(t, float64(30), f.Meta.FPS)
	require.Equal(t, 400.0, f.Meta.Lux)

	// the pattern moves on the next frame
	err = s.ReadFrame(f)
	require.NoError(t, err)
	require.Equal(t, byte(2), f.Y.Row(0)[0])
	require.Equal(t, uint64(1), f.Meta.Sequence)

	err = s.ReadFrame(f)
	require.Equal(t, io.EOF, err)
}

func TestTestPatternInvalid(t *testing.T) {
	s := &TestPattern{Width: 33, Height: 32, FPS: 30, Parent: test.NilLogger}
	require.Error(t, s.Initialize())

	s = &TestPattern{Width: 32, Height: 32, FPS: 0, Parent: test.NilLogger}
	require.EqualError(t, s.Initialize(), "invalid frame rate 0")
}
