package sink

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/protocols/y4m"
	"github.com/framemark/framemark/internal/test"
)

func TestFile(t *testing.T) {
	g := frame.Geometry{Width: 32, Height: 16, PixelFormat: frame.PixelFormatI420}
	path := filepath.Join(t.TempDir(), "out.y4m")

	s := &File{
		Path:      path,
		Geometry:  g,
		Framerate: 30,
		Parent:    test.NilLogger,
	}
	err := s.Initialize()
	require.NoError(t, err)

	f, err := frame.New(g)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		for j := range f.Y.Pix {
			f.Y.Pix[j] = byte(10 + i)
		}
		err = s.WriteFrame(f)
		require.NoError(t, err)
	}

	err = s.Close()
	require.NoError(t, err)

	// the file can be read back
	fi, err := os.Open(path)
	require.NoError(t, err)
	defer fi.Close()

	r, err := y4m.NewReader(fi)
	require.NoError(t, err)
	require.Equal(t, g, r.Geometry())

	out, err := frame.New(g)
	require.NoError(t, err)

	err = r.ReadFrame(out)
	require.NoError(t, err)
	require.Equal(t, byte(10), out.Y.Pix[0])

	err = r.ReadFrame(out)
	require.NoError(t, err)
	require.Equal(t, byte(11), out.Y.Pix[0])

	err = r.ReadFrame(out)
	require.Equal(t, io.EOF, err)
}

func TestFileInvalidGeometry(t *testing.T) {
	s := &File{
		Path: filepath.Join(t.TempDir(), "out.y4m"),
		Geometry: frame.Geometry{
			Width:       32,
			Height:      16,
			PixelFormat: frame.PixelFormatRGB24,
		},
		Framerate: 30,
		Parent:    test.NilLogger,
	}
	err := s.Initialize()
	require.ErrorIs(t, err, frame.ErrUnsupportedFormat)
}

func TestDiscard(t *testing.T) {
	g := frame.Geometry{Width: 32, Height: 16, PixelFormat: frame.PixelFormatI420}

	f, err := frame.New(g)
	require.NoError(t, err)

	s := &Discard{}
	require.NoError(t, s.WriteFrame(f))
	require.NoError(t, s.Close())
}
