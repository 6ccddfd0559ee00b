package stage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/frame"
)

func TestNegate(t *testing.T) {
	g := frame.Geometry{Width: 32, Height: 16, PixelFormat: frame.PixelFormatI420}

	s := &Negate{}
	err := s.Configure(g)
	require.NoError(t, err)

	f, err := frame.New(g)
	require.NoError(t, err)

	for i := range f.Y.Pix {
		f.Y.Pix[i] = byte(i)
	}
	for i := range f.U.Pix {
		f.U.Pix[i] = 128
	}

	require.False(t, s.Process(f))

	for i, v := range f.Y.Pix {
		require.Equal(t, 255-byte(i), v)
	}

	// chroma is left untouched
	for _, v := range f.U.Pix {
		require.Equal(t, byte(128), v)
	}
}
