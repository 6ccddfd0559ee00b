package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f, err := New(Geometry{Width: 640, Height: 480, PixelFormat: PixelFormatI420})
	require.NoError(t, err)

	require.Equal(t, 640*480, len(f.Y.Pix))
	require.Equal(t, 320*240, len(f.U.Pix))
	require.Equal(t, 320*240, len(f.V.Pix))
	require.Equal(t, 640, f.Y.Stride)
	require.Equal(t, 320, f.U.Stride)
	require.Equal(t, 640*480*3/2, len(f.Bytes()))

	// planes alias the shared buffer
	f.Bytes()[0] = 42
	require.Equal(t, byte(42), f.Y.Pix[0])
}

var casesGeometryError = []struct {
	name string
	geom Geometry
	err  error
}{
	{
		"semi planar",
		Geometry{Width: 640, Height: 480, PixelFormat: PixelFormatNV12},
		ErrUnsupportedFormat,
	},
	{
		"packed",
		Geometry{Width: 640, Height: 480, PixelFormat: PixelFormatRGB24},
		ErrUnsupportedFormat,
	},
	{
		"zero size",
		Geometry{Width: 0, Height: 480, PixelFormat: PixelFormatI420},
		nil,
	},
	{
		"odd width",
		Geometry{Width: 641, Height: 480, PixelFormat: PixelFormatI420},
		nil,
	},
}

func TestGeometryValidate(t *testing.T) {
	for _, ca := range casesGeometryError {
		t.Run(ca.name, func(t *testing.T) {
			err := ca.geom.Validate()
			require.Error(t, err)
			if ca.err != nil {
				require.ErrorIs(t, err, ca.err)
			}
		})
	}
}

func TestRow(t *testing.T) {
	f, err := New(Geometry{Width: 4, Height: 2, PixelFormat: PixelFormatI420})
	require.NoError(t, err)

	row := f.Y.Row(1)
	require.Len(t, row, 4)

	row[0] = 99
	require.Equal(t, byte(99), f.Y.Pix[4])
}

func TestClone(t *testing.T) {
	f, err := New(Geometry{Width: 4, Height: 2, PixelFormat: PixelFormatI420})
	require.NoError(t, err)
	f.Y.Pix[0] = 10
	f.Meta.Sequence = 7

	c := f.Clone()
	require.Equal(t, byte(10), c.Y.Pix[0])
	require.Equal(t, uint64(7), c.Meta.Sequence)

	c.Y.Pix[0] = 20
	require.Equal(t, byte(10), f.Y.Pix[0])
}
