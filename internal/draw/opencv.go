//go:build gocv

package draw

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/framemark/framemark/internal/frame"
)

// opencvDrawer draws through the OpenCV Hershey simplex font.
// It operates on compact planes (stride equal to width).
type opencvDrawer struct{}

// NewOpenCV allocates a TextDrawer based on the OpenCV Hershey simplex font.
func NewOpenCV() (TextDrawer, error) {
	return &opencvDrawer{}, nil
}

func (*opencvDrawer) Close() error {
	return nil
}

func (*opencvDrawer) MeasureText(text string, scale float64, thickness int) (int, int, int) {
	if text == "" {
		return 0, 0, 0
	}

	size, baseline := gocv.GetTextSizeWithBaseline(text, gocv.FontHersheySimplex, scale, thickness)
	return size.X, size.Y, baseline
}

func (*opencvDrawer) DrawText(dst *frame.Plane, text string, x int, y int, scale float64, value uint8, thickness int) {
	if text == "" || thickness < 1 {
		return
	}

	mat, err := gocv.NewMatFromBytes(dst.Height, dst.Width, gocv.MatTypeCV8UC1, dst.Pix)
	if err != nil {
		return
	}
	defer mat.Close()

	// single-channel Mats take their value from the first scalar element,
	// which gocv fills with the blue field.
	gocv.PutTextWithParams(&mat, text, image.Pt(x, y), gocv.FontHersheySimplex,
		scale, color.RGBA{B: value}, thickness, gocv.LineAA, false)

	data, err := mat.DataPtrUint8()
	if err != nil {
		return
	}
	copy(dst.Pix, data)
}

func (*opencvDrawer) FillRect(dst *frame.Plane, x int, y int, w int, h int, value uint8) {
	fillRect(dst, x, y, w, h, value)
}
