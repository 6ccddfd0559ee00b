package draw

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/framemark/framemark/internal/frame"
)

// font size at scale 1, in points.
const baseFontSize = 22

type builtinDrawer struct {
	font *truetype.Font

	mutex sync.Mutex
	faces map[float64]font.Face
}

// NewBuiltin allocates a TextDrawer based on the embedded Go Regular font.
func NewBuiltin() (TextDrawer, error) {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	return &builtinDrawer{
		font:  fnt,
		faces: make(map[float64]font.Face),
	}, nil
}

func (d *builtinDrawer) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, face := range d.faces {
		face.Close()
	}
	d.faces = make(map[float64]font.Face)

	return nil
}

// faces are cached since overlays keep a fixed scale once configured.
func (d *builtinDrawer) faceFor(scale float64) font.Face {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	face, ok := d.faces[scale]
	if !ok {
		face = truetype.NewFace(d.font, &truetype.Options{
			Size:    baseFontSize * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		d.faces[scale] = face
	}

	return face
}

func (d *builtinDrawer) MeasureText(text string, scale float64, thickness int) (int, int, int) {
	if text == "" {
		return 0, 0, 0
	}

	face := d.faceFor(scale)
	metrics := face.Metrics()

	w := font.MeasureString(face, text).Ceil() + thickness - 1
	h := metrics.Ascent.Ceil()
	baseline := metrics.Descent.Ceil() + thickness - 1

	return w, h, baseline
}

func (d *builtinDrawer) DrawText(dst *frame.Plane, text string, x int, y int, scale float64, value uint8, thickness int) {
	if text == "" || thickness < 1 {
		return
	}

	face := d.faceFor(scale)
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	adv := font.MeasureString(face, text).Ceil()
	if adv <= 0 {
		return
	}

	mask := image.NewGray(image.Rect(0, 0, adv+thickness-1, ascent+descent+thickness-1))
	(&font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}).DrawString(text)

	if thickness > 1 {
		mask = dilate(mask, thickness)
	}

	blendMask(dst, mask, x, y-ascent, value)
}

func (d *builtinDrawer) FillRect(dst *frame.Plane, x int, y int, w int, h int, value uint8) {
	fillRect(dst, x, y, w, h, value)
}

// dilate thickens glyph strokes by taking the maximum coverage
// over a t x t window.
func dilate(src *image.Gray, t int) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(bounds)

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			v := src.Pix[y*src.Stride+x]
			if v == 0 {
				continue
			}

			for dy := 0; dy < t && y+dy < bounds.Dy(); dy++ {
				for dx := 0; dx < t && x+dx < bounds.Dx(); dx++ {
					p := &out.Pix[(y+dy)*out.Stride+x+dx]
					if *p < v {
						*p = v
					}
				}
			}
		}
	}

	return out
}

// blendMask blends a coverage mask into a plane at (ox, oy),
// interpolating between the existing value and the given one.
func blendMask(dst *frame.Plane, mask *image.Gray, ox int, oy int, value uint8) {
	mw := mask.Bounds().Dx()
	mh := mask.Bounds().Dy()

	for my := 0; my < mh; my++ {
		py := oy + my
		if py < 0 || py >= dst.Height {
			continue
		}

		for mx := 0; mx < mw; mx++ {
			px := ox + mx
			if px < 0 || px >= dst.Width {
				continue
			}

			cov := int(mask.Pix[my*mask.Stride+mx])
			if cov == 0 {
				continue
			}

			p := &dst.Pix[py*dst.Stride+px]
			*p = uint8((int(*p)*(255-cov) + int(value)*cov + 127) / 255)
		}
	}
}
