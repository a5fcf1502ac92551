package pixelengine

import (
	"image"
	"image/color"
	"math"

	"github.com/clearscan/augforge/pkg/geom"
)

// FillMode controls how destination pixels with no corresponding
// source sample (the point inv maps them to falls outside src) are
// filled.
type FillMode string

const (
	FillBlack   FillMode = "black"
	FillWhite   FillMode = "white"
	FillReflect FillMode = "reflect"
)

// renderInverse builds a destDims-sized image: for every destination
// pixel it applies inv to find the corresponding source coordinate and
// bilinearly samples src there. Destination pixels whose source point
// falls outside src's bounds are filled per fill (reflect wraps the
// sample back into bounds instead of filling a flat color).
func renderInverse(src image.Image, inv geom.Matrix3, destDims geom.CanvasDims, fill FillMode) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, destDims.Width, destDims.Height))
	flat := flatFill(fill)

	for y := 0; y < destDims.Height; y++ {
		for x := 0; x < destDims.Width; x++ {
			sp := inv.Apply(geom.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			sx, sy := sp.X-0.5, sp.Y-0.5
			var c color.NRGBA
			switch {
			case fill == FillReflect:
				c = bilinear(src, sx, sy, b, w, h, true)
			case sx < -0.5 || sy < -0.5 || sx > float64(w)-0.5 || sy > float64(h)-0.5:
				c = flat
			default:
				c = bilinear(src, sx, sy, b, w, h, false)
			}
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

func flatFill(fill FillMode) color.NRGBA {
	if fill == FillWhite {
		return color.NRGBA{255, 255, 255, 255}
	}
	return color.NRGBA{0, 0, 0, 255}
}

func sampleAt(src image.Image, x, y int, b image.Rectangle, w, h int, reflect bool) color.NRGBA {
	if reflect {
		x = reflectIndex(x, w)
		y = reflectIndex(y, h)
	} else {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
	}
	return color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
}

func reflectIndex(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i < n {
		return i
	}
	return period - 1 - i
}

func bilinear(src image.Image, sx, sy float64, b image.Rectangle, w, h int, reflect bool) color.NRGBA {
	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)
	c00 := sampleAt(src, x0, y0, b, w, h, reflect)
	c10 := sampleAt(src, x0+1, y0, b, w, h, reflect)
	c01 := sampleAt(src, x0, y0+1, b, w, h, reflect)
	c11 := sampleAt(src, x0+1, y0+1, b, w, h, reflect)
	return blendBilinear(c00, c10, c01, c11, fx, fy)
}

func blendBilinear(c00, c10, c01, c11 color.NRGBA, fx, fy float64) color.NRGBA {
	ch := func(a, b, c, d uint8) uint8 {
		top := float64(a) + (float64(b)-float64(a))*fx
		bot := float64(c) + (float64(d)-float64(c))*fx
		v := top + (bot-top)*fy
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.NRGBA{
		R: ch(c00.R, c10.R, c01.R, c11.R),
		G: ch(c00.G, c10.G, c01.G, c11.G),
		B: ch(c00.B, c10.B, c01.B, c11.B),
		A: ch(c00.A, c10.A, c01.A, c11.A),
	}
}
