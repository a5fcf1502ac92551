package pixelengine

import (
	"image"
	"image/color"
	"math"

	"github.com/clearscan/augforge/pkg/seed"
)

// applyPhotometric dispatches one photometric tool (one of the
// twelve photometric tags). Photometric tools never change canvas dims and
// never contribute to the TrackingRecord's geometry list.
func applyPhotometric(src image.Image, params map[string]any, typeTag, imageID string, variantIndex int) (image.Image, error) {
	switch typeTag {
	case "brightness":
		factor, _ := params["percentage"].(float64)
		return mapPixels(src, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{R: clamp8(float64(c.R) * factor), G: clamp8(float64(c.G) * factor), B: clamp8(float64(c.B) * factor), A: c.A}
		}), nil
	case "contrast":
		factor, _ := params["percentage"].(float64)
		return mapPixels(src, func(c color.NRGBA) color.NRGBA {
			adj := func(v uint8) uint8 { return clamp8((float64(v)-128)*factor + 128) }
			return color.NRGBA{R: adj(c.R), G: adj(c.G), B: adj(c.B), A: c.A}
		}), nil
	case "blur":
		radius, _ := params["radius"].(float64)
		return boxBlur(src, radius), nil
	case "noise":
		strength, _ := params["strength"].(float64)
		return applyNoise(src, strength, imageID, variantIndex), nil
	case "hue":
		shift, _ := params["shift"].(float64) // radians
		return mapPixels(src, func(c color.NRGBA) color.NRGBA { return rotateHue(c, shift) }), nil
	case "saturation":
		variation, _ := params["variation"].(float64)
		return mapPixels(src, func(c color.NRGBA) color.NRGBA { return scaleSaturation(c, variation) }), nil
	case "gamma":
		g, _ := params["gamma"].(float64)
		if g <= 0 {
			g = 1
		}
		return mapPixels(src, func(c color.NRGBA) color.NRGBA {
			adj := func(v uint8) uint8 { return clamp8(math.Pow(float64(v)/255.0, 1.0/g) * 255.0) }
			return color.NRGBA{R: adj(c.R), G: adj(c.G), B: adj(c.B), A: c.A}
		}), nil
	case "clahe":
		gridSize, _ := params["grid_size"].(float64)
		clipLimit, _ := params["clip_limit"].(float64)
		return clahe(src, int(gridSize), clipLimit), nil
	case "cutout":
		numHoles, _ := params["num_holes"].(float64)
		holeSize, _ := params["hole_size"].(float64)
		return applyCutout(src, int(numHoles), holeSize, imageID, variantIndex), nil
	case "color_jitter":
		return applyColorJitter(src, params), nil
	case "grayscale":
		return mapPixels(src, toGrayscale), nil
	case "equalize":
		return equalizeHistogram(src), nil
	}
	return src, nil
}

func mapPixels(src image.Image, f func(color.NRGBA) color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, f(c))
		}
	}
	return dst
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func toGrayscale(c color.NRGBA) color.NRGBA {
	y := uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
	return color.NRGBA{R: y, G: y, B: y, A: c.A}
}

// rgbToHSV and hsvToRGB operate on [0,1]-normalized channels.
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	v = maxC
	delta := maxC - minC
	if maxC <= 0 {
		return 0, 0, v
	}
	s = delta / maxC
	if delta == 0 {
		return 0, s, v
	}
	switch maxC {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func rotateHue(c color.NRGBA, shiftRadians float64) color.NRGBA {
	h, s, v := rgbToHSV(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	h += shiftRadians * 180 / math.Pi
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := hsvToRGB(h, s, v)
	return color.NRGBA{R: clamp8(r * 255), G: clamp8(g * 255), B: clamp8(b * 255), A: c.A}
}

func scaleSaturation(c color.NRGBA, factor float64) color.NRGBA {
	h, s, v := rgbToHSV(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	s *= factor
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	r, g, b := hsvToRGB(h, s, v)
	return color.NRGBA{R: clamp8(r * 255), G: clamp8(g * 255), B: clamp8(b * 255), A: c.A}
}

func boxBlur(src image.Image, radius float64) *image.NRGBA {
	r := int(radius + 0.5)
	if r <= 0 {
		return mapPixels(src, func(c color.NRGBA) color.NRGBA { return c })
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	get := func(x, y int) color.NRGBA {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	}

	// horizontal pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sr, sg, sbl, sa, n float64
			for k := -r; k <= r; k++ {
				c := get(x+k, y)
				sr += float64(c.R)
				sg += float64(c.G)
				sbl += float64(c.B)
				sa += float64(c.A)
				n++
			}
			tmp.SetNRGBA(x, y, color.NRGBA{R: clamp8(sr / n), G: clamp8(sg / n), B: clamp8(sbl / n), A: clamp8(sa / n)})
		}
	}
	// vertical pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sr, sg, sbl, sa, n float64
			for k := -r; k <= r; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				}
				if yy >= h {
					yy = h - 1
				}
				c := tmp.NRGBAAt(x, yy)
				sr += float64(c.R)
				sg += float64(c.G)
				sbl += float64(c.B)
				sa += float64(c.A)
				n++
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: clamp8(sr / n), G: clamp8(sg / n), B: clamp8(sbl / n), A: clamp8(sa / n)})
		}
	}
	return dst
}

func applyNoise(src image.Image, strength float64, imageID string, variantIndex int) *image.NRGBA {
	r := seed.RandForVariant(imageID, variantIndex, "noise")
	amp := strength * 255
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		n := (r.Float64()*2 - 1) * amp
		return color.NRGBA{R: clamp8(float64(c.R) + n), G: clamp8(float64(c.G) + n), B: clamp8(float64(c.B) + n), A: c.A}
	})
}

func applyCutout(src image.Image, numHoles int, holeSize float64, imageID string, variantIndex int) *image.NRGBA {
	out := mapPixels(src, func(c color.NRGBA) color.NRGBA { return c })
	if numHoles <= 0 {
		return out
	}
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	holeW := int(float64(w) * holeSize)
	holeH := int(float64(h) * holeSize)
	if holeW < 1 {
		holeW = 1
	}
	if holeH < 1 {
		holeH = 1
	}
	r := seed.RandForVariant(imageID, variantIndex, "cutout")
	for i := 0; i < numHoles; i++ {
		cx := r.IntN(w)
		cy := r.IntN(h)
		x0 := cx - holeW/2
		y0 := cy - holeH/2
		for y := y0; y < y0+holeH; y++ {
			if y < 0 || y >= h {
				continue
			}
			for x := x0; x < x0+holeW; x++ {
				if x < 0 || x >= w {
					continue
				}
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return out
}

func applyColorJitter(src image.Image, params map[string]any) *image.NRGBA {
	hueShift, _ := params["hue_shift"].(float64)
	brightnessVar, _ := params["brightness_variation"].(float64)
	contrastVar, _ := params["contrast_variation"].(float64)
	saturationVar, _ := params["saturation_variation"].(float64)
	if brightnessVar == 0 {
		brightnessVar = 1
	}
	if contrastVar == 0 {
		contrastVar = 1
	}
	if saturationVar == 0 {
		saturationVar = 1
	}
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		c = rotateHue(c, hueShift*math.Pi/180)
		c = scaleSaturation(c, saturationVar)
		adjContrast := func(v uint8) uint8 { return clamp8((float64(v)-128)*contrastVar + 128) }
		c = color.NRGBA{R: adjContrast(c.R), G: adjContrast(c.G), B: adjContrast(c.B), A: c.A}
		return color.NRGBA{R: clamp8(float64(c.R) * brightnessVar), G: clamp8(float64(c.G) * brightnessVar), B: clamp8(float64(c.B) * brightnessVar), A: c.A}
	})
}

// equalizeHistogram applies global histogram equalization on the
// luminance channel, preserving chrominance via HSV.
func equalizeHistogram(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var hist [256]int
	vals := make([][3]float64, w*h)
	idx := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			hh, ss, vv := rgbToHSV(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			vals[idx] = [3]float64{hh, ss, vv}
			hist[clamp8(vv*255)]++
			idx++
		}
	}
	var cdf [256]int
	total := 0
	for i, count := range hist {
		total += count
		cdf[i] = total
	}
	n := w * h
	remap := func(v uint8) float64 {
		if n == 0 {
			return float64(v) / 255
		}
		return float64(cdf[v]) / float64(n)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	idx = 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hh, ss, vv := vals[idx][0], vals[idx][1], vals[idx][2]
			newV := remap(clamp8(vv * 255))
			r, g, bl := hsvToRGB(hh, ss, newV)
			dst.SetNRGBA(x, y, color.NRGBA{R: clamp8(r * 255), G: clamp8(g * 255), B: clamp8(bl * 255), A: 255})
			idx++
		}
	}
	return dst
}

// clahe approximates contrast-limited adaptive histogram equalization
// with a tile grid of gridSize x gridSize cells, each independently
// histogram-equalized with hist counts capped at clipLimit's fraction
// of the cell's pixel count (excess redistributed uniformly) — a
// simplified CLAHE without bilinear tile blending.
func clahe(src image.Image, gridSize int, clipLimit float64) *image.NRGBA {
	if gridSize < 1 {
		gridSize = 1
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	tileW := (w + gridSize - 1) / gridSize
	tileH := (h + gridSize - 1) / gridSize

	for ty := 0; ty < gridSize; ty++ {
		for tx := 0; tx < gridSize; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := min(x0+tileW, w)
			y1 := min(y0+tileH, h)
			if x0 >= x1 || y0 >= y1 {
				continue
			}
			equalizeTile(src, dst, b, x0, y0, x1, y1, clipLimit)
		}
	}
	return dst
}

func equalizeTile(src image.Image, dst *image.NRGBA, b image.Rectangle, x0, y0, x1, y1 int, clipLimit float64) {
	var hist [256]int
	n := (x1 - x0) * (y1 - y0)
	type hsvPix struct{ h, s, v float64 }
	pix := make([]hsvPix, 0, n)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			hh, ss, vv := rgbToHSV(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			pix = append(pix, hsvPix{hh, ss, vv})
			hist[clamp8(vv*255)]++
		}
	}
	if clipLimit > 0 && n > 0 {
		limit := int(clipLimit * float64(n) / 256.0)
		if limit < 1 {
			limit = 1
		}
		excess := 0
		for i, c := range hist {
			if c > limit {
				excess += c - limit
				hist[i] = limit
			}
		}
		redistribute := excess / 256
		for i := range hist {
			hist[i] += redistribute
		}
	}
	var cdf [256]int
	total := 0
	for i, c := range hist {
		total += c
		cdf[i] = total
	}
	idx := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := pix[idx]
			idx++
			var newV float64
			if n > 0 {
				newV = float64(cdf[clamp8(p.v*255)]) / float64(n)
			} else {
				newV = p.v
			}
			r, g, bl := hsvToRGB(p.h, p.s, newV)
			dst.SetNRGBA(x, y, color.NRGBA{R: clamp8(r * 255), G: clamp8(g * 255), B: clamp8(bl * 255), A: 255})
		}
	}
}
