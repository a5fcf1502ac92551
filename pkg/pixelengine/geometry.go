package pixelengine

import (
	"image"
	"math"

	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/seed"
)

// applyFlip mirrors the canvas about its current width/height.
func applyFlip(src image.Image, dims geom.CanvasDims, params map[string]any) (geomOutcome, error) {
	horizontal, _ := params["horizontal"].(bool)
	vertical, _ := params["vertical"].(bool)
	w, h := float64(dims.Width), float64(dims.Height)

	m := geom.Identity()
	if horizontal {
		m = geom.Matrix3{-1, 0, w, 0, 1, 0, 0, 0, 1}.Mul(m)
	}
	if vertical {
		m = geom.Matrix3{1, 0, 0, 0, -1, h, 0, 0, 1}.Mul(m)
	}

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("flip")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{matrix: m, dims: dims, image: dst}, nil
}

// applyRotate rotates about the canvas center; expand=true grows the
// canvas to the rotated bounds via a composed translation.
func applyRotate(src image.Image, dims geom.CanvasDims, params map[string]any) (geomOutcome, error) {
	angle, _ := params["angle"].(float64)
	expand, _ := params["expand"].(bool)
	fillName, _ := params["fill_color"].(string)
	fill := fillModeFromName(fillName)

	w, h := float64(dims.Width), float64(dims.Height)
	cx, cy := w/2, h/2
	rot := geom.AboutCenter(geom.Rotate(angle), cx, cy)

	newDims := dims
	m := rot
	actual := map[string]any{"angle": angle}
	if expand {
		c, s := math.Cos(angle), math.Sin(angle)
		newWi := geom.RoundEvenInt(w*math.Abs(c) + h*math.Abs(s))
		newHi := geom.RoundEvenInt(w*math.Abs(s) + h*math.Abs(c))
		dx := (float64(newWi) - w) / 2
		dy := (float64(newHi) - h) / 2
		m = geom.Translate(dx, dy).Mul(rot)
		newDims = geom.CanvasDims{Width: newWi, Height: newHi}
		actual["width"] = newWi
		actual["height"] = newHi
	}

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("rotate")
	}
	dst := renderInverse(src, inv, newDims, fill)
	return geomOutcome{matrix: m, dims: newDims, image: dst, actual: actual}, nil
}

// applyCrop selects a percent x percent-area sub-rectangle of the
// current canvas (origin chosen by mode) and resizes it back to the
// current canvas dims — a zoom-in, not a canvas shrink.
func applyCrop(src image.Image, dims geom.CanvasDims, params map[string]any, imageID string, variantIndex int) (geomOutcome, error) {
	percent, _ := params["percent"].(float64)
	if percent <= 0 {
		percent = 1
	}
	mode, _ := params["mode"].(string)
	w, h := float64(dims.Width), float64(dims.Height)
	cropW := w * percent
	cropH := h * percent
	maxX := w - cropW
	maxY := h - cropH

	var originX, originY float64
	switch mode {
	case "random":
		r := seed.RandForVariant(imageID, variantIndex, "crop")
		originX = r.Float64() * maxX
		originY = r.Float64() * maxY
	case "top_left":
		originX, originY = 0, 0
	case "top_right":
		originX, originY = maxX, 0
	case "bottom_left":
		originX, originY = 0, maxY
	case "bottom_right":
		originX, originY = maxX, maxY
	default: // center
		originX, originY = maxX/2, maxY/2
	}

	sx := w / cropW
	sy := h / cropH
	m := geom.Scale(sx, sy).Mul(geom.Translate(-originX, -originY))

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("crop")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{
		matrix: m,
		dims:   dims,
		image:  dst,
		actual: map[string]any{"origin_x": originX, "origin_y": originY, "crop_width": cropW, "crop_height": cropH},
	}, nil
}

// applyRandomZoom scales about the canvas center; zoom_factor > 1
// crops to the center region then rescales to fill the canvas,
// zoom_factor < 1 shrinks then pads. A small
// deterministic jitter of the zoom center (seeded per variant) keeps
// this tool in the stochastic family alongside crop and noise,
// without losing reproducibility.
func applyRandomZoom(src image.Image, dims geom.CanvasDims, params map[string]any, imageID string, variantIndex int) (geomOutcome, error) {
	zoom, _ := params["zoom_factor"].(float64)
	if zoom <= 0 {
		zoom = 1
	}
	w, h := float64(dims.Width), float64(dims.Height)
	cx, cy := w/2, h/2

	r := seed.RandForVariant(imageID, variantIndex, "random_zoom")
	jitterX := (r.Float64()*2 - 1) * 0.02 * w
	jitterY := (r.Float64()*2 - 1) * 0.02 * h

	m := geom.Translate(jitterX, jitterY).Mul(geom.AboutCenter(geom.Scale(zoom, zoom), cx, cy))

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("random_zoom")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{
		matrix: m,
		dims:   dims,
		image:  dst,
		actual: map[string]any{"zoom_factor": zoom, "jitter_x": jitterX, "jitter_y": jitterY},
	}, nil
}

// applyAffine composes scale-about-center, rotate-about-center, then
// translate, preserving the canvas.
func applyAffine(src image.Image, dims geom.CanvasDims, params map[string]any) (geomOutcome, error) {
	scale, _ := params["scale"].(float64)
	if scale <= 0 {
		scale = 1
	}
	angle, _ := params["angle"].(float64)
	shiftXFrac, _ := params["shift_x_pct"].(float64)
	shiftYFrac, _ := params["shift_y_pct"].(float64)

	w, h := float64(dims.Width), float64(dims.Height)
	cx, cy := w/2, h/2
	shiftX := shiftXFrac * w
	shiftY := shiftYFrac * h

	composed := geom.AboutCenter(geom.Rotate(angle), cx, cy).Mul(geom.AboutCenter(geom.Scale(scale, scale), cx, cy))
	m := geom.Translate(shiftX, shiftY).Mul(composed)

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("affine_transform")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{
		matrix: m,
		dims:   dims,
		image:  dst,
		actual: map[string]any{"scale": scale, "angle": angle, "shift_x": shiftX, "shift_y": shiftY},
	}, nil
}

// applyPerspectiveWarp displaces each canvas corner inward by up to
// distortion_strength*min(w,h) and solves the resulting homography.
// Corner displacement is seeded per (imageID, variantIndex) so it is
// reproducible across runs rather than genuinely random.
func applyPerspectiveWarp(src image.Image, dims geom.CanvasDims, params map[string]any, imageID string, variantIndex int) (geomOutcome, error) {
	strength, _ := params["distortion_strength"].(float64)
	w, h := float64(dims.Width), float64(dims.Height)
	maxDisp := strength * min(w, h)

	r := seed.RandForVariant(imageID, variantIndex, "perspective_warp")
	srcCorners := geom.Corners(w, h)
	// Each corner moves inward only: non-negative magnitudes applied
	// with the corner's inward sign, in Corners' top-left, top-right,
	// bottom-left, bottom-right order.
	inward := [4]geom.Point{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1}}
	var dstCorners [4]geom.Point
	for i, c := range srcCorners {
		dx := r.Float64() * maxDisp
		dy := r.Float64() * maxDisp
		dstCorners[i] = geom.Point{X: c.X + inward[i].X*dx, Y: c.Y + inward[i].Y*dy}
	}

	m, ok := geom.Homography(srcCorners, dstCorners)
	if !ok {
		return geomOutcome{}, errNumerical("perspective_warp")
	}
	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("perspective_warp")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{
		matrix: m,
		dims:   dims,
		image:  dst,
		actual: map[string]any{"dst_corners": dstCorners},
	}, nil
}

// applyShear shears horizontally (x' = x + tan(angle)*y), preserving
// the canvas.
func applyShear(src image.Image, dims geom.CanvasDims, params map[string]any) (geomOutcome, error) {
	angle, _ := params["shear_angle"].(float64)
	m := geom.Shear(angle)

	inv, ok := m.Inverse()
	if !ok {
		return geomOutcome{}, errNumerical("shear")
	}
	dst := renderInverse(src, inv, dims, FillBlack)
	return geomOutcome{matrix: m, dims: dims, image: dst, actual: map[string]any{"angle": angle}}, nil
}

func fillModeFromName(name string) FillMode {
	switch name {
	case "white":
		return FillWhite
	case "reflect":
		return FillReflect
	default:
		return FillBlack
	}
}
