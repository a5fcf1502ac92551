package pixelengine

import (
	"image"
	"image/color"

	ximgdraw "golang.org/x/image/draw"

	"github.com/clearscan/augforge/pkg/geom"
)

// applyResize renders one resize tool application (one of the six
// resize_mode values) against the current canvas. Quality scaling
// uses golang.org/x/image/draw's CatmullRom kernel; letterbox padding
// uses reflectIndex-based background sampling (flat fill for
// fit_black_edges/fit_white_edges, edge reflection for
// fit_reflect_edges) since x/image/draw has no padding-aware scaler.
func applyResize(src image.Image, currentDims geom.CanvasDims, params map[string]any) (geomOutcome, error) {
	w0, h0 := float64(currentDims.Width), float64(currentDims.Height)
	W := intParam(params, "width", currentDims.Width)
	H := intParam(params, "height", currentDims.Height)
	mode, _ := params["resize_mode"].(string)

	switch mode {
	case "fill_center_crop":
		return resizeFillCenterCrop(src, w0, h0, W, H)
	case "fit_within":
		return resizeFitWithin(src, w0, h0, W, H)
	case "fit_reflect_edges":
		return resizeFitEdges(src, w0, h0, W, H, FillReflect)
	case "fit_black_edges":
		return resizeFitEdges(src, w0, h0, W, H, FillBlack)
	case "fit_white_edges":
		return resizeFitEdges(src, w0, h0, W, H, FillWhite)
	default: // "stretch_to" and any unrecognized mode fall back to stretch.
		return resizeStretch(src, w0, h0, W, H)
	}
}

func resizeStretch(src image.Image, w0, h0 float64, W, H int) (geomOutcome, error) {
	sx := float64(W) / w0
	sy := float64(H) / h0
	dst := scaleTo(src, W, H)
	return geomOutcome{
		matrix: geom.Scale(sx, sy),
		dims:   geom.CanvasDims{Width: W, Height: H},
		image:  dst,
		actual: map[string]any{"scale_x": sx, "scale_y": sy},
	}, nil
}

func resizeFitWithin(src image.Image, w0, h0 float64, W, H int) (geomOutcome, error) {
	s := min(float64(W)/w0, float64(H)/h0)
	scaledW := geom.RoundEvenInt(w0 * s)
	scaledH := geom.RoundEvenInt(h0 * s)
	dst := scaleTo(src, scaledW, scaledH)
	return geomOutcome{
		matrix: geom.Scale(s, s),
		dims:   geom.CanvasDims{Width: scaledW, Height: scaledH},
		image:  dst,
		actual: map[string]any{"scale": s, "width": scaledW, "height": scaledH},
	}, nil
}

func resizeFillCenterCrop(src image.Image, w0, h0 float64, W, H int) (geomOutcome, error) {
	s := max(float64(W)/w0, float64(H)/h0)
	scaledW := geom.RoundEvenInt(w0 * s)
	scaledH := geom.RoundEvenInt(h0 * s)
	temp := scaleTo(src, scaledW, scaledH)
	offsetX := geom.RoundEvenInt(float64(scaledW-W) / 2.0)
	offsetY := geom.RoundEvenInt(float64(scaledH-H) / 2.0)

	dst := image.NewNRGBA(image.Rect(0, 0, W, H))
	for y := 0; y < H; y++ {
		for x := 0; x < W; x++ {
			dst.SetNRGBA(x, y, color.NRGBAModel.Convert(temp.At(x+offsetX, y+offsetY)).(color.NRGBA))
		}
	}

	m := geom.Translate(-float64(offsetX), -float64(offsetY)).Mul(geom.Scale(s, s))
	return geomOutcome{
		matrix: m,
		dims:   geom.CanvasDims{Width: W, Height: H},
		image:  dst,
		actual: map[string]any{"scale": s, "offset_x": offsetX, "offset_y": offsetY},
	}, nil
}

func resizeFitEdges(src image.Image, w0, h0 float64, W, H int, fill FillMode) (geomOutcome, error) {
	s := min(float64(W)/w0, float64(H)/h0)
	scaledW := geom.RoundEvenInt(w0 * s)
	scaledH := geom.RoundEvenInt(h0 * s)
	temp := scaleTo(src, scaledW, scaledH)
	padX := geom.RoundEvenInt(float64(W-scaledW) / 2.0)
	padY := geom.RoundEvenInt(float64(H-scaledH) / 2.0)

	dst := image.NewNRGBA(image.Rect(0, 0, W, H))
	flat := flatFill(fill)
	for y := 0; y < H; y++ {
		ty := y - padY
		for x := 0; x < W; x++ {
			tx := x - padX
			var c color.NRGBA
			switch {
			case fill == FillReflect:
				c = color.NRGBAModel.Convert(temp.At(reflectIndex(tx, scaledW), reflectIndex(ty, scaledH))).(color.NRGBA)
			case tx >= 0 && tx < scaledW && ty >= 0 && ty < scaledH:
				c = color.NRGBAModel.Convert(temp.At(tx, ty)).(color.NRGBA)
			default:
				c = flat
			}
			dst.SetNRGBA(x, y, c)
		}
	}

	m := geom.Translate(float64(padX), float64(padY)).Mul(geom.Scale(s, s))
	return geomOutcome{
		matrix: m,
		dims:   geom.CanvasDims{Width: W, Height: H},
		image:  dst,
		actual: map[string]any{"scale": s, "pad_x": padX, "pad_y": padY},
	}, nil
}

func scaleTo(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	ximgdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), ximgdraw.Over, nil)
	return dst
}

func intParam(params map[string]any, name string, fallback int) int {
	v, ok := params[name]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return fallback
}
