package annotation

import (
	"log/slog"
	"math"

	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
)

// sequentialCanvas is the canvas size as it evolves op-by-op; resize in
// fit_within mode is the one op that actually shrinks it mid-sequence.
type sequentialCanvas struct {
	w, h float64
}

// canvasTrack walks cfg.Ops purely in terms of canvas size, independent
// of any annotation, and returns the canvas in effect before each op is
// applied (index i holds the canvas op i sees) plus the canvas left
// after the last op.
func canvasTrack(cfg plan.TransformationConfig, original geom.CanvasDims) ([]sequentialCanvas, sequentialCanvas) {
	c := sequentialCanvas{w: float64(original.Width), h: float64(original.Height)}
	before := make([]sequentialCanvas, len(cfg.Ops))
	for i, op := range cfg.Ops {
		before[i] = c
		if op.TypeTag == "resize" {
			_, _, _, _, c = sequentialResizePoints4(0, 0, 0, 0, op, c)
		}
	}
	return before, c
}

// TransformSequential is the fallback path used when no caller
// supplies a composed matrix. It walks cfg.Ops in
// declared order, applying each geometric tool's own coordinate
// formula and tracking the evolving canvas size, then clips to the
// final canvas. rotate, affine_transform, perspective_warp and shear
// have no tractable per-op formula here (a non-axis-aligned transform
// of a box's four corners does not stay a box) and pass annotations
// through unchanged; only the matrix path transports them. Since the
// Pixel Engine always produces a composed matrix, this path exists
// for the axis-aligned tool set and testing, not as a runtime
// fallback the orchestrator actually reaches.
func TransformSequential(logger *slog.Logger, reg *registry.Registry, boxes []BoundingBox, polygons []Polygon, cfg plan.TransformationConfig, original geom.CanvasDims) (TransformResult, geom.CanvasDims) {
	cfg = bridgeConfig(reg, cfg)
	before, final := canvasTrack(cfg, original)
	var result TransformResult

	for _, b := range boxes {
		box := b
		ok := true
		for i, op := range cfg.Ops {
			box, ok = applySequentialBox(box, op, before[i])
			if !ok {
				break
			}
		}
		if !ok {
			logger.Debug("annotation dropped during sequential transform", "class_name", b.ClassName)
			continue
		}
		box.XMin, box.XMax = clampCoord(box.XMin, 0, final.w), clampCoord(box.XMax, 0, final.w)
		box.YMin, box.YMax = clampCoord(box.YMin, 0, final.h), clampCoord(box.YMax, 0, final.h)
		if box.XMin >= box.XMax || box.YMin >= box.YMax {
			logger.Debug("annotation dropped during sequential transform", "class_name", b.ClassName, "reason", "degenerate_bbox")
			continue
		}
		result.Boxes = append(result.Boxes, box)
	}

	for _, p := range polygons {
		pts := append([]geom.Point(nil), p.Points...)
		ok := true
		for i, op := range cfg.Ops {
			pts, ok = applySequentialPolygon(pts, op, before[i])
			if !ok {
				break
			}
		}
		if !ok {
			logger.Debug("annotation dropped during sequential transform", "class_name", p.ClassName)
			continue
		}
		clipped, ok := clipPolygonToCanvas(pts, final.w, final.h)
		if !ok {
			logger.Debug("annotation dropped during sequential transform", "class_name", p.ClassName, "reason", "degenerate_polygon")
			continue
		}
		result.Polygons = append(result.Polygons, Polygon{Points: clipped, ClassName: p.ClassName, ClassID: p.ClassID, Confidence: p.Confidence})
	}

	return result, geom.CanvasDims{Width: geom.RoundEvenInt(final.w), Height: geom.RoundEvenInt(final.h)}
}

// bridgeConfig converts every numeric parameter through
// registry.Bridge so this path consumes the same engine-facing values
// the Pixel Engine rendered with; non-numeric parameters pass through.
func bridgeConfig(reg *registry.Registry, cfg plan.TransformationConfig) plan.TransformationConfig {
	ops := make([]plan.Transformation, len(cfg.Ops))
	for i, op := range cfg.Ops {
		params := make(map[string]any, len(op.Parameters))
		for name, v := range op.Parameters {
			if n, ok := toNumeric(v); ok {
				if bridged, err := reg.Bridge(op.TypeTag, name, n); err == nil {
					params[name] = bridged
					continue
				}
			}
			params[name] = v
		}
		ops[i] = plan.Transformation{TypeTag: op.TypeTag, Parameters: params, OrderIndex: op.OrderIndex}
	}
	return plan.TransformationConfig{Ops: ops}
}

func toNumeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func applySequentialBox(b BoundingBox, op plan.Transformation, c sequentialCanvas) (BoundingBox, bool) {
	switch op.TypeTag {
	case "flip":
		if truthy(op.Parameters["horizontal"]) {
			b.XMin, b.XMax = c.w-b.XMax, c.w-b.XMin
		}
		if truthy(op.Parameters["vertical"]) {
			b.YMin, b.YMax = c.h-b.YMax, c.h-b.YMin
		}
	case "resize":
		b.XMin, b.YMin, b.XMax, b.YMax, _ = sequentialResizePoints4(b.XMin, b.YMin, b.XMax, b.YMax, op, c)
	case "crop":
		ox, oy := cropOrigin(op, c)
		sx, sy := cropScale(op)
		b.XMin, b.XMax = (b.XMin-ox)*sx, (b.XMax-ox)*sx
		b.YMin, b.YMax = (b.YMin-oy)*sy, (b.YMax-oy)*sy
	case "random_zoom":
		zoom := floatParam(op.Parameters, "zoom_factor", 1)
		cx, cy := c.w/2, c.h/2
		b.XMin = cx + (b.XMin-cx)*zoom
		b.XMax = cx + (b.XMax-cx)*zoom
		b.YMin = cy + (b.YMin-cy)*zoom
		b.YMax = cy + (b.YMax-cy)*zoom
	default:
	}
	if !geom.Finite(b.XMin) || !geom.Finite(b.YMin) || !geom.Finite(b.XMax) || !geom.Finite(b.YMax) {
		return BoundingBox{}, false
	}
	return b, true
}

func applySequentialPolygon(pts []geom.Point, op plan.Transformation, c sequentialCanvas) ([]geom.Point, bool) {
	switch op.TypeTag {
	case "flip":
		h, v := truthy(op.Parameters["horizontal"]), truthy(op.Parameters["vertical"])
		for i, p := range pts {
			if h {
				p.X = c.w - p.X
			}
			if v {
				p.Y = c.h - p.Y
			}
			pts[i] = p
		}
	case "resize":
		for i, p := range pts {
			x, y, _, _, _ := sequentialResizePoints4(p.X, p.Y, p.X, p.Y, op, c)
			pts[i] = geom.Point{X: x, Y: y}
		}
	case "crop":
		ox, oy := cropOrigin(op, c)
		sx, sy := cropScale(op)
		for i, p := range pts {
			pts[i] = geom.Point{X: (p.X - ox) * sx, Y: (p.Y - oy) * sy}
		}
	case "random_zoom":
		zoom := floatParam(op.Parameters, "zoom_factor", 1)
		cx, cy := c.w/2, c.h/2
		for i, p := range pts {
			pts[i] = geom.Point{X: cx + (p.X-cx)*zoom, Y: cy + (p.Y-cy)*zoom}
		}
	default:
	}
	for _, p := range pts {
		if !geom.Finite(p.X) || !geom.Finite(p.Y) {
			return nil, false
		}
	}
	return pts, true
}

// sequentialResizePoints4 applies the resize transport table to one
// point (or, for a box, all four corners via the x/y
// min/max pairs the caller passes) and returns the canvas the op
// leaves behind.
func sequentialResizePoints4(xMin, yMin, xMax, yMax float64, op plan.Transformation, c sequentialCanvas) (float64, float64, float64, float64, sequentialCanvas) {
	w := floatParam(op.Parameters, "width", c.w)
	h := floatParam(op.Parameters, "height", c.h)
	mode, _ := op.Parameters["resize_mode"].(string)

	switch mode {
	case "fit_within":
		s := math.Min(w/c.w, h/c.h)
		nw, nh := geom.RoundEven(c.w*s), geom.RoundEven(c.h*s)
		return xMin * s, yMin * s, xMax * s, yMax * s, sequentialCanvas{w: nw, h: nh}
	case "fit_reflect_edges", "fit_black_edges", "fit_white_edges":
		s := math.Min(w/c.w, h/c.h)
		nw, nh := geom.RoundEven(c.w*s), geom.RoundEven(c.h*s)
		padX, padY := geom.RoundEven((w-nw)/2), geom.RoundEven((h-nh)/2)
		return xMin*s + padX, yMin*s + padY, xMax*s + padX, yMax*s + padY, sequentialCanvas{w: w, h: h}
	case "fill_center_crop":
		s := math.Max(w/c.w, h/c.h)
		nw, nh := geom.RoundEven(c.w*s), geom.RoundEven(c.h*s)
		offX, offY := geom.RoundEven((nw-w)/2), geom.RoundEven((nh-h)/2)
		return xMin*s - offX, yMin*s - offY, xMax*s - offX, yMax*s - offY, sequentialCanvas{w: w, h: h}
	default: // stretch_to
		sx, sy := w/c.w, h/c.h
		return xMin * sx, yMin * sy, xMax * sx, yMax * sy, sequentialCanvas{w: w, h: h}
	}
}

func cropOrigin(op plan.Transformation, c sequentialCanvas) (float64, float64) {
	percent := floatParam(op.Parameters, "percent", 1)
	if percent <= 0 {
		percent = 1
	}
	maxX := c.w - c.w*percent
	maxY := c.h - c.h*percent
	mode, _ := op.Parameters["mode"].(string)
	switch mode {
	case "top_left":
		return 0, 0
	case "top_right":
		return maxX, 0
	case "bottom_left":
		return 0, maxY
	case "bottom_right":
		return maxX, maxY
	default: // center and random both transport as center; the
		// concrete random origin only exists in the matrix path's
		// TrackingRecord.actual_params.
		return maxX / 2, maxY / 2
	}
}

// cropScale is the zoom-back factor the crop tool applies after
// taking its sub-rectangle: the crop is resized back to the input
// canvas, so coordinates scale by 1/percent on each axis.
func cropScale(op plan.Transformation) (float64, float64) {
	percent := floatParam(op.Parameters, "percent", 1)
	if percent <= 0 {
		percent = 1
	}
	s := 1 / percent
	return s, s
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

func floatParam(params map[string]any, name string, fallback float64) float64 {
	v, ok := params[name]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}
