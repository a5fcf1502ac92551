package annotation

import (
	"log/slog"

	"github.com/clearscan/augforge/pkg/geom"
)

// TransformResult holds the survivors of a transport pass; dropped
// input is logged and excluded rather than surfaced as an error.
type TransformResult struct {
	Boxes    []BoundingBox
	Polygons []Polygon
}

// TransformMatrix is the preferred path when a caller supplies a
// composed matrix: apply M once to every bbox corner / polygon
// vertex, then clip to the actual
// final canvas C3 rendered. M and final are exactly what
// pixelengine.TrackingRecord carried for the same variant.
func TransformMatrix(logger *slog.Logger, boxes []BoundingBox, polygons []Polygon, m geom.Matrix3, final geom.CanvasDims) TransformResult {
	w, h := float64(final.Width), float64(final.Height)
	var result TransformResult

	for _, b := range boxes {
		nb, ok := transformBoxMatrix(b, m, w, h)
		if !ok {
			logger.Debug("annotation dropped after matrix transform", "class_name", b.ClassName, "reason", "degenerate_bbox")
			continue
		}
		result.Boxes = append(result.Boxes, nb)
	}

	for _, p := range polygons {
		np, ok := transformPolygonMatrix(p, m, w, h)
		if !ok {
			logger.Debug("annotation dropped after matrix transform", "class_name", p.ClassName, "reason", "degenerate_polygon")
			continue
		}
		result.Polygons = append(result.Polygons, np)
	}
	return result
}

func transformBoxMatrix(b BoundingBox, m geom.Matrix3, w, h float64) (BoundingBox, bool) {
	corners := [4]geom.Point{
		{X: b.XMin, Y: b.YMin}, {X: b.XMax, Y: b.YMin},
		{X: b.XMin, Y: b.YMax}, {X: b.XMax, Y: b.YMax},
	}
	var txs, tys [4]float64
	for i, c := range corners {
		p := m.Apply(c)
		if !geom.Finite(p.X) || !geom.Finite(p.Y) {
			return BoundingBox{}, false
		}
		txs[i], tys[i] = p.X, p.Y
	}

	xMin, xMax := minMax4(txs)
	yMin, yMax := minMax4(tys)
	xMin, xMax = clampCoord(xMin, 0, w), clampCoord(xMax, 0, w)
	yMin, yMax = clampCoord(yMin, 0, h), clampCoord(yMax, 0, h)
	if xMin >= xMax || yMin >= yMax {
		return BoundingBox{}, false
	}

	out := b
	out.XMin, out.YMin, out.XMax, out.YMax = xMin, yMin, xMax, yMax
	return out, true
}

func transformPolygonMatrix(p Polygon, m geom.Matrix3, w, h float64) (Polygon, bool) {
	pts := make([]geom.Point, len(p.Points))
	for i, v := range p.Points {
		tp := m.Apply(v)
		if !geom.Finite(tp.X) || !geom.Finite(tp.Y) {
			return Polygon{}, false
		}
		pts[i] = tp
	}

	clipped, ok := clipPolygonToCanvas(pts, w, h)
	if !ok {
		return Polygon{}, false
	}

	out := p
	out.Points = clipped
	return out, true
}

func minMax4(v [4]float64) (min, max float64) {
	min, max = v[0], v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}
