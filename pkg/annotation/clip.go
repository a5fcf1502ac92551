package annotation

import "github.com/clearscan/augforge/pkg/geom"

// minPolygonArea is the residual-area floor below which a clipped ring
// is treated as fully degenerate.
const minPolygonArea = 1e-3

// clipPolygonToCanvas runs Sutherland-Hodgman against the four edges of
// [0,W]x[0,H] in the fixed order left, right, top, bottom. Returns
// false if the ring clips away entirely, has fewer than
// 3 vertices, or its area falls below minPolygonArea.
func clipPolygonToCanvas(points []geom.Point, w, h float64) ([]geom.Point, bool) {
	edges := []clipEdge{
		{normal: geom.Point{X: 1, Y: 0}, offset: 0},  // left:   x >= 0
		{normal: geom.Point{X: -1, Y: 0}, offset: w}, // right:  x <= w
		{normal: geom.Point{X: 0, Y: 1}, offset: 0},  // top:    y >= 0
		{normal: geom.Point{X: 0, Y: -1}, offset: h}, // bottom: y <= h
	}

	out := points
	for _, e := range edges {
		out = clipAgainstEdge(out, e)
		if len(out) == 0 {
			return nil, false
		}
	}

	if len(out) < 3 {
		return nil, false
	}
	if polygonArea(out) < minPolygonArea {
		return nil, false
	}
	return out, true
}

// clipEdge is a half-plane inside >= 0 constraint: normal.X*x +
// normal.Y*y + offset >= 0.
type clipEdge struct {
	normal geom.Point
	offset float64
}

func (e clipEdge) inside(p geom.Point) bool {
	return e.normal.X*p.X+e.normal.Y*p.Y+e.offset >= 0
}

// intersect finds where segment a->b crosses e, handling the
// edge-parallel case by returning the endpoint already on the edge
// instead of dividing by zero.
func (e clipEdge) intersect(a, b geom.Point) geom.Point {
	da := e.normal.X*a.X + e.normal.Y*a.Y + e.offset
	db := e.normal.X*b.X + e.normal.Y*b.Y + e.offset
	denom := da - db
	if denom == 0 {
		return a
	}
	t := da / denom
	return geom.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

func clipAgainstEdge(points []geom.Point, e clipEdge) []geom.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]geom.Point, 0, len(points)+1)
	prev := points[len(points)-1]
	prevInside := e.inside(prev)
	for _, cur := range points {
		curInside := e.inside(cur)
		switch {
		case curInside && prevInside:
			out = append(out, cur)
		case curInside && !prevInside:
			out = append(out, e.intersect(prev, cur), cur)
		case !curInside && prevInside:
			out = append(out, e.intersect(prev, cur))
		}
		prev = cur
		prevInside = curInside
	}
	return out
}

// polygonArea is the shoelace-formula area of a (possibly non-convex,
// simple) ring.
func polygonArea(points []geom.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

func clampCoord(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
