// Package geom holds the small, dependency-free geometry primitives
// shared by the pixel engine and the annotation transformer: points,
// canvas dimensions, and 3x3 homogeneous transform matrices.
package geom

import "math"

// Point is a pixel-space coordinate.
type Point struct {
	X, Y float64
}

// CanvasDims is the (width, height) of a rendered pixel canvas. Always
// strictly positive for a valid canvas.
type CanvasDims struct {
	Width, Height int
}

// Valid reports whether the dims describe a usable canvas.
func (d CanvasDims) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// RoundEven rounds v to the nearest integer, ties to even. This is the
// single rounding rule shared by the pixel engine and the annotation
// transformer so letterbox offsets and fit_within target dims never
// drift by the ±1px a mismatched rounding choice would introduce.
func RoundEven(v float64) float64 {
	return math.RoundToEven(v)
}

// RoundEvenInt rounds v to the nearest int, ties to even.
func RoundEvenInt(v float64) int {
	return int(math.RoundToEven(v))
}

// Finite reports whether v is neither NaN nor ±Inf.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PointsFinite reports whether every coordinate of every point is finite.
func PointsFinite(pts []Point) bool {
	for _, p := range pts {
		if !Finite(p.X) || !Finite(p.Y) {
			return false
		}
	}
	return true
}
