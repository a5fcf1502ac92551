package geom

import "math"

// Matrix3 is a row-major 3x3 homogeneous transform. It is the single
// representation used by the matrix-precise path shared between the
// pixel engine (C3) and the annotation transformer (C4): whatever matrix
// C3 composes for a geometric op is the exact matrix C4 applies to that
// op's annotations.
type Matrix3 [9]float64

// Identity returns the identity transform.
func Identity() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mul returns m applied after n, i.e. the transform that first applies n
// then m: (m.Mul(n)).Apply(p) == m.Apply(n.Apply(p)).
func (m Matrix3) Mul(n Matrix3) Matrix3 {
	var out Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[r*3+k] * n[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// Apply transforms a point through the homogeneous matrix, dividing out
// the homogeneous coordinate w. A near-zero w (degenerate projective
// transform) is clamped away from zero rather than divided by exactly,
// matching the source's defensive handling of the same case.
func (m Matrix3) Apply(p Point) Point {
	x := m[0]*p.X + m[1]*p.Y + m[2]
	y := m[3]*p.X + m[4]*p.Y + m[5]
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if math.Abs(w) < 1e-12 {
		if w < 0 {
			w = -1e-12
		} else {
			w = 1e-12
		}
	}
	return Point{X: x / w, Y: y / w}
}

// Translate returns a pure translation matrix.
func Translate(dx, dy float64) Matrix3 {
	return Matrix3{
		1, 0, dx,
		0, 1, dy,
		0, 0, 1,
	}
}

// Scale returns a pure scale matrix about the origin.
func Scale(sx, sy float64) Matrix3 {
	return Matrix3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Rotate returns a pure rotation matrix (radians, counter-clockwise in
// standard math orientation) about the origin.
func Rotate(radians float64) Matrix3 {
	s, c := math.Sin(radians), math.Cos(radians)
	return Matrix3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Shear returns a horizontal shear matrix: x' = x + tan(angle)*y.
func Shear(radians float64) Matrix3 {
	return Matrix3{
		1, math.Tan(radians), 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// AboutCenter wraps m so it is applied about (cx, cy) instead of the
// origin: translate(-c) -> m -> translate(+c).
func AboutCenter(m Matrix3, cx, cy float64) Matrix3 {
	return Translate(cx, cy).Mul(m).Mul(Translate(-cx, -cy))
}

// Det returns the determinant of m.
func (m Matrix3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse of m. ok is false when m is singular
// (determinant within 1e-12 of zero), in which case the zero Matrix3
// is returned.
func (m Matrix3) Inverse() (Matrix3, bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Matrix3{}, false
	}
	inv := 1.0 / det
	return Matrix3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, true
}

// Homography solves for the 3x3 projective transform mapping each
// src[i] to dst[i] (i=0..3), via direct linear transform on the 8
// unknowns (h33 normalized to 1). Used by perspective_warp, the one
// geometric tool that is not affine. ok is false if the 8x8 system is
// singular (degenerate/collinear correspondences).
func Homography(src, dst [4]Point) (Matrix3, bool) {
	// Each correspondence contributes two rows of the linear system
	// A*h = b, where h = (a,b,c,d,e,f,g,h_) and m33 = 1.
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r0 := 2 * i
		r1 := 2*i + 1
		a[r0] = [8]float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx}
		b[r0] = dx
		a[r1] = [8]float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy}
		b[r1] = dy
	}
	h, ok := solve8(a, b)
	if !ok {
		return Matrix3{}, false
	}
	return Matrix3{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// solve8 solves the 8x8 linear system a*x = b via Gaussian elimination
// with partial pivoting.
func solve8(a [8][8]float64, b [8]float64) ([8]float64, bool) {
	const n = 8
	var aug [n][n + 1]float64
	for r := 0; r < n; r++ {
		copy(aug[r][:n], a[r][:])
		aug[r][n] = b[r]
	}
	for col := 0; col < n; col++ {
		pivot := col
		maxAbs := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > maxAbs {
				maxAbs = v
				pivot = r
			}
		}
		if maxAbs < 1e-12 {
			return [8]float64{}, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		for c := col; c <= n; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	var x [8]float64
	for r := 0; r < n; r++ {
		x[r] = aug[r][n]
	}
	return x, true
}

// Corners returns the four corners of a w x h rectangle at the origin,
// in the order the source's matrix path uses: top-left, top-right,
// bottom-left, bottom-right.
func Corners(w, h float64) [4]Point {
	return [4]Point{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: 0, Y: h},
		{X: w, Y: h},
	}
}
