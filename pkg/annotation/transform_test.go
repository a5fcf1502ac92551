package annotation_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/clearscan/augforge/pkg/annotation"
	"github.com/clearscan/augforge/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var catBox = annotation.BoundingBox{XMin: 100, YMin: 80, XMax: 300, YMax: 240, ClassName: "cat", ClassID: 0, Confidence: 1}

// S1: stretch_to 320x320 on a 640x480 source transports (100,80,300,240)
// to (50, 53.33, 150, 160).
func TestTransformMatrix_S1_StretchTo(t *testing.T) {
	m := geom.Scale(320.0/640, 320.0/480)
	res := annotation.TransformMatrix(testLogger(), []annotation.BoundingBox{catBox}, nil, m, geom.CanvasDims{Width: 320, Height: 320})
	require.Len(t, res.Boxes, 1)
	b := res.Boxes[0]
	assert.InDelta(t, 50, b.XMin, 1e-6)
	assert.InDelta(t, 80.0/480*320, b.YMin, 1e-6)
	assert.InDelta(t, 150, b.XMax, 1e-6)
	assert.InDelta(t, 240.0/480*320, b.YMax, 1e-6)
}

// S2: fit_within 320x320 scales uniformly by 0.5, final canvas (320,240).
func TestTransformMatrix_S2_FitWithin(t *testing.T) {
	m := geom.Scale(0.5, 0.5)
	res := annotation.TransformMatrix(testLogger(), []annotation.BoundingBox{catBox}, nil, m, geom.CanvasDims{Width: 320, Height: 240})
	require.Len(t, res.Boxes, 1)
	b := res.Boxes[0]
	assert.InDelta(t, 50, b.XMin, 1e-6)
	assert.InDelta(t, 40, b.YMin, 1e-6)
	assert.InDelta(t, 150, b.XMax, 1e-6)
	assert.InDelta(t, 120, b.YMax, 1e-6)
}

// S3: fit_black_edges letterboxes with pad_y=40 on top of the 0.5 scale.
func TestTransformMatrix_S3_FitBlackEdges(t *testing.T) {
	m := geom.Translate(0, 40).Mul(geom.Scale(0.5, 0.5))
	res := annotation.TransformMatrix(testLogger(), []annotation.BoundingBox{catBox}, nil, m, geom.CanvasDims{Width: 320, Height: 320})
	require.Len(t, res.Boxes, 1)
	b := res.Boxes[0]
	assert.InDelta(t, 50, b.XMin, 1e-6)
	assert.InDelta(t, 80, b.YMin, 1e-6) // 40 + 40
	assert.InDelta(t, 150, b.XMax, 1e-6)
	assert.InDelta(t, 160, b.YMax, 1e-6) // 120 + 40
}

// S4: flip horizontal maps x -> 640-x, canvas unchanged.
func TestTransformMatrix_S4_FlipHorizontal(t *testing.T) {
	m := geom.Matrix3{-1, 0, 640, 0, 1, 0, 0, 0, 1}
	res := annotation.TransformMatrix(testLogger(), []annotation.BoundingBox{catBox}, nil, m, geom.CanvasDims{Width: 640, Height: 480})
	require.Len(t, res.Boxes, 1)
	b := res.Boxes[0]
	assert.InDelta(t, 340, b.XMin, 1e-6)
	assert.InDelta(t, 80, b.YMin, 1e-6)
	assert.InDelta(t, 540, b.XMax, 1e-6)
	assert.InDelta(t, 240, b.YMax, 1e-6)
}

// S6: a polygon straddling the canvas edge under stretch_to 320x320 is
// clipped by Sutherland-Hodgman to x<=320.
func TestTransformMatrix_S6_PolygonClippedByStretchTo(t *testing.T) {
	poly := annotation.Polygon{
		Points: []geom.Point{
			{X: 600, Y: 400}, {X: 700, Y: 400}, {X: 700, Y: 500}, {X: 600, Y: 500},
		},
		ClassName: "cat",
	}
	m := geom.Scale(320.0/640, 320.0/480)
	res := annotation.TransformMatrix(testLogger(), nil, []annotation.Polygon{poly}, m, geom.CanvasDims{Width: 320, Height: 320})
	require.Len(t, res.Polygons, 1)
	pts := res.Polygons[0].Points
	require.Len(t, pts, 4)
	for _, p := range pts {
		assert.True(t, p.X == 300 || p.X == 320, "x=%v", p.X)
		assert.LessOrEqual(t, p.X, 320.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 320.0)
	}
}

func TestTransformMatrix_DropsDegenerateBBoxAfterClip(t *testing.T) {
	// Entirely outside the final canvas to the right.
	outside := annotation.BoundingBox{XMin: 400, YMin: 10, XMax: 500, YMax: 50, ClassName: "cat"}
	m := geom.Identity()
	res := annotation.TransformMatrix(testLogger(), []annotation.BoundingBox{outside}, nil, m, geom.CanvasDims{Width: 320, Height: 320})
	assert.Empty(t, res.Boxes)
}

func TestTransformMatrix_DropsNonFinitePolygon(t *testing.T) {
	poly := annotation.Polygon{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}}
	// A non-finite input vertex (e.g. from an upstream NaN) must be dropped.
	badPoly := annotation.Polygon{Points: []geom.Point{
		{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}, {X: math.Inf(1), Y: 0},
	}}
	res := annotation.TransformMatrix(testLogger(), nil, []annotation.Polygon{poly, badPoly}, geom.Identity(), geom.CanvasDims{Width: 100, Height: 100})
	require.Len(t, res.Polygons, 1)
}
