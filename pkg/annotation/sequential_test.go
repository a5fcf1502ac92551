package annotation_test

import (
	"testing"

	"github.com/clearscan/augforge/pkg/annotation"
	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stretchToCfg(w, h int) plan.TransformationConfig {
	return plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "resize", Parameters: map[string]any{"width": w, "height": h, "resize_mode": "stretch_to"}},
	}}
}

func TestTransformSequential_S1_StretchTo_MatchesMatrixPath(t *testing.T) {
	cfg := stretchToCfg(320, 320)
	res, final := annotation.TransformSequential(testLogger(), registry.Default(), []annotation.BoundingBox{catBox}, nil, cfg, geom.CanvasDims{Width: 640, Height: 480})
	require.Len(t, res.Boxes, 1)
	assert.Equal(t, geom.CanvasDims{Width: 320, Height: 320}, final)
	b := res.Boxes[0]
	assert.InDelta(t, 50, b.XMin, 1e-6)
	assert.InDelta(t, 150, b.XMax, 1e-6)
}

func TestTransformSequential_FitWithin_ShrinksCanvas(t *testing.T) {
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "resize", Parameters: map[string]any{"width": 320, "height": 320, "resize_mode": "fit_within"}},
	}}
	_, final := annotation.TransformSequential(testLogger(), registry.Default(), nil, nil, cfg, geom.CanvasDims{Width: 640, Height: 480})
	assert.Equal(t, geom.CanvasDims{Width: 320, Height: 240}, final)
}

func TestTransformSequential_FlipHorizontal(t *testing.T) {
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "flip", Parameters: map[string]any{"horizontal": true, "vertical": false}},
	}}
	res, final := annotation.TransformSequential(testLogger(), registry.Default(), []annotation.BoundingBox{catBox}, nil, cfg, geom.CanvasDims{Width: 640, Height: 480})
	require.Len(t, res.Boxes, 1)
	assert.Equal(t, geom.CanvasDims{Width: 640, Height: 480}, final)
	b := res.Boxes[0]
	assert.InDelta(t, 340, b.XMin, 1e-6)
	assert.InDelta(t, 540, b.XMax, 1e-6)
}

func TestTransformSequential_DropsBBoxClippedAway(t *testing.T) {
	outside := annotation.BoundingBox{XMin: 0, YMin: 0, XMax: 5, YMax: 5, ClassName: "cat"}
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "crop", Parameters: map[string]any{"percent": 50.0, "mode": "bottom_right"}},
	}}
	res, _ := annotation.TransformSequential(testLogger(), registry.Default(), []annotation.BoundingBox{outside}, nil, cfg, geom.CanvasDims{Width: 100, Height: 100})
	assert.Empty(t, res.Boxes)
}

func TestTransformSequential_IdentityRoundTrip(t *testing.T) {
	cfg := stretchToCfg(640, 480)
	res, final := annotation.TransformSequential(testLogger(), registry.Default(), []annotation.BoundingBox{catBox}, nil, cfg, geom.CanvasDims{Width: 640, Height: 480})
	require.Len(t, res.Boxes, 1)
	assert.Equal(t, geom.CanvasDims{Width: 640, Height: 480}, final)
	b := res.Boxes[0]
	assert.InDelta(t, catBox.XMin, b.XMin, 1e-3)
	assert.InDelta(t, catBox.YMin, b.YMin, 1e-3)
	assert.InDelta(t, catBox.XMax, b.XMax, 1e-3)
	assert.InDelta(t, catBox.YMax, b.YMax, 1e-3)
}

func TestTransformSequential_FillCenterCrop_RoundsOffsetsLikeEngine(t *testing.T) {
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "resize", Parameters: map[string]any{"width": 320, "height": 320, "resize_mode": "fill_center_crop"}},
	}}
	res, final := annotation.TransformSequential(testLogger(), registry.Default(), []annotation.BoundingBox{catBox}, nil, cfg, geom.CanvasDims{Width: 640, Height: 480})
	require.Len(t, res.Boxes, 1)
	assert.Equal(t, geom.CanvasDims{Width: 320, Height: 320}, final)

	// s = max(320/640, 320/480) = 2/3, scaled width 427, so the
	// center-crop offset is RoundEven(53.5) = 54 -- the same value
	// the engine's rendered crop uses.
	s := 2.0 / 3
	b := res.Boxes[0]
	assert.InDelta(t, catBox.XMin*s-54, b.XMin, 1e-6)
	assert.InDelta(t, catBox.XMax*s-54, b.XMax, 1e-6)
	assert.InDelta(t, catBox.YMin*s, b.YMin, 1e-6)
	assert.InDelta(t, catBox.YMax*s, b.YMax, 1e-6)
}
