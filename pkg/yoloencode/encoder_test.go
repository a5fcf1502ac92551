package yoloencode_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/clearscan/augforge/pkg/annotation"
	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/yoloencode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// S1: stretch_to 320x320 transports (100,80,300,240) on a 640x480
// source to (50, 53.33, 150, 160) on a 320x320 final canvas.
func TestDetectionLine_S1_StretchTo(t *testing.T) {
	b := annotation.BoundingBox{XMin: 50, YMin: 160.0 / 3, XMax: 150, YMax: 480.0 / 3, ClassID: 0}
	line, ok := yoloencode.DetectionLine(testLogger(), b, geom.CanvasDims{Width: 320, Height: 320})
	require.True(t, ok)
	assert.Equal(t, "0 0.312500 0.333333 0.312500 0.333333", line)
}

// S2: fit_within 320x320 transports to (50,40,150,120) on the actual
// rendered 320x240 final canvas.
func TestDetectionLine_S2_FitWithin(t *testing.T) {
	b := annotation.BoundingBox{XMin: 50, YMin: 40, XMax: 150, YMax: 120, ClassID: 0}
	line, ok := yoloencode.DetectionLine(testLogger(), b, geom.CanvasDims{Width: 320, Height: 240})
	require.True(t, ok)
	assert.Equal(t, "0 0.312500 0.333333 0.312500 0.333333", line)
}

// S4: flip horizontal transports to (340,80,540,240) on the unchanged
// 640x480 canvas.
func TestDetectionLine_S4_FlipHorizontal(t *testing.T) {
	b := annotation.BoundingBox{XMin: 340, YMin: 80, XMax: 540, YMax: 240, ClassID: 0}
	line, ok := yoloencode.DetectionLine(testLogger(), b, geom.CanvasDims{Width: 640, Height: 480})
	require.True(t, ok)
	assert.Equal(t, "0 0.687500 0.333333 0.312500 0.333333", line)
}

func TestDetectionLine_DropsOutOfBoundsWidth(t *testing.T) {
	// XMax beyond the canvas would normalize w > 1; the clip pass
	// should never let this through, but the encoder defends anyway.
	b := annotation.BoundingBox{XMin: 0, YMin: 0, XMax: 1000, YMax: 10, ClassID: 0}
	_, ok := yoloencode.DetectionLine(testLogger(), b, geom.CanvasDims{Width: 320, Height: 320})
	assert.False(t, ok)
}

func TestDetectionLine_DropsZeroWidthBox(t *testing.T) {
	b := annotation.BoundingBox{XMin: 50, YMin: 50, XMax: 50, YMax: 60, ClassID: 0}
	_, ok := yoloencode.DetectionLine(testLogger(), b, geom.CanvasDims{Width: 320, Height: 320})
	assert.False(t, ok)
}

func TestSegmentationLine_AllVerticesInBounds(t *testing.T) {
	p := annotation.Polygon{
		Points:  []geom.Point{{X: 0, Y: 0}, {X: 320, Y: 0}, {X: 320, Y: 320}, {X: 0, Y: 320}},
		ClassID: 2,
	}
	line, ok := yoloencode.SegmentationLine(testLogger(), p, geom.CanvasDims{Width: 320, Height: 320})
	require.True(t, ok)
	assert.Equal(t, "2 0.000000 0.000000 1.000000 0.000000 1.000000 1.000000 0.000000 1.000000", line)
}

func TestSegmentationLine_DroppedWhenFewerThanThreePoints(t *testing.T) {
	p := annotation.Polygon{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}
	_, ok := yoloencode.SegmentationLine(testLogger(), p, geom.CanvasDims{Width: 100, Height: 100})
	assert.False(t, ok)
}

func TestClassRegistry_AlphabeticalIDs(t *testing.T) {
	reg := yoloencode.NewClassRegistry()
	reg.Observe("dog")
	reg.Observe("cat")
	reg.Observe("bird")
	reg.Freeze()

	cfg := yoloencode.NewDataConfig(reg)
	assert.Equal(t, []string{"bird", "cat", "dog"}, cfg.Names)
	assert.Equal(t, 3, cfg.NC)
	assert.Equal(t, 1, reg.Resolve(testLogger(), "cat", nil))
}

func TestClassRegistry_UnknownNameFallsBackToZero(t *testing.T) {
	reg := yoloencode.NewClassRegistry()
	reg.Observe("cat")
	reg.Freeze()
	assert.Equal(t, 0, reg.Resolve(testLogger(), "unicorn", nil))
}

func TestClassRegistry_ObserveAfterFreezeIsNoOp(t *testing.T) {
	reg := yoloencode.NewClassRegistry()
	reg.Observe("cat")
	reg.Freeze()
	reg.Observe("dog")
	assert.Equal(t, []string{"cat"}, reg.Names())
}

func TestMarshalDataYAML_ContainsSortedNames(t *testing.T) {
	cfg := yoloencode.DataConfig{Names: []string{"bird", "cat", "dog"}, NC: 3}
	out, err := yoloencode.MarshalDataYAML(cfg, "images/train", "images/val", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "nc: 3")
	assert.Contains(t, string(out), "- bird")
	assert.Contains(t, string(out), "train: images/train")
}
