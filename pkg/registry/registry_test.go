package registry_test

import (
	"math"
	"testing"

	"github.com/clearscan/augforge/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasAllTools(t *testing.T) {
	r := registry.Default()
	tools := r.Describe()
	geometric := []string{"resize", "rotate", "flip", "crop", "random_zoom", "affine_transform", "perspective_warp", "shear"}
	photometric := []string{"brightness", "contrast", "blur", "noise", "hue", "saturation", "gamma", "clahe", "cutout", "color_jitter", "grayscale", "equalize"}
	for _, tag := range geometric {
		spec, ok := tools[tag]
		require.Truef(t, ok, "missing geometric tool %q", tag)
		assert.Equal(t, registry.Geometric, spec.Category)
	}
	for _, tag := range photometric {
		spec, ok := tools[tag]
		require.Truef(t, ok, "missing photometric tool %q", tag)
		assert.Equal(t, registry.Photometric, spec.Category)
	}
	assert.Len(t, tools, len(geometric)+len(photometric))
}

func TestIsGeometric(t *testing.T) {
	r := registry.Default()
	assert.True(t, r.IsGeometric("rotate"))
	assert.True(t, r.IsGeometric("perspective_warp"))
	assert.False(t, r.IsGeometric("brightness"))
	assert.False(t, r.IsGeometric("no-such-tool"))
}

func TestClamp_BoundsEnforced(t *testing.T) {
	r := registry.Default()
	v, err := r.Clamp("brightness", "percentage", 999)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)

	v, err = r.Clamp("brightness", "percentage", -999)
	require.NoError(t, err)
	assert.Equal(t, -50.0, v)

	v, err = r.Clamp("brightness", "percentage", 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestClamp_UnknownToolOrParam(t *testing.T) {
	r := registry.Default()
	_, err := r.Clamp("not-a-tool", "x", 1)
	assert.Error(t, err)

	_, err = r.Clamp("brightness", "not-a-param", 1)
	assert.Error(t, err)
}

func TestBridge_RotateDegreesToRadians(t *testing.T) {
	r := registry.Default()
	rad, err := r.Bridge("rotate", "angle", 30)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/6, rad, 1e-9)
}

func TestBridge_BrightnessPercentToFactor(t *testing.T) {
	r := registry.Default()
	factor, err := r.Bridge("brightness", "percentage", -20)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, factor, 1e-9)

	factor, err = r.Bridge("contrast", "percentage", 20)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, factor, 1e-9)
}

func TestBridge_CropPercentToFraction(t *testing.T) {
	r := registry.Default()
	frac, err := r.Bridge("crop", "percent", 80)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, frac, 1e-9)
}

func TestBridge_ClampsBeforeConverting(t *testing.T) {
	r := registry.Default()
	rad, err := r.Bridge("rotate", "angle", 9999)
	require.NoError(t, err)
	assert.InDelta(t, 45*math.Pi/180, rad, 1e-9)
}

func TestMirrorAuto_IsSignFlip(t *testing.T) {
	assert.Equal(t, -12.5, registry.MirrorAuto(12.5))
	assert.Equal(t, 7.0, registry.MirrorAuto(-7))
}

func TestDualValueTools_FixedSet(t *testing.T) {
	assert.Equal(t, map[string]string{
		"rotate":     "angle",
		"brightness": "percentage",
		"contrast":   "percentage",
		"shear":      "shear_angle",
		"hue":        "shift",
	}, registry.DualValueTools)
}
