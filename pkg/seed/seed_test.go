package seed_test

import (
	"testing"

	"github.com/clearscan/augforge/pkg/seed"
	"github.com/stretchr/testify/assert"
)

func TestForVariant_Deterministic(t *testing.T) {
	a := seed.ForVariant("img-1", 2, "random_zoom")
	b := seed.ForVariant("img-1", 2, "random_zoom")
	assert.Equal(t, a, b)
}

func TestForVariant_DistinctByLabel(t *testing.T) {
	a := seed.ForVariant("img-1", 2, "random_zoom")
	b := seed.ForVariant("img-1", 2, "crop")
	assert.NotEqual(t, a, b)
}

func TestForVariant_DistinctByVariantIndex(t *testing.T) {
	a := seed.ForVariant("img-1", 1, "noise")
	b := seed.ForVariant("img-1", 2, "noise")
	assert.NotEqual(t, a, b)
}

func TestRandForVariant_Deterministic(t *testing.T) {
	r1 := seed.RandForVariant("img-9", 0, "perspective_warp")
	r2 := seed.RandForVariant("img-9", 0, "perspective_warp")
	assert.Equal(t, r1.Float64(), r2.Float64())
}
