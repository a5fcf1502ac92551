package plan_test

import (
	"testing"

	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PlanLength(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	p := g.Generate("img-1", nil, 2)
	require.Len(t, p.Variants, 3)
}

func TestGenerate_BaselineIsResizeOnly(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "resize", Parameters: map[string]any{"width": 320.0, "height": 320.0, "resize_mode": "stretch_to"}},
		{TypeTag: "brightness", Parameters: map[string]any{"percentage": 20.0}},
	}
	p := g.Generate("img-1", selections, 1)
	baseline := p.Variants[0]
	require.True(t, baseline.IsBaseline())
	require.Len(t, baseline.Ops, 1)
	assert.Equal(t, "resize", baseline.Ops[0].TypeTag)
}

func TestGenerate_BaselineIdentityWhenNoResize(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "flip", Parameters: map[string]any{"horizontal": true}},
	}
	p := g.Generate("img-1", selections, 1)
	assert.Empty(t, p.Variants[0].Ops)
}

// variants_per_original=2, rotate user=30deg: variant 1 uses the
// auto (-30) mirror, variant 2 uses the user value.
func TestGenerate_DualValueAlternation_S5(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "rotate", Parameters: map[string]any{"angle": 30.0}},
	}
	p := g.Generate("cat", selections, 2)
	require.Len(t, p.Variants, 3)

	require.True(t, p.Variants[0].IsBaseline())

	v1 := p.Variants[1]
	require.Len(t, v1.Ops, 1)
	assert.Equal(t, -30.0, v1.Ops[0].Parameters["angle"])

	v2 := p.Variants[2]
	require.Len(t, v2.Ops, 1)
	assert.Equal(t, 30.0, v2.Ops[0].Parameters["angle"])
}

func TestGenerate_ResizeForcedLast(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "resize", Parameters: map[string]any{"width": 320.0, "height": 320.0, "resize_mode": "stretch_to"}},
		{TypeTag: "brightness", Parameters: map[string]any{"percentage": 10.0}},
		{TypeTag: "flip", Parameters: map[string]any{"horizontal": true}},
	}
	p := g.Generate("img-1", selections, 1)
	v1 := p.Variants[1]
	require.Len(t, v1.Ops, 3)
	assert.Equal(t, "brightness", v1.Ops[0].TypeTag)
	assert.Equal(t, "flip", v1.Ops[1].TypeTag)
	assert.Equal(t, "resize", v1.Ops[2].TypeTag)
}

func TestGenerate_NonDualToolUnchangedAcrossVariants(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "flip", Parameters: map[string]any{"horizontal": true}},
	}
	p := g.Generate("img-1", selections, 2)
	assert.Equal(t, true, p.Variants[1].Ops[0].Parameters["horizontal"])
	assert.Equal(t, true, p.Variants[2].Ops[0].Parameters["horizontal"])
}

func TestGenerate_NegativeVariantsClampedToZero(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	p := g.Generate("img-1", nil, -5)
	require.Len(t, p.Variants, 1)
}

func TestGenerate_ParamCloneIsolatesVariants(t *testing.T) {
	g := plan.NewGenerator(registry.Default())
	selections := []plan.Selection{
		{TypeTag: "rotate", Parameters: map[string]any{"angle": 10.0}},
	}
	p := g.Generate("img-1", selections, 2)
	p.Variants[1].Ops[0].Parameters["angle"] = 999.0
	assert.NotEqual(t, 999.0, p.Variants[2].Ops[0].Parameters["angle"])
}
