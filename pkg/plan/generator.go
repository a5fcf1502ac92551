package plan

import "github.com/clearscan/augforge/pkg/registry"

// Generator builds an AugmentationPlan from a user's transformation
// selection. It holds no mutable state across calls;
// one Generator can build plans for many images concurrently.
type Generator struct {
	Registry *registry.Registry
}

// NewGenerator returns a Generator backed by r.
func NewGenerator(r *registry.Registry) *Generator {
	return &Generator{Registry: r}
}

// Generate returns the AugmentationPlan for one image: length
// 1+variantsPerOriginal, selections preserved in user-declared order
// within each variant (resize forced last). variantsPerOriginal < 0 is
// treated as 0.
func (g *Generator) Generate(imageID string, selections []Selection, variantsPerOriginal int) AugmentationPlan {
	if variantsPerOriginal < 0 {
		variantsPerOriginal = 0
	}

	resizeSel, rest := splitResize(selections)

	p := AugmentationPlan{ImageID: imageID}
	p.Variants = append(p.Variants, baselineConfig(resizeSel))

	for v := 1; v <= variantsPerOriginal; v++ {
		p.Variants = append(p.Variants, g.variantConfig(rest, resizeSel, v))
	}
	return p
}

func splitResize(selections []Selection) (resize *Selection, rest []Selection) {
	for i := range selections {
		if selections[i].TypeTag == "resize" {
			s := selections[i]
			resize = &s
			continue
		}
		rest = append(rest, selections[i])
	}
	return resize, rest
}

// baselineConfig is plan index 0: resize only (if selected), no
// augmentation — the original-preserving variant.
func baselineConfig(resize *Selection) TransformationConfig {
	if resize == nil {
		return TransformationConfig{}
	}
	return TransformationConfig{Ops: []Transformation{
		{TypeTag: "resize", Parameters: cloneParams(resize.Parameters), OrderIndex: 0},
	}}
}

func (g *Generator) variantConfig(rest []Selection, resize *Selection, variantIndex int) TransformationConfig {
	ops := make([]Transformation, 0, len(rest)+1)
	for i, sel := range rest {
		ops = append(ops, Transformation{
			TypeTag:    sel.TypeTag,
			Parameters: g.resolveParams(sel, variantIndex),
			OrderIndex: i,
		})
	}
	if resize != nil {
		ops = append(ops, Transformation{
			TypeTag:    "resize",
			Parameters: cloneParams(resize.Parameters),
			OrderIndex: len(ops),
		})
	}
	return TransformationConfig{Ops: ops}
}

// resolveParams applies the dual-value alternation rule: variant 1
// uses the auto (mirrored) value, variant 2 the user value, variant 3
// auto again, and so on — "variants 3..k extend by sign-flipping"
// collapses to the same two-phase cycle since flipping
// an already-mirrored value returns the user value and vice versa.
// Tools outside registry.DualValueTools pass their parameters through
// unchanged in every variant.
func (g *Generator) resolveParams(sel Selection, variantIndex int) map[string]any {
	out := cloneParams(sel.Parameters)
	dualParam, isDual := registry.DualValueTools[sel.TypeTag]
	if !isDual {
		return out
	}
	raw, ok := out[dualParam]
	if !ok {
		return out
	}
	userValue, ok := toFloat(raw)
	if !ok {
		return out
	}
	if variantIndex%2 == 1 {
		out[dualParam] = registry.MirrorAuto(userValue)
	} else {
		out[dualParam] = userValue
	}
	return out
}

func cloneParams(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
