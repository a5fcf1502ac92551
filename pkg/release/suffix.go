package release

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
)

// primaryParam names the one UI-facing parameter that best identifies
// a tool's strength for filename purposes (e.g.
// "brightness+30_flip_horizontal"). The dual-value tools
// reuse registry.DualValueTools directly so the two never drift;
// the remaining single-valued geometric tools are listed here too.
var primaryParam = map[string]string{
	"random_zoom":      "zoom_factor",
	"perspective_warp": "distortion_strength",
}

func init() {
	for tag, param := range registry.DualValueTools {
		primaryParam[tag] = param
	}
}

// signedTokens identifies tools whose primary parameter is rendered
// with an explicit "+" for positive values, matching the worked
// example ("brightness+30"). Angle-valued tools
// (rotate, shear) render bare signed numbers instead ("rotate-30",
// "rotate30"), since a leading "+" reads oddly next
// to a degree value.
var signedTokens = map[string]bool{
	"brightness": true,
	"contrast":   true,
	"hue":        true,
}

// VariantSuffix derives the deterministic filename descriptor for a
// variant from its enabled non-resize tools, in declared order
// . The baseline variant (no non-resize tools)
// has an empty suffix.
func VariantSuffix(cfg plan.TransformationConfig) string {
	var tokens []string
	for _, op := range cfg.Ops {
		if op.TypeTag == "resize" {
			continue
		}
		tokens = append(tokens, toolToken(op))
	}
	return strings.Join(tokens, "_")
}

func toolToken(op plan.Transformation) string {
	if boolTokens := boolFlagTokens(op); len(boolTokens) > 0 {
		return strings.Join(boolTokens, "_")
	}

	name, ok := primaryParam[op.TypeTag]
	if !ok {
		return op.TypeTag
	}
	raw, ok := op.Parameters[name]
	if !ok {
		return op.TypeTag
	}
	v, ok := toFloat(raw)
	if !ok {
		return op.TypeTag
	}
	return op.TypeTag + formatToken(v, signedTokens[op.TypeTag])
}

// boolFlagTokens handles tools selected via boolean flags (flip's
// horizontal/vertical) rather than a single numeric strength —
// producing one token per enabled flag, e.g. "flip_horizontal".
func boolFlagTokens(op plan.Transformation) []string {
	if op.TypeTag != "flip" {
		return nil
	}
	var names []string
	for k, v := range op.Parameters {
		if b, ok := v.(bool); ok && b {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	tokens := make([]string, 0, len(names))
	for _, n := range names {
		tokens = append(tokens, op.TypeTag+"_"+n)
	}
	return tokens
}

func formatToken(v float64, explicitPlus bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if explicitPlus && v > 0 {
		return "+" + s
	}
	return s
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

// OutputPath builds the `<name>-<suffix>.<ext>` image path and its
// matching `<name>-<suffix>.txt` label path within a split directory;
// with an empty suffix the dash is dropped (`<name>.<ext>`).
func OutputPath(split, name, suffix, ext string) (imagePath, labelPath string) {
	base := name
	if suffix != "" {
		base = name + "-" + suffix
	}
	imagePath = fmt.Sprintf("images/%s/%s.%s", split, base, ext)
	labelPath = fmt.Sprintf("labels/%s/%s.txt", split, base)
	return imagePath, labelPath
}
