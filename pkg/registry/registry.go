// Package registry is the single source of truth for every transformation
// tool's parameter schema, category, and default/min/max/step. It is
// also the only place UI-facing parameter scales (e.g. brightness as a
// ±50% slider) are converted to engine-facing values (a multiplicative
// factor); every other package calls Bridge rather than repeating the
// conversion. One exception: Bridge returns color_jitter's hue_shift
// in degrees, and the Pixel Engine converts it to radians itself.
//
// An interface-free map of tool tag to a descriptive struct, looked up
// by name.
package registry

import (
	"fmt"
	"math"
)

// Category distinguishes tools that move pixels (and therefore require
// annotation transport) from tools that only recolor them.
type Category string

const (
	Geometric   Category = "geometric"
	Photometric Category = "photometric"
)

// ParamKind is the primitive shape of a parameter value.
type ParamKind string

const (
	KindFloat ParamKind = "float"
	KindInt   ParamKind = "int"
	KindBool  ParamKind = "bool"
	KindEnum  ParamKind = "enum"
)

// ParamSpec describes one tool parameter's bounds and default.
type ParamSpec struct {
	Kind    ParamKind
	Min     float64
	Max     float64
	Default float64
	Step    float64
	Unit    string
	Choices []string // populated when Kind == KindEnum
}

// ToolSpec describes one transformation tool.
type ToolSpec struct {
	Category Category
	Params   map[string]ParamSpec
}

// Registry is the describable, queryable set of all tool specs. The
// zero value is unusable; use Default().
type Registry struct {
	tools map[string]ToolSpec
}

// Default returns the registry populated with every tool tag this
// build recognizes: 8 geometric, 12 photometric.
func Default() *Registry {
	return &Registry{tools: builtinTools()}
}

// Describe returns the full tool → schema map. Callers must not mutate
// the returned map or its ParamSpec values.
func (r *Registry) Describe() map[string]ToolSpec {
	return r.tools
}

// Tool returns the spec for a single tool tag.
func (r *Registry) Tool(tag string) (ToolSpec, bool) {
	t, ok := r.tools[tag]
	return t, ok
}

// IsGeometric reports whether tag is one of the 8 geometric tools whose
// output requires annotation transport.
func (r *Registry) IsGeometric(tag string) bool {
	t, ok := r.tools[tag]
	return ok && t.Category == Geometric
}

// Clamp clamps a raw user value into [min,max] for the named tool
// parameter, mirroring transform_resolver.py's _clamp helper — the
// single place bounds enforcement happens for untrusted input.
func (r *Registry) Clamp(toolTag, paramName string, value float64) (float64, error) {
	spec, err := r.paramSpec(toolTag, paramName)
	if err != nil {
		return 0, err
	}
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		if value < spec.Min {
			return spec.Min, nil
		}
		if value > spec.Max {
			return spec.Max, nil
		}
		return value, nil
	}
	return 0, fmt.Errorf("registry: non-finite value for %s.%s", toolTag, paramName)
}

func (r *Registry) paramSpec(toolTag, paramName string) (ParamSpec, error) {
	tool, ok := r.tools[toolTag]
	if !ok {
		return ParamSpec{}, fmt.Errorf("registry: unknown tool %q", toolTag)
	}
	spec, ok := tool.Params[paramName]
	if !ok {
		return ParamSpec{}, fmt.Errorf("registry: unknown parameter %q for tool %q", paramName, toolTag)
	}
	return spec, nil
}

// Bridge converts a UI-facing parameter scale into its engine-facing
// value. This is the *only* place these conversions happen — both the
// Pixel Engine (C3) and the Annotation Transformer (C4) call it so a
// rotate angle, say, is degrees-to-radians in exactly one spot.
func (r *Registry) Bridge(toolTag, paramName string, userValue float64) (float64, error) {
	clamped, err := r.Clamp(toolTag, paramName, userValue)
	if err != nil {
		return 0, err
	}
	switch toolTag {
	case "rotate":
		if paramName == "angle" {
			return clamped * math.Pi / 180.0, nil
		}
	case "shear":
		if paramName == "shear_angle" {
			return clamped * math.Pi / 180.0, nil
		}
	case "affine_transform":
		if paramName == "angle" {
			return clamped * math.Pi / 180.0, nil
		}
		if paramName == "shift_x_pct" || paramName == "shift_y_pct" {
			return clamped / 100.0, nil
		}
	case "crop":
		if paramName == "percent" {
			return clamped / 100.0, nil
		}
	case "brightness":
		if paramName == "percentage" {
			return 1.0 + clamped/100.0, nil
		}
	case "contrast":
		if paramName == "percentage" {
			return 1.0 + clamped/100.0, nil
		}
	case "hue":
		if paramName == "shift" {
			return clamped * math.Pi / 180.0, nil
		}
	}
	return clamped, nil
}

// MirrorAuto returns the dual-value tool's auto-mirror of a user value
// : sign-flip for rotate/brightness/contrast/shear, and a
// domain-appropriate mirror for hue (also sign-flip, since hue shift is
// symmetric about 0). Only called for the five dual-value tool tags;
// callers must not call this for any other tool; dual-value behavior
// is restricted to exactly these five because other parameters,
// e.g. gamma, are not sign-symmetric.
func MirrorAuto(userValue float64) float64 {
	return -userValue
}

// DualValueTools is the fixed set of tools dual-value mirroring
// applies to.
var DualValueTools = map[string]string{
	"rotate":     "angle",
	"brightness": "percentage",
	"contrast":   "percentage",
	"shear":      "shear_angle",
	"hue":        "shift",
}

func builtinTools() map[string]ToolSpec {
	f := func(min, max, def, step float64) ParamSpec {
		return ParamSpec{Kind: KindFloat, Min: min, Max: max, Default: def, Step: step}
	}
	i := func(min, max, def, step float64) ParamSpec {
		return ParamSpec{Kind: KindInt, Min: min, Max: max, Default: def, Step: step}
	}
	b := func(def bool) ParamSpec {
		d := 0.0
		if def {
			d = 1.0
		}
		return ParamSpec{Kind: KindBool, Min: 0, Max: 1, Default: d, Step: 1}
	}
	enum := func(def string, choices ...string) ParamSpec {
		return ParamSpec{Kind: KindEnum, Choices: choices, Default: float64(indexOf(choices, def))}
	}

	return map[string]ToolSpec{
		// --- Geometric ---
		"resize": {Category: Geometric, Params: map[string]ParamSpec{
			"width":       i(1, 8192, 640, 1),
			"height":      i(1, 8192, 640, 1),
			"resize_mode": enum("stretch_to", "stretch_to", "fill_center_crop", "fit_within", "fit_reflect_edges", "fit_black_edges", "fit_white_edges"),
			"fill_color":  enum("black", "black", "white", "reflect"),
		}},
		"rotate": {Category: Geometric, Params: map[string]ParamSpec{
			"angle":      f(-45, 45, 0, 0.5),
			"expand":     b(false),
			"fill_color": enum("white", "black", "white"),
		}},
		"flip": {Category: Geometric, Params: map[string]ParamSpec{
			"horizontal": b(false),
			"vertical":   b(false),
		}},
		"crop": {Category: Geometric, Params: map[string]ParamSpec{
			"percent": f(10, 100, 80, 1),
			"mode":    enum("center", "center", "random", "top_left", "top_right", "bottom_left", "bottom_right"),
		}},
		"random_zoom": {Category: Geometric, Params: map[string]ParamSpec{
			"zoom_factor": f(0.5, 2.0, 1.0, 0.05),
		}},
		"affine_transform": {Category: Geometric, Params: map[string]ParamSpec{
			"scale":       f(0.5, 2.0, 1.0, 0.05),
			"angle":       f(-45, 45, 0, 0.5),
			"shift_x_pct": f(-100, 100, 0, 1),
			"shift_y_pct": f(-100, 100, 0, 1),
		}},
		"perspective_warp": {Category: Geometric, Params: map[string]ParamSpec{
			"distortion_strength": f(0, 0.5, 0.1, 0.01),
		}},
		"shear": {Category: Geometric, Params: map[string]ParamSpec{
			"shear_angle": f(-45, 45, 0, 0.5),
		}},

		// --- Photometric ---
		"brightness": {Category: Photometric, Params: map[string]ParamSpec{
			"percentage": f(-50, 50, 0, 1),
		}},
		"contrast": {Category: Photometric, Params: map[string]ParamSpec{
			"percentage": f(-50, 50, 0, 1),
		}},
		"blur": {Category: Photometric, Params: map[string]ParamSpec{
			"radius": f(0, 10, 2, 0.5),
		}},
		"noise": {Category: Photometric, Params: map[string]ParamSpec{
			"strength": f(0, 1, 0.05, 0.01),
		}},
		"hue": {Category: Photometric, Params: map[string]ParamSpec{
			"shift": f(-50, 50, 0, 1),
		}},
		"saturation": {Category: Photometric, Params: map[string]ParamSpec{
			"variation": f(0.5, 1.5, 1.0, 0.05),
		}},
		"gamma": {Category: Photometric, Params: map[string]ParamSpec{
			"gamma": f(0.1, 3.0, 1.0, 0.05),
		}},
		"clahe": {Category: Photometric, Params: map[string]ParamSpec{
			"clip_limit": f(0.1, 10, 2, 0.1),
			"grid_size":  i(1, 16, 8, 1),
		}},
		"cutout": {Category: Photometric, Params: map[string]ParamSpec{
			"num_holes": i(1, 10, 1, 1),
			"hole_size": f(0.01, 1.0, 0.1, 0.01),
		}},
		"color_jitter": {Category: Photometric, Params: map[string]ParamSpec{
			"hue_shift":            f(-50, 50, 0, 1),
			"brightness_variation": f(0.5, 1.5, 1.0, 0.05),
			"contrast_variation":   f(0.5, 1.5, 1.0, 0.05),
			"saturation_variation": f(0.5, 1.5, 1.0, 0.05),
		}},
		"grayscale": {Category: Photometric, Params: map[string]ParamSpec{}},
		"equalize":  {Category: Photometric, Params: map[string]ParamSpec{}},
	}
}

func indexOf(choices []string, v string) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return 0
}
