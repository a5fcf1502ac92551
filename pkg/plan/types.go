// Package plan implements the Plan Generator (C2): turning a user's
// transformation selection and a variant count into a deterministic,
// ordered AugmentationPlan. A small stateless generator that assembles
// an ordered value type rather than mutating shared state.
package plan

// Selection is one user-declared transformation choice, carried in the
// order the user declared it. Parameters are UI-facing values (not yet
// bridged through the registry); the Pixel Engine calls
// registry.Bridge at render time.
type Selection struct {
	TypeTag    string         `yaml:"type_tag"`
	Parameters map[string]any `yaml:"parameters"`
}

// Transformation is one resolved tool application within a single
// variant's TransformationConfig.
type Transformation struct {
	TypeTag    string
	Parameters map[string]any
	OrderIndex int
}

// TransformationConfig is the ordered set of tool applications for one
// variant. Slice order defines application order; resize, when
// present, is always last.
type TransformationConfig struct {
	Ops []Transformation
}

// IsBaseline reports whether cfg contains at most a resize op (spec's
// definition of the plan's variant 0).
func (cfg TransformationConfig) IsBaseline() bool {
	for _, op := range cfg.Ops {
		if op.TypeTag != "resize" {
			return false
		}
	}
	return true
}

// EnabledNonResizeTags returns the type tags of every op other than
// resize, in application order — the input to the orchestrator's
// deterministic filename suffix derivation.
func (cfg TransformationConfig) EnabledNonResizeTags() []string {
	var tags []string
	for _, op := range cfg.Ops {
		if op.TypeTag != "resize" {
			tags = append(tags, op.TypeTag)
		}
	}
	return tags
}

// AugmentationPlan is the full ordered set of variants to render for
// one source image. Variants[0] is always the baseline.
type AugmentationPlan struct {
	ImageID  string
	Variants []TransformationConfig
}
