// Package release implements the Release Orchestrator: the
// dataset -> split -> image -> variant walk that drives C2 through C5
// and writes the output archive.
package release

import (
	"fmt"
	"math"

	"github.com/clearscan/augforge/pkg/imagecodec"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
)

// TaskType selects the YOLO label dialect.
type TaskType string

const (
	TaskObjectDetection TaskType = "object_detection"
	TaskSegmentation    TaskType = "segmentation"
)

// ExportFormat selects the label encoder C5 invokes.
type ExportFormat string

const (
	ExportYOLODetection    ExportFormat = "yolo_detection"
	ExportYOLOSegmentation ExportFormat = "yolo_segmentation"
)

// Request is a release request bundle: the configuration options
// recognized at the release boundary.
type Request struct {
	DatasetID              string           `yaml:"dataset_id"`
	ReleaseName            string           `yaml:"release_name"`
	TaskType               TaskType         `yaml:"task_type"`
	ExportFormat           ExportFormat     `yaml:"export_format"`
	ImagesPerOriginal      int              `yaml:"images_per_original"`
	OutputFormat           string           `yaml:"output_format"`
	PreserveOriginalSplits bool             `yaml:"preserve_original_splits"`
	Selections             []plan.Selection `yaml:"selections"`
}

// Validate enforces the config_invalid error kind: a
// release fails entirely, before any work begins, if its request is
// malformed. This is the whole-release fatality the orchestrator
// never recovers from per-variant.
func (r Request) Validate() error {
	if r.ReleaseName == "" {
		return configInvalid("release_name is required")
	}
	if r.DatasetID == "" {
		return configInvalid("dataset_id is required")
	}
	switch r.TaskType {
	case TaskObjectDetection, TaskSegmentation:
	default:
		return configInvalid(fmt.Sprintf("task_type %q is not recognized", r.TaskType))
	}
	switch r.ExportFormat {
	case ExportYOLODetection, ExportYOLOSegmentation:
	default:
		return configInvalid(fmt.Sprintf("export_format %q is not recognized", r.ExportFormat))
	}
	if r.ImagesPerOriginal < 0 {
		return configInvalid("images_per_original must be >= 0")
	}
	if r.OutputFormat != "original" && !imagecodec.Supported(r.OutputFormat) {
		return configInvalid(fmt.Sprintf("output_format %q is not supported", r.OutputFormat))
	}
	return validateSelections(registry.Default(), r.Selections)
}

// validateSelections checks every declared transformation against the
// registry's parameter schema: unknown tools, unknown parameter names,
// out-of-bounds numeric values, and unknown enum choices all fail the
// whole release before any work begins.
func validateSelections(reg *registry.Registry, selections []plan.Selection) error {
	for _, sel := range selections {
		tool, ok := reg.Tool(sel.TypeTag)
		if !ok {
			return configInvalid(fmt.Sprintf("unknown transformation %q", sel.TypeTag))
		}
		for name, raw := range sel.Parameters {
			spec, ok := tool.Params[name]
			if !ok {
				return configInvalid(fmt.Sprintf("%s: unknown parameter %q", sel.TypeTag, name))
			}
			switch spec.Kind {
			case registry.KindFloat, registry.KindInt:
				v, ok := numericValue(raw)
				if !ok {
					return configInvalid(fmt.Sprintf("%s.%s: expected a number, got %T", sel.TypeTag, name, raw))
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return configInvalid(fmt.Sprintf("%s.%s: non-finite value", sel.TypeTag, name))
				}
				if v < spec.Min || v > spec.Max {
					return configInvalid(fmt.Sprintf("%s.%s: %v outside [%v, %v]", sel.TypeTag, name, v, spec.Min, spec.Max))
				}
			case registry.KindBool:
				if _, ok := raw.(bool); !ok {
					return configInvalid(fmt.Sprintf("%s.%s: expected a bool, got %T", sel.TypeTag, name, raw))
				}
			case registry.KindEnum:
				s, ok := raw.(string)
				if !ok {
					return configInvalid(fmt.Sprintf("%s.%s: expected a string, got %T", sel.TypeTag, name, raw))
				}
				if !containsChoice(spec.Choices, s) {
					return configInvalid(fmt.Sprintf("%s.%s: %q is not one of %v", sel.TypeTag, name, s, spec.Choices))
				}
			}
		}
	}
	return nil
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func containsChoice(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

// ErrKind classifies a release-level failure.
type ErrKind string

const (
	ErrConfigInvalid     ErrKind = "config_invalid"
	ErrDecodeFailed      ErrKind = "decode_failed"
	ErrGeometryNumerical ErrKind = "geometry_numerical"
	ErrAnnotationDropped ErrKind = "annotation_dropped"
	ErrEncodeBounds      ErrKind = "encode_bounds"
	ErrSinkFailed        ErrKind = "sink_failed"
)

// Error tags a failure with its error kind.
type Error struct {
	Kind ErrKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func configInvalid(msg string) error {
	return &Error{Kind: ErrConfigInvalid, Err: fmt.Errorf("%s", msg)}
}
