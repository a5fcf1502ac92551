// Package pixelengine implements the Pixel Engine (C3): rendering an
// ordered TransformationConfig against a decoded image and recording
// the actual geometry used for the Annotation Transformer to consume.
// A small struct with a single entry-point method, built via a plain
// constructor rather than an interface (there is exactly one engine
// implementation, so an interface would buy nothing — dispatch over
// tool kinds happens at the per-tool switch inside Apply instead,
// not at the Engine type itself).
package pixelengine

import (
	"image"

	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
)

// geomOutcome is the common result shape every geometric tool
// application produces: its contribution to the composed transform,
// the canvas dims after the op, the rendered pixels, and any
// actual_params worth recording on the TrackingRecord.
type geomOutcome struct {
	matrix geom.Matrix3
	dims   geom.CanvasDims
	image  image.Image
	actual map[string]any
}

// Engine renders TransformationConfigs against decoded pixel buffers.
// The zero value is unusable; use New.
type Engine struct {
	Registry *registry.Registry
}

// New returns an Engine backed by r.
func New(r *registry.Registry) *Engine {
	return &Engine{Registry: r}
}

// Apply renders cfg against img. imageID and variantIndex seed any
// stochastic tool (crop.mode=random, random_zoom, noise, cutout,
// perspective_warp) deterministically. It returns the
// rendered canvas, its final dims, and the TrackingRecord the
// Annotation Transformer consumes for the same variant.
func (e *Engine) Apply(img image.Image, cfg plan.TransformationConfig, imageID string, variantIndex int) (image.Image, geom.CanvasDims, *TrackingRecord, error) {
	b := img.Bounds()
	original := geom.CanvasDims{Width: b.Dx(), Height: b.Dy()}
	track := newTrackingRecord(original)

	current := img
	currentDims := original
	matrix := geom.Identity()

	for _, op := range cfg.Ops {
		if !e.Registry.IsGeometric(op.TypeTag) {
			bridged, err := e.bridgeParams(op.TypeTag, op.Parameters)
			if err != nil {
				return nil, geom.CanvasDims{}, nil, err
			}
			out, err := applyPhotometric(current, bridged, op.TypeTag, imageID, variantIndex)
			if err != nil {
				return nil, geom.CanvasDims{}, nil, err
			}
			current = out
			continue
		}

		bridged, err := e.bridgeParams(op.TypeTag, op.Parameters)
		if err != nil {
			return nil, geom.CanvasDims{}, nil, err
		}

		outcome, err := e.applyGeometric(current, currentDims, op.TypeTag, bridged, imageID, variantIndex)
		if err != nil {
			return nil, geom.CanvasDims{}, nil, err
		}
		if !matrixFinite(outcome.matrix) {
			return nil, geom.CanvasDims{}, nil, errNumerical(op.TypeTag)
		}

		current = outcome.image
		currentDims = outcome.dims
		matrix = outcome.matrix.Mul(matrix)
		track.recordOp(op.TypeTag, bridged)
		track.recordActual(op.TypeTag, outcome.actual)
	}

	track.FinalDims = currentDims
	track.Matrix = matrix
	return current, currentDims, track, nil
}

// applyGeometric dispatches one geometric tool, modeled as a single
// switch over a closed set of tags rather than a runtime
// string-to-function map, eliminating the "enabled in C3 but missing
// in C4" class of bug since annotation.TransformMatrix never has to
// reparse a tool tag — it only ever consumes the composed matrix.
func (e *Engine) applyGeometric(src image.Image, dims geom.CanvasDims, tag string, params map[string]any, imageID string, variantIndex int) (geomOutcome, error) {
	switch tag {
	case "resize":
		return applyResize(src, dims, params)
	case "flip":
		return applyFlip(src, dims, params)
	case "rotate":
		return applyRotate(src, dims, params)
	case "crop":
		return applyCrop(src, dims, params, imageID, variantIndex)
	case "random_zoom":
		return applyRandomZoom(src, dims, params, imageID, variantIndex)
	case "affine_transform":
		return applyAffine(src, dims, params)
	case "perspective_warp":
		return applyPerspectiveWarp(src, dims, params, imageID, variantIndex)
	case "shear":
		return applyShear(src, dims, params)
	}
	return geomOutcome{}, errNumerical(tag)
}

// bridgeParams converts every numeric parameter of op through
// registry.Bridge, the single UI-to-engine conversion point, leaving
// non-numeric (string/bool) parameters untouched.
func (e *Engine) bridgeParams(tag string, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for name, v := range params {
		switch n := v.(type) {
		case float64:
			bridged, err := e.Registry.Bridge(tag, name, n)
			if err != nil {
				return nil, errNumerical(tag)
			}
			out[name] = bridged
		case int:
			bridged, err := e.Registry.Bridge(tag, name, float64(n))
			if err != nil {
				return nil, errNumerical(tag)
			}
			out[name] = bridged
		default:
			out[name] = v
		}
	}
	return out, nil
}

func matrixFinite(m geom.Matrix3) bool {
	for _, v := range m {
		if !geom.Finite(v) {
			return false
		}
	}
	return true
}
