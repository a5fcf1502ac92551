package pixelengine

import "github.com/clearscan/augforge/pkg/geom"

// GeometricOp is one geometric tool application as actually rendered:
// its type tag plus the bridged (engine-facing) parameter values used.
type GeometricOp struct {
	TypeTag    string
	Parameters map[string]any
}

// TrackingRecord is produced by Engine.Apply and consumed once by the
// Annotation Transformer for the same variant. Matrix is
// the single composed 3x3 transform covering every geometric op in
// OrderedGeometricOps, in application order — the Go implementation's
// matrix-precise path is always available since every geometric tool
// here (including perspective_warp) is expressible as a 3x3
// homogeneous transform.
type TrackingRecord struct {
	OrderedGeometricOps []GeometricOp
	OriginalDims        geom.CanvasDims
	FinalDims           geom.CanvasDims
	ActualParams        map[string]map[string]any
	Matrix              geom.Matrix3
}

func newTrackingRecord(original geom.CanvasDims) *TrackingRecord {
	return &TrackingRecord{
		OriginalDims: original,
		ActualParams: make(map[string]map[string]any),
		Matrix:       geom.Identity(),
	}
}

func (t *TrackingRecord) recordOp(tag string, params map[string]any) {
	t.OrderedGeometricOps = append(t.OrderedGeometricOps, GeometricOp{TypeTag: tag, Parameters: params})
}

func (t *TrackingRecord) recordActual(tool string, actual map[string]any) {
	if actual == nil {
		return
	}
	t.ActualParams[tool] = actual
}
