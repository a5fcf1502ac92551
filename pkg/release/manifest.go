package release

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/clearscan/augforge/pkg/util"
)

// BoxRecord is one transported bounding box as recorded in
// metadata/annotations.json (pixel coordinates of the final canvas).
type BoxRecord struct {
	ClassName  string  `json:"class_name"`
	XMin       float64 `json:"x_min"`
	YMin       float64 `json:"y_min"`
	XMax       float64 `json:"x_max"`
	YMax       float64 `json:"y_max"`
	Confidence float64 `json:"confidence"`
}

// PolygonRecord is one transported segmentation ring, always in the
// `[{x,y},...]` canonical shape regardless of the input shape it
// arrived in.
type PolygonRecord struct {
	ClassName  string           `json:"class_name"`
	Points     []annotationJSON `json:"points"`
	Confidence float64          `json:"confidence"`
}

// ManifestEntry is one emitted (image, variant) pair as recorded in
// metadata/annotations.json.
type ManifestEntry struct {
	ImageID      string          `json:"image_id"`
	Split        string          `json:"split"`
	OutputPath   string          `json:"output_path"`
	LabelPath    string          `json:"label_path"`
	VariantIndex int             `json:"variant_index"`
	Seed         uint64          `json:"seed"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Boxes        []BoxRecord     `json:"boxes"`
	Polygons     []PolygonRecord `json:"polygons"`
}

// ErrorCounts tallies error kinds across a run, for
// metadata/dataset_stats.json.
type ErrorCounts struct {
	DecodeFailed      int64 `json:"decode_failed"`
	GeometryNumerical int64 `json:"geometry_numerical"`
	AnnotationDropped int64 `json:"annotation_dropped"`
	EncodeBounds      int64 `json:"encode_bounds"`
	SinkFailed        int64 `json:"sink_failed"`
}

// Manifest accumulates the in-memory build record the orchestrator
// writes at end of run. Every method is safe for concurrent use by
// the worker pool.
type Manifest struct {
	mu         sync.Mutex
	entries    []ManifestEntry
	splitCount map[string]*int64
	errors     ErrorCounts
}

// NewManifest returns an empty Manifest ready to accumulate across a
// bounded worker pool.
func NewManifest() *Manifest {
	return &Manifest{splitCount: make(map[string]*int64)}
}

// Append records one rendered variant. Safe for concurrent callers.
func (m *Manifest) Append(e ManifestEntry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	counter, ok := m.splitCount[e.Split]
	if !ok {
		var c int64
		counter = &c
		m.splitCount[e.Split] = counter
	}
	m.mu.Unlock()
	atomic.AddInt64(counter, 1)
}

// CountError increments the §7 error kind tally. Safe for concurrent
// callers.
func (m *Manifest) CountError(kind ErrKind) {
	switch kind {
	case ErrDecodeFailed:
		atomic.AddInt64(&m.errors.DecodeFailed, 1)
	case ErrGeometryNumerical:
		atomic.AddInt64(&m.errors.GeometryNumerical, 1)
	case ErrAnnotationDropped:
		atomic.AddInt64(&m.errors.AnnotationDropped, 1)
	case ErrEncodeBounds:
		atomic.AddInt64(&m.errors.EncodeBounds, 1)
	case ErrSinkFailed:
		atomic.AddInt64(&m.errors.SinkFailed, 1)
	}
}

// Entries returns a copy of the accumulated manifest entries.
func (m *Manifest) Entries() []ManifestEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ManifestEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// SplitCounts returns the final per-split image count.
func (m *Manifest) SplitCounts() map[string]int64 {
	out := make(map[string]int64, len(m.splitCount))
	m.mu.Lock()
	defer m.mu.Unlock()
	for split, c := range m.splitCount {
		out[split] = atomic.LoadInt64(c)
	}
	return out
}

// ErrorCounts returns a snapshot of the accumulated error tallies.
func (m *Manifest) ErrorCounts() ErrorCounts {
	return ErrorCounts{
		DecodeFailed:      atomic.LoadInt64(&m.errors.DecodeFailed),
		GeometryNumerical: atomic.LoadInt64(&m.errors.GeometryNumerical),
		AnnotationDropped: atomic.LoadInt64(&m.errors.AnnotationDropped),
		EncodeBounds:      atomic.LoadInt64(&m.errors.EncodeBounds),
		SinkFailed:        atomic.LoadInt64(&m.errors.SinkFailed),
	}
}

// ReleaseConfig is the metadata/release_config.json payload: the
// request the release was built from, plus a stable fingerprint of
// the full request (selections included) so two archives can be
// compared for config identity without diffing them.
type ReleaseConfig struct {
	ReleaseName       string `json:"release_name"`
	DatasetID         string `json:"dataset_id"`
	TaskType          string `json:"task_type"`
	ExportFormat      string `json:"export_format"`
	ImagesPerOriginal int    `json:"images_per_original"`
	OutputFormat      string `json:"output_format"`
	ConfigHash        string `json:"config_hash"`
}

// MarshalReleaseConfig renders req as metadata/release_config.json.
func MarshalReleaseConfig(req Request) ([]byte, error) {
	cfg := ReleaseConfig{
		ReleaseName:       req.ReleaseName,
		DatasetID:         req.DatasetID,
		TaskType:          string(req.TaskType),
		ExportFormat:      string(req.ExportFormat),
		ImagesPerOriginal: req.ImagesPerOriginal,
		OutputFormat:      req.OutputFormat,
		ConfigHash:        util.HashUUID(req),
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// MarshalAnnotations renders the manifest's entries as
// metadata/annotations.json.
func MarshalAnnotations(entries []ManifestEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// datasetStats is the metadata/dataset_stats.json payload: per-split
// output counts plus the §7 error tallies.
type datasetStats struct {
	Splits map[string]int64 `json:"splits"`
	Errors ErrorCounts      `json:"errors"`
}

// MarshalDatasetStats renders the manifest's counters as
// metadata/dataset_stats.json.
func MarshalDatasetStats(m *Manifest) ([]byte, error) {
	stats := datasetStats{Splits: m.SplitCounts(), Errors: m.ErrorCounts()}
	return json.MarshalIndent(stats, "", "  ")
}

// annotationJSON is the canonical on-disk segmentation point shape.
type annotationJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
