package release_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/clearscan/augforge/pkg/datastore"
	"github.com/clearscan/augforge/pkg/pixelengine"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
	"github.com/clearscan/augforge/pkg/release"
	"github.com/clearscan/augforge/pkg/seed"
	"github.com/clearscan/augforge/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memImageSource serves pre-encoded PNG bytes for any file path, so
// tests never touch the real filesystem for source pixels.
type memImageSource struct {
	data []byte
}

func (s memImageSource) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newOrchestrator(t *testing.T, store datastore.Store, src []byte) (*release.Orchestrator, string) {
	t.Helper()
	root := t.TempDir()
	o := &release.Orchestrator{
		Store:       store,
		Source:      memImageSource{data: src},
		PlanGen:     plan.NewGenerator(registry.Default()),
		Engine:      pixelengine.New(registry.Default()),
		Sink:        sink.NewFSSink(root),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency: 2,
	}
	return o, root
}

func baseStore() *datastore.MemStore {
	store := datastore.NewMemStore()
	store.AddImage(datastore.Image{ID: "cat", FilePath: "cat.png", Width: 640, Height: 480, Split: datastore.SplitTrain, DatasetID: "ds-1"})
	store.SetAnnotations("cat", datastore.Annotations{
		Boxes: []datastore.BoundingBoxInput{{XMin: 100, YMin: 80, XMax: 300, YMax: 240, ClassName: "cat", Confidence: 1}},
	})
	return store
}

func TestRun_S1_StretchToProducesExpectedDetectionLine(t *testing.T) {
	store := baseStore()
	o, root := newOrchestrator(t, store, solidPNG(t, 640, 480))

	req := release.Request{
		DatasetID:         "ds-1",
		ReleaseName:       "demo",
		TaskType:          release.TaskObjectDetection,
		ExportFormat:      release.ExportYOLODetection,
		ImagesPerOriginal: 0,
		OutputFormat:      "png",
		Selections: []plan.Selection{
			{TypeTag: "resize", Parameters: map[string]any{"width": 320.0, "height": 320.0, "resize_mode": "stretch_to"}},
		},
	}

	manifest, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, manifest.Entries(), 1)

	entry := manifest.Entries()[0]
	assert.Equal(t, 320, entry.Width)
	assert.Equal(t, 320, entry.Height)
	require.Len(t, entry.Boxes, 1)
	assert.Equal(t, 1.0, entry.Boxes[0].Confidence)

	labelBytes, err := os.ReadFile(filepath.Join(root, entry.LabelPath))
	require.NoError(t, err)
	assert.Equal(t, "0 0.312500 0.333333 0.312500 0.333333\n", string(labelBytes))

	_, err = os.Stat(filepath.Join(root, entry.OutputPath))
	require.NoError(t, err)
}

func TestRun_WritesDataYAMLAndMetadata(t *testing.T) {
	store := baseStore()
	o, root := newOrchestrator(t, store, solidPNG(t, 640, 480))

	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     release.TaskObjectDetection,
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "png",
	}
	_, err := o.Run(context.Background(), req)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "data.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "- cat")

	var stats map[string]any
	statsBytes, err := os.ReadFile(filepath.Join(root, "metadata", "dataset_stats.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(statsBytes, &stats))

	_, err = os.Stat(filepath.Join(root, "metadata", "release_config.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "metadata", "annotations.json"))
	require.NoError(t, err)
}

func TestRun_VariantsPerOriginalExpandsManifestCount(t *testing.T) {
	store := baseStore()
	o, _ := newOrchestrator(t, store, solidPNG(t, 640, 480))

	req := release.Request{
		DatasetID:         "ds-1",
		ReleaseName:       "demo",
		TaskType:          release.TaskObjectDetection,
		ExportFormat:      release.ExportYOLODetection,
		ImagesPerOriginal: 2,
		OutputFormat:      "png",
		Selections: []plan.Selection{
			{TypeTag: "rotate", Parameters: map[string]any{"angle": 30.0}},
		},
	}
	manifest, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, manifest.Entries(), 3)
}

func TestRequest_Validate_RejectsUnknownTaskType(t *testing.T) {
	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     "bogus",
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "png",
	}
	assert.Error(t, req.Validate())
}

func TestRequest_Validate_RejectsUnsupportedOutputFormat(t *testing.T) {
	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     release.TaskObjectDetection,
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "webp",
	}
	assert.Error(t, req.Validate())
}

func TestVariantSuffix_CombinesTokensInDeclaredOrder(t *testing.T) {
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "brightness", Parameters: map[string]any{"percentage": 30.0}},
		{TypeTag: "flip", Parameters: map[string]any{"horizontal": true}},
		{TypeTag: "resize", Parameters: map[string]any{"width": 320.0, "height": 320.0, "resize_mode": "stretch_to"}},
	}}
	assert.Equal(t, "brightness+30_flip_horizontal", release.VariantSuffix(cfg))
}

func TestVariantSuffix_RotateHasNoExplicitPlus(t *testing.T) {
	cfg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "rotate", Parameters: map[string]any{"angle": 30.0}},
	}}
	assert.Equal(t, "rotate30", release.VariantSuffix(cfg))

	cfgNeg := plan.TransformationConfig{Ops: []plan.Transformation{
		{TypeTag: "rotate", Parameters: map[string]any{"angle": -30.0}},
	}}
	assert.Equal(t, "rotate-30", release.VariantSuffix(cfgNeg))
}

func TestRequest_Validate_RejectsUnknownTransformation(t *testing.T) {
	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     release.TaskObjectDetection,
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "png",
		Selections: []plan.Selection{
			{TypeTag: "swirl", Parameters: map[string]any{"strength": 1.0}},
		},
	}
	assert.Error(t, req.Validate())
}

func TestRequest_Validate_RejectsOutOfBoundsParameter(t *testing.T) {
	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     release.TaskObjectDetection,
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "png",
		Selections: []plan.Selection{
			{TypeTag: "rotate", Parameters: map[string]any{"angle": 90.0}},
		},
	}
	assert.Error(t, req.Validate())
}

func TestRequest_Validate_RejectsUnknownResizeMode(t *testing.T) {
	req := release.Request{
		DatasetID:    "ds-1",
		ReleaseName:  "demo",
		TaskType:     release.TaskObjectDetection,
		ExportFormat: release.ExportYOLODetection,
		OutputFormat: "png",
		Selections: []plan.Selection{
			{TypeTag: "resize", Parameters: map[string]any{"width": 320.0, "height": 320.0, "resize_mode": "squish"}},
		},
	}
	assert.Error(t, req.Validate())
}

func TestRun_ManifestRecordsVariantSeed(t *testing.T) {
	store := baseStore()
	o, _ := newOrchestrator(t, store, solidPNG(t, 640, 480))

	req := release.Request{
		DatasetID:         "ds-1",
		ReleaseName:       "demo",
		TaskType:          release.TaskObjectDetection,
		ExportFormat:      release.ExportYOLODetection,
		ImagesPerOriginal: 1,
		OutputFormat:      "png",
		Selections: []plan.Selection{
			{TypeTag: "perspective_warp", Parameters: map[string]any{"distortion_strength": 0.1}},
		},
	}
	manifest, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	entries := manifest.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, seed.ForVariant(e.ImageID, e.VariantIndex, "variant"), e.Seed)
	}
}
