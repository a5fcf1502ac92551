// Package release's Orchestrator walks datasets -> splits -> images,
// asks the Plan Generator for each image's plan, and runs one bounded
// worker pool over every (image, variant) pair -- the natural unit of
// work for this build.
//
// The pool shape (bounded fan-out over a slice of jobs, ctx
// cancellation) is grounded on open-platform-model-cli's one goroutine
// per job, adapted from an unbounded per-job goroutine into
// golang.org/x/sync/errgroup's SetLimit so the degree of parallelism
// is configurable (default is the number of CPU cores). Workers report
// through the shared Manifest; there is no result channel.
package release

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/clearscan/augforge/pkg/annotation"
	"github.com/clearscan/augforge/pkg/datastore"
	"github.com/clearscan/augforge/pkg/geom"
	"github.com/clearscan/augforge/pkg/imagecodec"
	"github.com/clearscan/augforge/pkg/pixelengine"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/seed"
	"github.com/clearscan/augforge/pkg/sink"
	"github.com/clearscan/augforge/pkg/yoloencode"
)

// Orchestrator wires together every component a release needs: the
// read-only data store, the plan generator and pixel engine (C2/C3),
// the output sink, and the source image reader.
type Orchestrator struct {
	Store       datastore.Store
	Source      ImageSource
	PlanGen     *plan.Generator
	Engine      *pixelengine.Engine
	Sink        sink.Sink
	Logger      *slog.Logger
	Concurrency int // <= 0 means runtime.NumCPU()

	// Planned, if set, is called once with the total job count after
	// the pre-pass completes and the class registry is frozen, before
	// the worker pool launches.
	Planned func(total int)
	// Progress, if set, is called once per completed variant job
	// (success or recovered failure alike) -- the orchestrator's only
	// concession to a caller wanting a console progress bar during a
	// long build.
	Progress func()
}

// variantJob is one independent unit of work: render, transport,
// encode, and write a single variant of a single image.
type variantJob struct {
	image     datastore.Image
	ann       datastore.Annotations
	cfg       plan.TransformationConfig
	variantIx int
}

// Run executes req to completion. It calls req.Validate() first and
// returns its config_invalid error before any image is listed, so the
// whole release fails before work begins. Otherwise Run returns the
// completed Manifest even when some variants failed, since the
// failure policy is "recover per variant, surface per release."
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Manifest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	images, err := o.Store.Images(ctx, req.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("release: listing images: %w", err)
	}

	classes := yoloencode.NewClassRegistry()
	jobs := make([]variantJob, 0, len(images))
	for _, img := range images {
		ann, err := o.Store.Annotations(ctx, img.ID)
		if err != nil {
			o.Logger.WarnContext(ctx, "annotations lookup failed, skipping image", "image_id", img.ID, "error", err)
			continue
		}
		for _, b := range ann.Boxes {
			classes.Observe(b.ClassName)
		}
		for _, p := range ann.Polygons {
			classes.Observe(p.ClassName)
		}

		imgPlan := o.PlanGen.Generate(img.ID, req.Selections, req.ImagesPerOriginal)
		for i, cfg := range imgPlan.Variants {
			jobs = append(jobs, variantJob{image: img, ann: ann, cfg: cfg, variantIx: i})
		}
	}

	// Frozen here, before any worker encodes a line: no annotation
	// line may be emitted before the class set is frozen.
	classes.Freeze()
	if o.Planned != nil {
		o.Planned(len(jobs))
	}

	manifest := NewManifest()
	limit := o.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o.runVariant(gctx, req, j, classes, manifest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return manifest, err
	}

	if err := o.writeMetadata(req, classes, manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

// runVariant renders one (image, variant) pair. Every recoverable
// failure kind below config_invalid is handled here: the variant is
// dropped, logged, counted, and the pool moves on.
func (o *Orchestrator) runVariant(ctx context.Context, req Request, j variantJob, classes *yoloencode.ClassRegistry, manifest *Manifest) {
	if o.Progress != nil {
		defer o.Progress()
	}
	logger := o.Logger.With("image_id", j.image.ID, "variant", j.variantIx)

	rc, err := o.Source.Open(ctx, j.image.FilePath)
	if err != nil {
		logger.WarnContext(ctx, "decode_failed: source open", "error", err)
		manifest.CountError(ErrDecodeFailed)
		return
	}
	src, srcFormat, err := imagecodec.Decode(rc)
	rc.Close()
	if err != nil {
		logger.WarnContext(ctx, "decode_failed: image decode", "error", err)
		manifest.CountError(ErrDecodeFailed)
		return
	}

	rendered, final, track, err := o.Engine.Apply(src, j.cfg, j.image.ID, j.variantIx)
	if err != nil {
		logger.WarnContext(ctx, "geometry_numerical: variant dropped", "error", err)
		manifest.CountError(ErrGeometryNumerical)
		return
	}

	boxes, polygons := convertAnnotations(j.ann)
	result := annotation.TransformMatrix(logger, boxes, polygons, track.Matrix, final)

	suffix := VariantSuffix(j.cfg)
	ext, codec := o.outputCodec(req, srcFormat)
	imagePath, labelPath := OutputPath(string(j.image.Split), j.image.ID, suffix, ext)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, rendered); err != nil {
		logger.WarnContext(ctx, "sink_failed: pixel encode", "error", err)
		manifest.CountError(ErrSinkFailed)
		return
	}
	if err := o.Sink.WriteBytes(imagePath, buf.Bytes()); err != nil {
		logger.WarnContext(ctx, "sink_failed: pixel write", "error", err)
		manifest.CountError(ErrSinkFailed)
		return
	}

	lines, boxRecords, polyRecords := o.encodeLabels(logger, req, result, final, classes, manifest)
	if err := o.Sink.WriteText(labelPath, lines); err != nil {
		logger.WarnContext(ctx, "sink_failed: label write", "error", err)
		_ = o.Sink.RemoveFile(imagePath)
		manifest.CountError(ErrSinkFailed)
		return
	}

	manifest.Append(ManifestEntry{
		ImageID:      j.image.ID,
		Split:        string(j.image.Split),
		OutputPath:   imagePath,
		LabelPath:    labelPath,
		VariantIndex: j.variantIx,
		// The audit key for this variant: per-tool seeds are derived
		// from (image_id, variant_index, tool label), and this entry
		// records image_id and variant_index, so each draw can be
		// replayed; Seed is the "variant"-labelled value of that same
		// derivation, not the input to the per-tool seeds.
		Seed:     seed.ForVariant(j.image.ID, j.variantIx, "variant"),
		Width:    final.Width,
		Height:   final.Height,
		Boxes:    boxRecords,
		Polygons: polyRecords,
	})
}

// encodeLabels runs C5 over the transported annotations, folding both
// the YOLO text lines and the JSON-manifest records in one pass.
func (o *Orchestrator) encodeLabels(logger *slog.Logger, req Request, result annotation.TransformResult, final geom.CanvasDims, classes *yoloencode.ClassRegistry, manifest *Manifest) (string, []BoxRecord, []PolygonRecord) {
	var lines []string
	var boxRecords []BoxRecord
	var polyRecords []PolygonRecord

	if req.ExportFormat == ExportYOLODetection {
		for _, b := range result.Boxes {
			b.ClassID = classes.Resolve(logger, b.ClassName, nil)
			line, ok := yoloencode.DetectionLine(logger, b, final)
			if !ok {
				manifest.CountError(ErrEncodeBounds)
				continue
			}
			lines = append(lines, line)
			boxRecords = append(boxRecords, BoxRecord{ClassName: b.ClassName, XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax, Confidence: b.Confidence})
		}
	} else {
		for _, p := range result.Polygons {
			p.ClassID = classes.Resolve(logger, p.ClassName, nil)
			line, ok := yoloencode.SegmentationLine(logger, p, final)
			if !ok {
				manifest.CountError(ErrAnnotationDropped)
				continue
			}
			lines = append(lines, line)
			pts := make([]annotationJSON, len(p.Points))
			for i, pt := range p.Points {
				pts[i] = annotationJSON{X: pt.X, Y: pt.Y}
			}
			polyRecords = append(polyRecords, PolygonRecord{ClassName: p.ClassName, Points: pts, Confidence: p.Confidence})
		}
	}

	text := ""
	for i, l := range lines {
		if i > 0 {
			text += "\n"
		}
		text += l
	}
	if len(lines) > 0 {
		text += "\n"
	}
	return text, boxRecords, polyRecords
}

// outputCodec resolves req.OutputFormat to a Codec and its file
// extension. "original" preserves the source's own container format.
func (o *Orchestrator) outputCodec(req Request, srcFormat string) (string, imagecodec.Codec) {
	format := req.OutputFormat
	if format == "original" {
		format = srcFormat
		if format == "jpeg" {
			format = "jpg"
		}
	}
	codec := imagecodec.ByName(format)
	if codec == nil {
		codec = imagecodec.ByName("png")
		format = "png"
	}
	return codec.Ext(), codec
}

func convertAnnotations(ann datastore.Annotations) ([]annotation.BoundingBox, []annotation.Polygon) {
	boxes := make([]annotation.BoundingBox, len(ann.Boxes))
	for i, b := range ann.Boxes {
		boxes[i] = annotation.BoundingBox{
			XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax,
			ClassName: b.ClassName, ClassID: b.ClassID, Confidence: b.Confidence,
		}
	}
	polygons := make([]annotation.Polygon, len(ann.Polygons))
	for i, p := range ann.Polygons {
		pts := make([]geom.Point, len(p.Points))
		for j, pt := range p.Points {
			pts[j] = geom.Point{X: pt.X, Y: pt.Y}
		}
		polygons[i] = annotation.Polygon{
			Points: pts, ClassName: p.ClassName, ClassID: p.ClassID, Confidence: p.Confidence,
		}
	}
	return boxes, polygons
}

// writeMetadata emits the four archive-level files: data.yaml plus
// the three metadata/*.json files.
func (o *Orchestrator) writeMetadata(req Request, classes *yoloencode.ClassRegistry, manifest *Manifest) error {
	cfg := yoloencode.NewDataConfig(classes)
	splits := manifest.SplitCounts()
	train, val, test := "", "", ""
	if splits[string(datastore.SplitTrain)] > 0 {
		train = "images/train"
	}
	if splits[string(datastore.SplitVal)] > 0 {
		val = "images/val"
	}
	if splits[string(datastore.SplitTest)] > 0 {
		test = "images/test"
	}
	dataYAML, err := yoloencode.MarshalDataYAML(cfg, train, val, test)
	if err != nil {
		return fmt.Errorf("release: marshaling data.yaml: %w", err)
	}
	if err := o.Sink.WriteBytes("data.yaml", dataYAML); err != nil {
		return &Error{Kind: ErrSinkFailed, Err: err}
	}

	releaseCfg, err := MarshalReleaseConfig(req)
	if err != nil {
		return fmt.Errorf("release: marshaling release_config.json: %w", err)
	}
	if err := o.Sink.WriteBytes("metadata/release_config.json", releaseCfg); err != nil {
		return &Error{Kind: ErrSinkFailed, Err: err}
	}

	entries := manifest.Entries()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ImageID != entries[j].ImageID {
			return entries[i].ImageID < entries[j].ImageID
		}
		return entries[i].OutputPath < entries[j].OutputPath
	})
	annotationsJSON, err := MarshalAnnotations(entries)
	if err != nil {
		return fmt.Errorf("release: marshaling annotations.json: %w", err)
	}
	if err := o.Sink.WriteBytes("metadata/annotations.json", annotationsJSON); err != nil {
		return &Error{Kind: ErrSinkFailed, Err: err}
	}

	stats, err := MarshalDatasetStats(manifest)
	if err != nil {
		return fmt.Errorf("release: marshaling dataset_stats.json: %w", err)
	}
	if err := o.Sink.WriteBytes("metadata/dataset_stats.json", stats); err != nil {
		return &Error{Kind: ErrSinkFailed, Err: err}
	}
	return nil
}
