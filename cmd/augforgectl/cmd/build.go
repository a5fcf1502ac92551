package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/clearscan/augforge/pkg/logging"
	"github.com/clearscan/augforge/pkg/pixelengine"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
	"github.com/clearscan/augforge/pkg/release"
	"github.com/clearscan/augforge/pkg/sink"
)

// NewBuildCmd runs the Release Orchestrator end to end against a
// config file's inline dataset, writing the archive to --out.
func NewBuildCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "build a dataset release",
		Long:  "Runs the Plan Generator, Pixel Engine, Annotation Transformer, and YOLO Encoder over every image in a release config's dataset, writing a self-contained YOLO-layout archive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outDir, _ := cmd.Flags().GetString("out")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			if outDir == "" {
				return fmt.Errorf("--out is required")
			}

			fc, err := release.LoadFileConfig(configPath)
			if err != nil {
				return err
			}
			if err := fc.Request.Validate(); err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := logging.AppendCtx(ctx, slog.String("run_id", runID), slog.String("release_name", fc.ReleaseName))
			fmt.Printf("run %s: building %q into %s\n", runID, fc.ReleaseName, outDir)

			reg := registry.Default()
			var bar *progressbar.ProgressBar
			o := &release.Orchestrator{
				Store:       fc.Dataset.Store(fc.DatasetID),
				Source:      release.FSImageSource{},
				PlanGen:     plan.NewGenerator(reg),
				Engine:      pixelengine.New(reg),
				Sink:        sink.NewFSSink(outDir),
				Logger:      slog.Default(),
				Concurrency: concurrency,
				Planned: func(total int) {
					bar = progressbar.Default(int64(total), "rendering variants")
				},
				Progress: func() {
					if bar != nil {
						_ = bar.Add(1)
					}
				},
			}

			manifest, err := o.Run(runCtx, fc.Request)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					// A cancelled build leaves no staging directory.
					_ = os.RemoveAll(outDir)
					return fmt.Errorf("build cancelled: %w", err)
				}
				return fmt.Errorf("build failed: %w", err)
			}

			counts := manifest.ErrorCounts()
			fmt.Printf("run %s: %d variants written, errors: decode=%d geometry=%d annotation=%d encode=%d sink=%d\n",
				runID, len(manifest.Entries()),
				counts.DecodeFailed, counts.GeometryNumerical, counts.AnnotationDropped, counts.EncodeBounds, counts.SinkFailed)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "release config file (YAML)")
	pf.StringP("out", "o", "", "output directory for the release archive")
	pf.Int("concurrency", 0, "worker pool size; 0 means number of CPU cores")
	return cmd
}
