package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clearscan/augforge/pkg/imagecodec"
	"github.com/clearscan/augforge/pkg/pixelengine"
	"github.com/clearscan/augforge/pkg/plan"
	"github.com/clearscan/augforge/pkg/registry"
	"github.com/clearscan/augforge/pkg/release"
)

// NewPreviewCmd renders a single variant of a single image to disk and
// prints its TrackingRecord as JSON: parse a flag-selected image and
// variant index, render it, and optionally dump the result to disk.
func NewPreviewCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "render one variant of one image and print its transform record",
		Long:  "Renders a single (image, variant) pair from a release config's selected transformations, prints the resulting TrackingRecord as JSON, and optionally writes the rendered pixels to disk.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			imagePath, _ := cmd.Flags().GetString("image")
			variantIx, _ := cmd.Flags().GetInt("variant")
			outPath, _ := cmd.Flags().GetString("out")
			if configPath == "" || imagePath == "" {
				return fmt.Errorf("--config and --image are required")
			}

			fc, err := release.LoadFileConfig(configPath)
			if err != nil {
				return err
			}

			f, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", imagePath, err)
			}
			defer f.Close()
			src, _, err := imagecodec.Decode(f)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", imagePath, err)
			}

			imageID := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
			reg := registry.Default()
			imgPlan := plan.NewGenerator(reg).Generate(imageID, fc.Selections, fc.ImagesPerOriginal)
			if variantIx < 0 || variantIx >= len(imgPlan.Variants) {
				return fmt.Errorf("variant %d out of range; plan has %d variants", variantIx, len(imgPlan.Variants))
			}

			rendered, _, track, err := pixelengine.New(reg).Apply(src, imgPlan.Variants[variantIx], imageID, variantIx)
			if err != nil {
				return fmt.Errorf("rendering variant %d: %w", variantIx, err)
			}

			out, err := json.MarshalIndent(track, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling tracking record: %w", err)
			}
			fmt.Println(string(out))

			if outPath != "" {
				wf, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer wf.Close()
				if err := png.Encode(wf, rendered); err != nil {
					return fmt.Errorf("encoding %s: %w", outPath, err)
				}
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "release config file (YAML)")
	pf.StringP("image", "i", "", "source image file to render")
	pf.Int("variant", 0, "variant index within the generated plan")
	pf.String("out", "", "optional path to write the rendered PNG")
	return cmd
}
