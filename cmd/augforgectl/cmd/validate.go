package cmd

import (
	"context"
	"fmt"

	"github.com/clearscan/augforge/pkg/release"
	"github.com/spf13/cobra"
)

// NewValidateCmd runs registry bounds validation only, surfacing a
// config_invalid failure before any work begins.
func NewValidateCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate a release config without building it",
		Long:  "Parses and validates a release config file, reporting config_invalid failures without rendering any variant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			fc, err := release.LoadFileConfig(configPath)
			if err != nil {
				return err
			}
			if err := fc.Request.Validate(); err != nil {
				return err
			}
			fmt.Printf("%s: valid (%d images in inline dataset)\n", configPath, len(fc.Dataset.Images))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "release config file (YAML)")
	return cmd
}
