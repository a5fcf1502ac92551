package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/clearscan/augforge/pkg/logging"
	"github.com/spf13/cobra"
)

// NewRoot assembles the augforgectl command tree: a persistent
// --log-level flag configured in PersistentPreRun, and a bare
// invocation that prints the command tree instead of usage.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "augforgectl",
		Short: "build YOLO-layout dataset releases from augmented image variants",
		Long:  "augforgectl runs the dataset release pipeline: plan generation, pixel augmentation, annotation transport, and YOLO label encoding.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFile, _ := cmd.Flags().GetString("log-file")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}

			w := os.Stdout
			if logFile != "" {
				slog.SetDefault(logging.Logger(logging.RotatingFile(logFile, 50, 3), true, level))
			} else {
				slog.SetDefault(logging.Logger(w, false, level))
			}

			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				slog.WarnContext(ctx, "invalid log level, defaulting to INFO", "level", logLevel, "error", err)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewValidateCmd(ctx),
		NewBuildCmd(ctx),
		NewPreviewCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Rotating log file path (JSON lines); defaults to stdout text logging")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

// NewVersionCmd prints the build SHA.
func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
}
