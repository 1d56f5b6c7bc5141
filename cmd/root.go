package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qoienc",
	Short: "Convert images to the QOI format",
	Long: `qoienc converts png, jpeg, gif, bmp, tiff and webp images into
3-channel QOI ("Quite OK Image") files.

Single files are converted with "encode"; whole directories with "build",
which writes content-addressed outputs and a manifest with per-image
chunk statistics.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"qoienc %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[qoienc] "+format+"\n", args...)
	}
}
