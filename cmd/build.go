package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/qoienc/internal/manifest"
	"github.com/AnyUserName/qoienc/internal/pipeline"
	"github.com/AnyUserName/qoienc/internal/profile"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildProfile   string
	buildWorkers   int
	buildFormats   []string
	buildLevel     int
	buildMaxWidth  int
	buildMaxHeight int
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Convert a directory of images to QOI and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
converts each one to the formats of the selected profile (qoi, qoi.zst) and
writes a manifest file with sizes, hashes and chunk statistics.

Output filenames are content-addressed: <key>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./qoienc_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "default",
		"processing profile ("+strings.Join(profile.Names(), ", ")+")")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().StringSliceVar(&buildFormats, "formats", nil, "output formats (overrides profile)")
	buildCmd.Flags().IntVarP(&buildLevel, "level", "l", 0, "zstd level 1-100 (0 = profile default)")
	buildCmd.Flags().IntVar(&buildMaxWidth, "max-width", 0, "downscale bound (overrides profile)")
	buildCmd.Flags().IntVar(&buildMaxHeight, "max-height", 0, "downscale bound (overrides profile)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(buildProfile)
	if buildFormats != nil {
		prof.Formats = buildFormats
	}
	if buildLevel > 0 {
		prof.Level = buildLevel
	}
	if buildMaxWidth > 0 {
		prof.MaxWidth = buildMaxWidth
	}
	if buildMaxHeight > 0 {
		prof.MaxHeight = buildMaxHeight
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (formats=%v, max=%dx%d, level=%d)",
		prof.Name, prof.Formats, prof.MaxWidth, prof.MaxHeight, prof.Level)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   buildWorkers,
		Verbose:   verbose,
	})

	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(cmd.OutOrStdout(), m)
	return nil
}

func printBuildReport(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  qoienc build complete")
	fmt.Fprintln(w)

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Fprintf(w, "  Assets:      %d\n", stats.TotalAssets)
	fmt.Fprintf(w, "  Outputs:     %d\n", stats.TotalOutputs)
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Fprintf(w, "  Ratio:       %.1f%% of original\n", ratio)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Time:        %s\n", (time.Duration(m.BuildInfo.ElapsedMS) * time.Millisecond).String())
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintf(w, "  Chunks:      %s\n", formatChunkCounts(stats.Chunks))
	fmt.Fprintln(w)

	// Top 10 largest outputs relative to their raw RGB size.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key     string
			rawSize int64
			qoiSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var qoiSize int64
			for _, o := range a.Outputs {
				if o.Format == "qoi" {
					qoiSize = o.Size
				}
			}
			items = append(items, assetSize{key, int64(a.Width) * int64(a.Height) * 3, qoiSize})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].qoiSize != items[j].qoiSize {
				return items[i].qoiSize > items[j].qoiSize
			}
			return items[i].key < items[j].key
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Fprintf(w, "  Top %d heaviest (raw RGB → qoi):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.rawSize > 0 && it.qoiSize > 0 {
				saved = (1 - float64(it.qoiSize)/float64(it.rawSize)) * 100
			}
			fmt.Fprintf(w, "    %-40s %8s → %8s  (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.rawSize),
				formatBytes(it.qoiSize),
				saved,
			)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Manifest:    %s\n", manifest.FileName)
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
