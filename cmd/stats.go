package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AnyUserName/qoienc/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(cmd.OutOrStdout(), m)
	return nil
}

// resolveManifestPath accepts a manifest file or the directory holding one.
func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Fprintf(w, "  Build time:       %d ms\n", m.BuildInfo.ElapsedMS)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total assets:     %d\n", s.TotalAssets)
	fmt.Fprintf(w, "  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalPixels > 0 {
		fmt.Fprintf(w, "  Pixels:           %d\n", s.TotalPixels)
	}
	fmt.Fprintln(w)

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, a := range m.Assets {
		for _, o := range a.Outputs {
			fs := formatStats[o.Format]
			fs.count++
			fs.bytes += o.Size
			formatStats[o.Format] = fs
		}
	}
	fmt.Fprintln(w, "  Format breakdown:")
	for _, f := range []string{"qoi", "qoi.zst"} {
		if fs, ok := formatStats[f]; ok {
			bpp := float64(0)
			if s.TotalPixels > 0 {
				bpp = float64(fs.bytes*8) / float64(s.TotalPixels)
			}
			fmt.Fprintf(w, "    %-8s %4d files  %10s  %.2f bits/px\n", f, fs.count, formatBytes(fs.bytes), bpp)
		}
	}
	fmt.Fprintln(w)

	// Chunk breakdown by pixels covered.
	c := s.Chunks
	covered := c.RunPixels + c.Index + c.Diff + c.Luma + c.RGB
	fmt.Fprintf(w, "  Chunk breakdown (%d chunks):\n", c.Chunks())
	for _, row := range []struct {
		name   string
		chunks int
		pixels int
	}{
		{"run", c.Runs, c.RunPixels},
		{"index", c.Index, c.Index},
		{"diff", c.Diff, c.Diff},
		{"luma", c.Luma, c.Luma},
		{"rgb", c.RGB, c.RGB},
	} {
		share := float64(0)
		if covered > 0 {
			share = float64(row.pixels) / float64(covered) * 100
		}
		fmt.Fprintf(w, "    %-6s %10d chunks %10d px  %5.1f%%\n", row.name, row.chunks, row.pixels, share)
	}

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if len(a.Outputs) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no outputs", key))
		}
		if a.Original.HasAlpha {
			warnings = append(warnings, fmt.Sprintf("asset %q had alpha, dropped", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ! %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}
