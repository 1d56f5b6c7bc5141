package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/qoienc/internal/encoder"
	"github.com/AnyUserName/qoienc/internal/qoi"
	"github.com/AnyUserName/qoienc/internal/raster"
	"github.com/spf13/cobra"
)

var (
	encodeOut       string
	encodeZstd      bool
	encodeLevel     int
	encodeMaxWidth  int
	encodeMaxHeight int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Convert a single image to QOI",
	Long: `Decodes the image, drops any alpha channel and writes a 3-channel
QOI file next to it (same name, .qoi extension) unless --out is given.
Prints how often each chunk type was used.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output path (default: input with .qoi extension)")
	encodeCmd.Flags().BoolVar(&encodeZstd, "zstd", false, "wrap the QOI stream in a zstd frame")
	encodeCmd.Flags().IntVarP(&encodeLevel, "level", "l", 0, "zstd level 1-100 (0 = default)")
	encodeCmd.Flags().IntVar(&encodeMaxWidth, "max-width", 0, "downscale to at most this width")
	encodeCmd.Flags().IntVar(&encodeMaxHeight, "max-height", 0, "downscale to at most this height")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()

	img, err := raster.Load(inputPath, raster.Options{
		MaxWidth:  encodeMaxWidth,
		MaxHeight: encodeMaxHeight,
	})
	if err != nil {
		return err
	}
	logVerbose("loaded %s: %dx%d (alpha dropped: %t)", inputPath, img.Width, img.Height, img.HasAlpha)

	var enc encoder.Encoder = &encoder.QOIEncoder{}
	if encodeZstd {
		enc = &encoder.ZstdQOIEncoder{}
	}

	data, stats, err := enc.Encode(img, encodeLevel)
	if err != nil {
		return fmt.Errorf("encode %s: %w", inputPath, err)
	}

	outPath := encodeOut
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + enc.Extension()
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logVerbose("wrote %s (%s)", outPath, formatBytes(int64(len(data))))

	fmt.Fprintln(cmd.OutOrStdout(), formatChunkCounts(stats))
	fmt.Fprintf(cmd.OutOrStdout(), "time elapsed: %s\n", time.Since(start).Round(time.Microsecond))
	return nil
}

// formatChunkCounts renders counters in the order run, diff, index, rgb,
// luma. run counts pixels covered by runs.
func formatChunkCounts(s qoi.Stats) string {
	return fmt.Sprintf("run:%d diff:%d index:%d rgb:%d luma:%d",
		s.RunPixels, s.Diff, s.Index, s.RGB, s.Luma)
}
