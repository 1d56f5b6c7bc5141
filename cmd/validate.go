package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/qoienc/internal/encoder"
	"github.com/AnyUserName/qoienc/internal/hasher"
	"github.com/AnyUserName/qoienc/internal/manifest"
	"github.com/spf13/cobra"
	"github.com/xfmoulet/qoi"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate a manifest and decode every referenced file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	errs := validateManifest(m, filepath.Dir(manifestPath))

	out := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d assets, %d outputs — all files present and decodable\n",
			m.Stats.TotalAssets, m.Stats.TotalOutputs)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, asset := range m.Assets {
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}
		if asset.Width <= 0 || asset.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid dimensions %dx%d", key, asset.Width, asset.Height))
		}
		if len(asset.Outputs) == 0 {
			errs = append(errs, fmt.Sprintf("asset %q: no outputs", key))
		}
		c := asset.Chunks
		if covered := c.RunPixels + c.Index + c.Diff + c.Luma + c.RGB; covered != asset.Width*asset.Height {
			errs = append(errs, fmt.Sprintf("asset %q: chunks cover %d pixels, image has %d",
				key, covered, asset.Width*asset.Height))
		}

		seenPaths := map[string]bool{}
		for i, o := range asset.Outputs {
			if o.Hash == "" {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: missing hash", key, i))
			}
			if o.Path == "" {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: missing path", key, i))
				continue
			}
			if seenPaths[o.Path] {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: duplicate path %q", key, i, o.Path))
			}
			seenPaths[o.Path] = true

			if err := validateOutput(filepath.Join(baseDir, o.Path), o, asset); err != nil {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: %v", key, i, err))
			}
		}
	}

	// Verify stats consistency.
	outputCount := 0
	for _, a := range m.Assets {
		outputCount += len(a.Outputs)
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputCount))
	}

	return errs
}

// validateOutput checks size and hash of one file and decodes it.
func validateOutput(path string, o manifest.Output, asset manifest.Asset) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("file not found: %s", o.Path)
	}
	if o.Size > 0 && int64(len(data)) != o.Size {
		return fmt.Errorf("size mismatch: manifest=%d, disk=%d", o.Size, len(data))
	}
	if o.Hash != "" {
		if got := hasher.ContentHash(data, len(o.Hash)); got != o.Hash {
			return fmt.Errorf("hash mismatch: manifest=%s, disk=%s", o.Hash, got)
		}
	}

	switch o.Format {
	case "qoi":
	case "qoi.zst":
		if data, err = encoder.DecodeZstd(data); err != nil {
			return fmt.Errorf("zstd decode: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", o.Format)
	}

	img, err := qoi.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("qoi decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() != asset.Width || b.Dy() != asset.Height {
		return fmt.Errorf("decoded size %dx%d, manifest %dx%d", b.Dx(), b.Dy(), asset.Width, asset.Height)
	}
	return nil
}
