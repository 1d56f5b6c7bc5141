package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/qoienc/internal/encoder"
	"github.com/AnyUserName/qoienc/internal/hasher"
	"github.com/AnyUserName/qoienc/internal/manifest"
	"github.com/AnyUserName/qoienc/internal/raster"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	asset manifest.Asset
	err   error
}

// processImage handles a single source image: decode, flatten, encode, write.
func processImage(src Source, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}

	img, err := raster.Decode(src.AbsPath)
	if err != nil {
		result.err = err
		return result
	}
	bounds := img.Bounds()

	rgb := raster.FromImage(img, raster.Options{
		MaxWidth:  cfg.Profile.MaxWidth,
		MaxHeight: cfg.Profile.MaxHeight,
	})

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: rgb.HasAlpha,
		},
		Width:  int(rgb.Width),
		Height: int(rgb.Height),
	}

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = fmt.Errorf("create %s: %w", keyDir, err)
			return result
		}
	}

	for _, format := range registry.ResolveFormats(cfg.Profile.Formats) {
		enc := registry.Get(format)

		data, stats, err := enc.Encode(rgb, cfg.Profile.Level)
		if err != nil {
			result.err = fmt.Errorf("encode %s as %s: %w", src.RelPath, format, err)
			return result
		}
		result.asset.Chunks = stats

		// Content hash for filename.
		contentHash := hasher.ContentHash(data, hasher.DefaultHexLen)

		// Build filename: key.hash.ext
		fileName := fmt.Sprintf("%s.%s.%s",
			filepath.Base(src.Key), contentHash[:8], enc.Extension())
		relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

		outPath := filepath.Join(cfg.OutputDir, relPath)
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			result.err = fmt.Errorf("write %s: %w", relPath, err)
			return result
		}

		result.asset.Outputs = append(result.asset.Outputs, manifest.Output{
			Format: format,
			Size:   int64(len(data)),
			Hash:   contentHash,
			Path:   relPath,
		})
	}

	return result
}
