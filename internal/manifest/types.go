package manifest

import "github.com/AnyUserName/qoienc/internal/qoi"

// FileName is the manifest name inside a build output directory.
const FileName = "qoienc.manifest.json"

// Manifest is the top-level output of a qoienc build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers   int   `json:"workers"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Asset describes a single source image and its encoded outputs.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Width    int          `json:"width"`  // encoded width, after any downscale
	Height   int          `json:"height"` // encoded height
	Chunks   qoi.Stats    `json:"chunks"`
	Outputs  []Output     `json:"outputs"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"` // alpha was dropped during encoding
}

// Output is one encoded file of an asset.
type Output struct {
	Format string `json:"format"` // "qoi", "qoi.zst"
	Size   int64  `json:"size"`   // bytes on disk
	Hash   string `json:"hash"`   // 16 hex chars of xxhash64
	Path   string `json:"path"`   // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64     `json:"total_input_bytes"`
	TotalOutputBytes int64     `json:"total_output_bytes"`
	TotalAssets      int       `json:"total_assets"`
	TotalOutputs     int       `json:"total_outputs"`
	TotalPixels      int64     `json:"total_pixels"`
	Chunks           qoi.Stats `json:"chunks"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
