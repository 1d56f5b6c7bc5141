package encoder

import (
	"github.com/AnyUserName/qoienc/internal/qoi"
	"github.com/AnyUserName/qoienc/internal/raster"
)

// Encoder encodes an RGB raster to a specific output format.
type Encoder interface {
	// Format returns the output format name (e.g. "qoi", "qoi.zst").
	Format() string

	// Encode converts the raster to bytes. level tunes any post-compression
	// (1-100, 0 = default) and is ignored by formats without one.
	// The returned Stats describe the QOI chunk stream.
	Encode(img *raster.Image, level int) ([]byte, qoi.Stats, error)

	// Available returns true if the encoder is ready to use.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
