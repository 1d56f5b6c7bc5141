// Package qoi encodes raw RGB pixel buffers into the QOI ("Quite OK Image")
// format. Only the 3-channel variant is produced.
package qoi

import (
	"errors"
)

// Op-codes of the chunk stream. The 8-bit tags take precedence over the
// 2-bit tags when reading.
const (
	OpIndex = byte(0b00000000)
	OpDiff  = byte(0b01000000)
	OpLuma  = byte(0b10000000)
	OpRun   = byte(0b11000000)
	OpRGB   = byte(0b11111110)
	OpRGBA  = byte(0b11111111)
	// opMask selects the 2-bit tag of a chunk.
	opMask = byte(0b11000000)
)

const (
	// Magic is the magic code at the start of every QOI stream.
	Magic = "qoif"
	// HeaderSize is the size of the fixed header in bytes.
	HeaderSize = 14
	// Channels is the channel count written to the header.
	Channels = 3
	// ColorspaceSRGB is the colorspace tag written to the header.
	ColorspaceSRGB = 0
	// MaxRun is the longest run a single Run chunk can carry.
	MaxRun = 62
)

// ErrMalformedInput is returned when the pixel buffer does not describe a
// whole number of pixels or disagrees with the declared dimensions.
var ErrMalformedInput = errors.New("malformed input")

// EndMarker terminates every stream.
var EndMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// Pixel is a single RGB color.
type Pixel struct {
	R, G, B uint8
}

// Stats counts how often each chunk type was emitted. It has no influence
// on the encoded bytes.
type Stats struct {
	Runs      int `json:"runs"`
	RunPixels int `json:"run_pixels"`
	Index     int `json:"index"`
	Diff      int `json:"diff"`
	Luma      int `json:"luma"`
	RGB       int `json:"rgb"`
}

// Chunks returns the total number of chunks.
func (s Stats) Chunks() int {
	return s.Runs + s.Index + s.Diff + s.Luma + s.RGB
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Runs:      s.Runs + o.Runs,
		RunPixels: s.RunPixels + o.RunPixels,
		Index:     s.Index + o.Index,
		Diff:      s.Diff + o.Diff,
		Luma:      s.Luma + o.Luma,
		RGB:       s.RGB + o.RGB,
	}
}
