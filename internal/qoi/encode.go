package qoi

import (
	"fmt"
	"io"
)

// MaxEncodedLen returns the largest stream Encode can produce for an image
// of the given size.
func MaxEncodedLen(width, height uint32) int {
	return HeaderSize + int(uint64(width)*uint64(height))*(Channels+1) + len(EndMarker)
}

// Encode encodes a row-major RGB buffer of width*height pixels into a QOI
// stream. The returned Stats are informational only.
func Encode(pix []byte, width, height uint32) ([]byte, Stats, error) {
	if len(pix)%Channels != 0 {
		return nil, Stats{}, fmt.Errorf("%w: buffer length %d is not a multiple of %d", ErrMalformedInput, len(pix), Channels)
	}
	if want := uint64(width) * uint64(height) * Channels; want != uint64(len(pix)) {
		return nil, Stats{}, fmt.Errorf("%w: %dx%d image needs %d bytes, got %d", ErrMalformedInput, width, height, want, len(pix))
	}

	e := encoder{
		pix: pix,
		n:   len(pix) / Channels,
		out: make([]byte, 0, MaxEncodedLen(width, height)),
	}
	e.out = AppendHeader(e.out, width, height)
	for e.cursor < e.n {
		e.step()
	}
	e.out = AppendEnd(e.out)

	return e.out, e.stats, nil
}

// EncodeTo encodes like Encode and writes the stream to w.
func EncodeTo(w io.Writer, pix []byte, width, height uint32) (Stats, error) {
	data, stats, err := Encode(pix, width, height)
	if err != nil {
		return stats, err
	}
	if _, err := w.Write(data); err != nil {
		return stats, err
	}
	return stats, nil
}

// encoder is the state of one Encode call.
type encoder struct {
	pix    []byte
	n      int // pixel count
	cursor int // next pixel to encode
	prev   Pixel
	cache  Cache
	out    []byte
	stats  Stats
}

func (e *encoder) pixelAt(i int) Pixel {
	off := i * Channels
	return Pixel{R: e.pix[off], G: e.pix[off+1], B: e.pix[off+2]}
}

// step encodes the pixel at the cursor, or the run starting there.
func (e *encoder) step() {
	curr := e.pixelAt(e.cursor)

	// OpRun
	if curr == e.prev {
		e.cursor = e.consumeRun(curr)
		return
	}

	hash := Hash(curr)
	cached, ok := e.cache.Lookup(hash)

	switch {
	case !ok:
		e.cache.Store(hash, curr)
		e.out = AppendRGB(e.out, curr.R, curr.G, curr.B)
		e.stats.RGB++

	case cached == curr:
		e.out = AppendIndex(e.out, hash)
		e.stats.Index++

	default:
		e.cache.Store(hash, curr)
		e.encodeDelta(curr)
	}

	e.prev = curr
	e.cursor++
}

// consumeRun emits one Run chunk for the pixels equal to curr starting at
// the cursor and returns the cursor behind them. The cache is left alone:
// curr is the previous pixel and was handled by an earlier step.
func (e *encoder) consumeRun(curr Pixel) int {
	i := e.cursor
	run := 0
	for i < e.n && run < MaxRun && e.pixelAt(i) == curr {
		run++
		i++
	}

	e.out = AppendRun(e.out, run)
	e.stats.Runs++
	e.stats.RunPixels += run
	return i
}

// encodeDelta emits a Diff, Luma or RGB chunk for curr, whichever applies
// first. Deltas use 8-bit wraparound.
func (e *encoder) encodeDelta(curr Pixel) {
	dr := curr.R - e.prev.R
	dg := curr.G - e.prev.G
	db := curr.B - e.prev.B

	// OpDiff: signed deltas in [-2, 1]
	if dr+2 <= 3 && dg+2 <= 3 && db+2 <= 3 {
		e.out = AppendDiff(e.out, dr+2, dg+2, db+2)
		e.stats.Diff++
		return
	}

	// OpLuma: dg in [-32, 31], dr-dg and db-dg in [-8, 7]
	drDg := dr - dg
	dbDg := db - dg
	if dg+32 <= 63 && drDg+8 <= 15 && dbDg+8 <= 15 {
		e.out = AppendLuma(e.out, dg+32, drDg+8, dbDg+8)
		e.stats.Luma++
		return
	}

	// OpRGB
	e.out = AppendRGB(e.out, curr.R, curr.G, curr.B)
	e.stats.RGB++
}
