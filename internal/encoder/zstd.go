package encoder

import (
	"fmt"
	"sync"

	"github.com/AnyUserName/qoienc/internal/qoi"
	"github.com/AnyUserName/qoienc/internal/raster"
	"github.com/klauspost/compress/zstd"
)

// ZstdQOIEncoder writes a QOI stream wrapped in a single zstd frame.
// QOI leaves long-range redundancy on the table; zstd picks some of it up.
type ZstdQOIEncoder struct{}

func (e *ZstdQOIEncoder) Format() string    { return "qoi.zst" }
func (e *ZstdQOIEncoder) Extension() string { return "qoi.zst" }
func (e *ZstdQOIEncoder) Available() bool   { return true }

func (e *ZstdQOIEncoder) Encode(img *raster.Image, level int) ([]byte, qoi.Stats, error) {
	raw, stats, err := qoi.Encode(img.Pix, img.Width, img.Height)
	if err != nil {
		return nil, stats, err
	}
	comp, err := CompressZstd(raw, level)
	if err != nil {
		return nil, stats, fmt.Errorf("zstd encode: %w", err)
	}
	return comp, stats, nil
}

// zstdEncPools holds one encoder pool per speed level.
var zstdEncPools [zstd.SpeedBestCompression + 1]sync.Pool

func init() {
	for i := range zstdEncPools {
		lvl := zstd.EncoderLevel(i)
		if lvl < zstd.SpeedFastest {
			continue
		}
		zstdEncPools[i].New = func() any {
			enc, err := zstd.NewWriter(
				nil,
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderLevel(lvl),
			)
			if err != nil {
				panic(err)
			}
			return enc
		}
	}
}

var (
	zstdDecOnce sync.Once
	zstdDec     *zstd.Decoder
	zstdDecErr  error
)

// ZstdLevel maps a 1-100 level onto a zstd speed level. 0 selects the default.
func ZstdLevel(level int) zstd.EncoderLevel {
	if level <= 0 {
		return zstd.SpeedDefault
	}
	if level > 100 {
		level = 100
	}
	// zstd's own scale runs 1-22.
	return zstd.EncoderLevelFromZstd(1 + (level-1)*21/99)
}

// CompressZstd compresses data into one zstd frame.
func CompressZstd(data []byte, level int) ([]byte, error) {
	pool := &zstdEncPools[ZstdLevel(level)]
	enc := pool.Get().(*zstd.Encoder)
	defer pool.Put(enc)

	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// DecodeZstd reverses CompressZstd.
func DecodeZstd(data []byte) ([]byte, error) {
	zstdDecOnce.Do(func() {
		zstdDec, zstdDecErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	if zstdDecErr != nil {
		return nil, zstdDecErr
	}
	return zstdDec.DecodeAll(data, nil)
}
