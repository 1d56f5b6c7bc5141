package encoder

import (
	"github.com/AnyUserName/qoienc/internal/qoi"
	"github.com/AnyUserName/qoienc/internal/raster"
)

// QOIEncoder writes plain 3-channel QOI streams.
type QOIEncoder struct{}

func (e *QOIEncoder) Format() string    { return "qoi" }
func (e *QOIEncoder) Extension() string { return "qoi" }
func (e *QOIEncoder) Available() bool   { return true }

func (e *QOIEncoder) Encode(img *raster.Image, _ int) ([]byte, qoi.Stats, error) {
	return qoi.Encode(img.Pix, img.Width, img.Height)
}
