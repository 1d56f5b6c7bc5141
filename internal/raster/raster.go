// Package raster turns decoded images into the packed RGB buffers the QOI
// encoder consumes.
package raster

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a row-major RGB buffer, three bytes per pixel.
type Image struct {
	Width  uint32
	Height uint32
	Pix    []byte
	// HasAlpha reports whether the source had non-opaque pixels. Their
	// alpha was dropped.
	HasAlpha bool
}

// Options control how a source image is prepared.
type Options struct {
	// MaxWidth and MaxHeight bound the output size. Images are downscaled
	// to fit, never upscaled. Zero means unbounded.
	MaxWidth  int
	MaxHeight int
}

// Load decodes the image at path and flattens it with FromImage.
func Load(path string, opts Options) (*Image, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img, opts), nil
}

// FromImage resizes img according to opts and flattens it to RGB.
func FromImage(img image.Image, opts Options) *Image {
	var nrgba *image.NRGBA
	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		w, h := opts.MaxWidth, opts.MaxHeight
		if w <= 0 {
			w = math.MaxInt32
		}
		if h <= 0 {
			h = math.MaxInt32
		}
		nrgba = imaging.Fit(img, w, h, imaging.Lanczos)
	} else {
		nrgba = imaging.Clone(img)
	}
	return fromNRGBA(nrgba)
}

// fromNRGBA drops the alpha channel without compositing, so straight color
// values are kept as they are.
func fromNRGBA(src *image.NRGBA) *Image {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := &Image{
		Width:  uint32(w),
		Height: uint32(h),
		Pix:    make([]byte, w*h*3),
	}

	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			out.Pix[i] = row[x]
			out.Pix[i+1] = row[x+1]
			out.Pix[i+2] = row[x+2]
			if row[x+3] != 0xff {
				out.HasAlpha = true
			}
			i += 3
		}
	}
	return out
}

// Decode opens and decodes the image at path, honouring EXIF orientation.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
