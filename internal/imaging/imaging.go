// Package imaging converts between encoded image bytes and the canonical
// in-memory form used by the gallery: *image.RGBA, opaque, origin at (0,0).
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// JPEGQuality is used for every JPEG this package writes.
const JPEGQuality = 90

// Decode parses an encoded image and returns it normalized. Unreadable
// input is reported as domain.ErrInvalidImage.
func Decode(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", domain.ErrInvalidImage.WithError(errors.New("empty input"))
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", domain.ErrInvalidImage.WithError(err)
	}
	return Normalize(img), format, nil
}

// Normalize copies img into a new opaque RGBA image anchored at (0,0).
// Transparent areas are composited over black.
func Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	c := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(c.Pix, img.Pix)
	return c
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
