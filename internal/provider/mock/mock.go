package mock

import (
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"math"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

const EncodingDimension = 128

// Provider is a deterministic encoder for development and tests.
// A single-colour image has no face; any other image has exactly one face
// covering its central 80%, encoded from a hash of the pixels inside it.
type Provider struct{}

var _ provider.Encoder = (*Provider)(nil)

func New() *Provider {
	return &Provider{}
}

func (p *Provider) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	if img == nil {
		return nil, domain.ErrInvalidImage
	}
	rgba := imaging.Normalize(img)
	if uniform(rgba) {
		return []domain.BoundingBox{}, nil
	}

	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	return []domain.BoundingBox{{
		Left:   w / 10,
		Top:    h / 10,
		Right:  w - w/10,
		Bottom: h - h/10,
	}}, nil
}

func (p *Provider) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	if img == nil {
		return nil, domain.ErrInvalidImage
	}
	rgba := imaging.Normalize(img)

	out := make([]domain.Encoding, 0, len(boxes))
	for i, box := range boxes {
		r := box.Rect().Intersect(rgba.Bounds())
		if r.Empty() {
			return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("box %d is outside the image", i))
		}
		out = append(out, generateEncoding(rgba.SubImage(r).(*image.RGBA)))
	}
	return out, nil
}

func uniform(img *image.RGBA) bool {
	b := img.Bounds()
	if b.Empty() {
		return true
	}
	first := img.RGBAAt(b.Min.X, b.Min.Y)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != first {
				return false
			}
		}
	}
	return true
}

// generateEncoding derives a unit-length vector from a hash of the pixels.
func generateEncoding(img *image.RGBA) domain.Encoding {
	h := sha256.New()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[start : start+4*b.Dx()])
	}
	hash := h.Sum(nil)

	enc := make(domain.Encoding, EncodingDimension)
	for i := range enc {
		v := hash[i%len(hash)] ^ byte(i*31)
		enc[i] = (float64(v)/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range enc {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range enc {
		enc[i] /= norm
	}
	return enc
}
