//go:build !dlib

package dlib

import (
	"context"
	"errors"
	"image"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// Available reports whether this binary was built with dlib support.
const Available = false

var ErrNotCompiled = errors.New("dlib encoder not compiled in, rebuild with -tags dlib")

// Provider is a placeholder so callers compile without cgo.
type Provider struct{}

func New(modelsDir string) (*Provider, error) {
	return nil, ErrNotCompiled
}

func (p *Provider) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	return nil, ErrNotCompiled
}

func (p *Provider) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	return nil, ErrNotCompiled
}

func (p *Provider) Close() error {
	return nil
}
