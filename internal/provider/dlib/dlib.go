//go:build dlib

// Package dlib provides an in-process encoder backed by dlib through go-face.
// Build with -tags dlib; the models directory must hold
// shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat
// and mmod_human_face_detector.dat.
package dlib

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/Kagami/go-face"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

// Available reports whether this binary was built with dlib support.
const Available = true

// Provider wraps a go-face recognizer. The recognizer is not safe for
// concurrent use, so calls are serialized.
type Provider struct {
	mu  sync.Mutex
	rec *face.Recognizer
}

var (
	_ provider.Encoder = (*Provider)(nil)
	_ provider.Closer  = (*Provider)(nil)
)

func New(modelsDir string) (*Provider, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("load dlib models from %s: %w", modelsDir, err)
	}
	return &Provider{rec: rec}, nil
}

func (p *Provider) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	faces, err := p.recognize(img)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	boxes := make([]domain.BoundingBox, 0, len(faces))
	for _, f := range faces {
		boxes = append(boxes, toBox(f.Rectangle))
	}
	return boxes, nil
}

func (p *Provider) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	if len(boxes) == 0 {
		return []domain.Encoding{}, nil
	}
	faces, err := p.recognize(img)
	if err != nil {
		return nil, fmt.Errorf("compute encodings: %w", err)
	}

	out := make([]domain.Encoding, 0, len(boxes))
	for i, box := range boxes {
		best, bestIoU := -1, 0.0
		for j, f := range faces {
			if iou := box.IoU(toBox(f.Rectangle)); iou > bestIoU {
				best, bestIoU = j, iou
			}
		}
		if best < 0 {
			return nil, domain.ErrNoFaceDetected.WithError(fmt.Errorf("box %d has no matching face", i))
		}
		out = append(out, toEncoding(faces[best].Descriptor))
	}
	return out, nil
}

func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rec.Close()
	return nil
}

func (p *Provider) recognize(img image.Image) ([]face.Face, error) {
	if img == nil {
		return nil, domain.ErrInvalidImage
	}
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rec.Recognize(data)
}

func toBox(r image.Rectangle) domain.BoundingBox {
	return domain.BoundingBox{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

func toEncoding(d face.Descriptor) domain.Encoding {
	enc := make(domain.Encoding, len(d))
	for i, v := range d {
		enc[i] = float64(v)
	}
	return enc
}
