package deepface

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

// minBoxIoU is the overlap a DeepFace facial area needs with a requested box
// to be taken as the same face.
const minBoxIoU = 0.5

// Provider implements provider.Encoder using the DeepFace HTTP API.
type Provider struct {
	client    *Client
	normalize bool
}

var (
	_ provider.Encoder       = (*Provider)(nil)
	_ provider.Describer     = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
)

func NewProvider(config Config) *Provider {
	return &Provider{
		client:    NewClient(config),
		normalize: config.Normalize,
	}
}

// Describe returns the boxes and embeddings of one /represent call.
func (p *Provider) Describe(ctx context.Context, img image.Image) ([]domain.BoundingBox, []domain.Encoding, error) {
	results, err := p.represent(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("describe faces: %w", err)
	}

	boxes := make([]domain.BoundingBox, 0, len(results))
	encodings := make([]domain.Encoding, 0, len(results))
	for _, r := range results {
		boxes = append(boxes, toBox(r.FacialArea))
		encodings = append(encodings, p.encoding(r.Embedding))
	}
	return boxes, encodings, nil
}

func (p *Provider) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	results, err := p.represent(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	boxes := make([]domain.BoundingBox, 0, len(results))
	for _, r := range results {
		boxes = append(boxes, toBox(r.FacialArea))
	}
	return boxes, nil
}

// ComputeEncodings asks DeepFace for every face in the image and pairs each
// requested box with the returned face that overlaps it most.
func (p *Provider) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	if len(boxes) == 0 {
		return []domain.Encoding{}, nil
	}

	results, err := p.represent(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("compute encodings: %w", err)
	}

	out := make([]domain.Encoding, 0, len(boxes))
	for i, box := range boxes {
		best, bestIoU := -1, 0.0
		for j, r := range results {
			if iou := box.IoU(toBox(r.FacialArea)); iou > bestIoU {
				best, bestIoU = j, iou
			}
		}
		if best < 0 || bestIoU < minBoxIoU {
			return nil, fmt.Errorf("box %d: %w", i, ErrNoFaceInResponse)
		}
		out = append(out, p.encoding(results[best].Embedding))
	}
	return out, nil
}

func (p *Provider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return domain.ErrEncoderUnavailable.WithError(err)
	}
	return nil
}

func (p *Provider) represent(ctx context.Context, img image.Image) ([]RepresentResult, error) {
	if img == nil {
		return nil, domain.ErrInvalidImage
	}
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	resp, err := p.client.Represent(ctx, uri)
	if err != nil {
		if isNoFaceError(err) {
			return nil, nil
		}
		if errors.Is(err, ErrDeepFaceUnavailable) {
			return nil, domain.ErrEncoderUnavailable.WithError(err)
		}
		return nil, err
	}
	return resp.Results, nil
}

// isNoFaceError reports whether DeepFace rejected the image because it found
// no face while enforce_detection was on.
func isNoFaceError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 400 {
		return false
	}
	var body errorResponse
	if json.Unmarshal([]byte(se.Body), &body) != nil {
		return false
	}
	return strings.Contains(strings.ToLower(body.Error), "could not be detected")
}

func (p *Provider) encoding(embedding []float64) domain.Encoding {
	e := make(domain.Encoding, len(embedding))
	copy(e, embedding)
	if !p.normalize {
		return e
	}

	var sum float64
	for _, v := range e {
		sum += v * v
	}
	if sum == 0 {
		return e
	}
	norm := math.Sqrt(sum)
	for i := range e {
		e[i] /= norm
	}
	return e
}

func toBox(a FacialArea) domain.BoundingBox {
	return domain.BoundingBox{Left: a.X, Top: a.Y, Right: a.X + a.W, Bottom: a.Y + a.H}
}
