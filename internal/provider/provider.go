package provider

import (
	"context"
	"fmt"
	"image"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// Encoder locates faces and computes their descriptors. Implementations are
// treated as black boxes by the recognition engine.
type Encoder interface {
	// DetectFaces returns one box per face found. An image without faces
	// yields an empty slice and a nil error.
	DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error)

	// ComputeEncodings returns one encoding per box, in the same order.
	ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error)
}

// HealthChecker is implemented by encoders backed by a remote service.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by encoders that hold native resources.
type Closer interface {
	Close() error
}

// Describer is implemented by encoders that find and encode faces in a single
// pass. Boxes and encodings are parallel slices.
type Describer interface {
	Describe(ctx context.Context, img image.Image) ([]domain.BoundingBox, []domain.Encoding, error)
}

// Describe detects the faces of img and encodes up to limit of them in
// detection order; limit <= 0 encodes all. A Describer is called once, other
// encoders get DetectFaces followed by ComputeEncodings.
func Describe(ctx context.Context, enc Encoder, img image.Image, limit int) ([]domain.BoundingBox, []domain.Encoding, error) {
	if d, ok := enc.(Describer); ok {
		boxes, encodings, err := d.Describe(ctx, img)
		if err != nil {
			return nil, nil, err
		}
		if len(encodings) != len(boxes) {
			return nil, nil, fmt.Errorf("describe: %d boxes but %d encodings", len(boxes), len(encodings))
		}
		if limit > 0 && len(boxes) > limit {
			boxes, encodings = boxes[:limit], encodings[:limit]
		}
		return boxes, encodings, nil
	}

	boxes, err := enc.DetectFaces(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("detect faces: %w", err)
	}
	if limit > 0 && len(boxes) > limit {
		boxes = boxes[:limit]
	}
	if len(boxes) == 0 {
		return boxes, nil, nil
	}

	encodings, err := enc.ComputeEncodings(ctx, img, boxes)
	if err != nil {
		return nil, nil, fmt.Errorf("compute encodings: %w", err)
	}
	if len(encodings) != len(boxes) {
		return nil, nil, fmt.Errorf("compute encodings: expected %d encodings, got %d", len(boxes), len(encodings))
	}
	return boxes, encodings, nil
}
