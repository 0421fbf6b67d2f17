package service

import (
	"context"
	"fmt"
	"image"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/annotate"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/matcher"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
)

// Recognizer identifies the faces in an image against the stored gallery.
type Recognizer struct {
	store     repository.GalleryStore
	encoder   provider.Encoder
	annotator *annotate.Annotator
}

func NewRecognizer(store repository.GalleryStore, encoder provider.Encoder) *Recognizer {
	return &Recognizer{
		store:     store,
		encoder:   encoder,
		annotator: annotate.New(),
	}
}

// WithAnnotator replaces the default green annotator.
func (r *Recognizer) WithAnnotator(a *annotate.Annotator) *Recognizer {
	r.annotator = a
	return r
}

// Recognize matches every detected face independently and returns an
// annotated copy of img. Name and ID are those of the last face that matched,
// or Unknown when none did.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image, tolerance float64) (*domain.Recognition, error) {
	if img == nil {
		return nil, domain.ErrInvalidImage
	}

	g, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	frame := imaging.Normalize(img)

	boxes, encodings, err := provider.Describe(ctx, r.encoder, frame, 0)
	if err != nil {
		return nil, err
	}

	result := &domain.Recognition{
		Name:  domain.UnknownName,
		ID:    domain.UnknownName,
		Faces: make([]domain.FaceResult, 0, len(boxes)),
	}
	for i, box := range boxes {
		match, err := matcher.Match(g, encodings[i], tolerance)
		if err != nil {
			return nil, fmt.Errorf("match face %d: %w", i, err)
		}
		result.Faces = append(result.Faces, domain.FaceResult{Box: box, Match: match})
		if match.Matched() {
			result.Name = match.Name
			result.ID = match.ID
		}
	}

	result.Annotated = r.annotator.Annotate(frame, result.Faces)
	return result, nil
}
