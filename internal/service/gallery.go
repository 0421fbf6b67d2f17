package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
)

// Outcome is the tri-state result of AddOrUpdate.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeAdded
	OutcomeDuplicateID
	OutcomeNoFaceDetected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicateID:
		return "duplicate_id"
	case OutcomeNoFaceDetected:
		return "no_face_detected"
	default:
		return "failed"
	}
}

// OutcomeOf maps an AddOrUpdate error onto its Outcome. Errors other than the
// two rejection sentinels are OutcomeFailed.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAdded
	case errors.Is(err, domain.ErrDuplicateID):
		return OutcomeDuplicateID
	case errors.Is(err, domain.ErrNoFaceDetected):
		return OutcomeNoFaceDetected
	default:
		return OutcomeFailed
	}
}

// AddRequest describes a person to add, or to overwrite when TargetIndex is set.
type AddRequest struct {
	Name        string
	ID          string
	Image       image.Image
	TargetIndex *int
}

func (r AddRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	case strings.TrimSpace(r.ID) == "":
		return domain.ErrValidationFailed.WithError(errors.New("id is required"))
	case r.Image == nil:
		return domain.ErrValidationFailed.WithError(errors.New("image is required"))
	case r.TargetIndex != nil && *r.TargetIndex < 0:
		return domain.ErrValidationFailed.WithError(fmt.Errorf("target index %d is negative", *r.TargetIndex))
	}
	return nil
}

// GalleryManager applies mutations to the stored gallery. Every call loads
// the full gallery, applies one change and saves it back. Concurrent calls
// are not serialized: the last save wins.
type GalleryManager struct {
	store   repository.GalleryStore
	encoder provider.Encoder
}

func NewGalleryManager(store repository.GalleryStore, encoder provider.Encoder) *GalleryManager {
	return &GalleryManager{
		store:   store,
		encoder: encoder,
	}
}

// AddOrUpdate stores the first face found in req.Image. Without a target
// index the id must be new. With one, that index is overwritten as is.
func (m *GalleryManager) AddOrUpdate(ctx context.Context, req AddRequest) (*domain.PersonRecord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	g, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	img := imaging.Normalize(req.Image)

	encoding, err := firstEncoding(ctx, m.encoder, img)
	if err != nil {
		return nil, err
	}

	var index int
	if req.TargetIndex != nil {
		index = *req.TargetIndex
	} else {
		if _, exists := g.FindByID(req.ID); exists {
			return nil, domain.ErrDuplicateID.WithError(fmt.Errorf("id %q", req.ID))
		}
		index = g.NextIndex()
	}

	rec := domain.PersonRecord{
		Index:    index,
		ID:       req.ID,
		Name:     req.Name,
		Image:    img,
		Encoding: encoding,
	}
	if err := g.Put(rec); err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save gallery: %w", err)
	}
	return &rec, nil
}

// Lookup returns the first record in index order with the given id.
func (m *GalleryManager) Lookup(ctx context.Context, id string) (*domain.PersonRecord, error) {
	g, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	rec, ok := g.FindByID(id)
	if !ok {
		return nil, domain.ErrPersonNotFound.WithError(fmt.Errorf("id %q", id))
	}
	return &rec, nil
}

// Delete removes the first record with the given id. The freed index is left
// empty. Nothing is saved when the id is absent.
func (m *GalleryManager) Delete(ctx context.Context, id string) (bool, error) {
	g, err := m.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load gallery: %w", err)
	}

	rec, ok := g.FindByID(id)
	if !ok {
		return false, nil
	}
	g.Remove(rec.Index)

	if err := m.store.Save(ctx, g); err != nil {
		return false, fmt.Errorf("save gallery: %w", err)
	}
	return true, nil
}

// List returns every record in index order.
func (m *GalleryManager) List(ctx context.Context) ([]domain.PersonRecord, error) {
	g, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}
	return g.Records(), nil
}

// firstEncoding detects faces in img and encodes the first one.
func firstEncoding(ctx context.Context, enc provider.Encoder, img image.Image) (domain.Encoding, error) {
	_, encodings, err := provider.Describe(ctx, enc, img, 1)
	if err != nil {
		return nil, err
	}
	if len(encodings) == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	return encodings[0], nil
}
