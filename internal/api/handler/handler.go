package handler

import (
	"context"
	"image"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

// GalleryService is implemented by *service.GalleryManager.
type GalleryService interface {
	AddOrUpdate(ctx context.Context, req service.AddRequest) (*domain.PersonRecord, error)
	Lookup(ctx context.Context, id string) (*domain.PersonRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.PersonRecord, error)
	Rebuild(ctx context.Context, dir string, opts ...service.RebuildOption) (*domain.Gallery, error)
}

// RecognitionService is implemented by *service.Recognizer.
type RecognitionService interface {
	Recognize(ctx context.Context, img image.Image, tolerance float64) (*domain.Recognition, error)
}

// Publisher is implemented by *ws.Hub.
type Publisher interface {
	Publish(eventType ws.EventType, data interface{})
}

// Observer is implemented by *metrics.Metrics.
type Observer interface {
	ObserveRecognition(rec *domain.Recognition)
	ObserveGalleryOp(op string, err error)
}

// PersonResponse is the public view of a gallery record.
type PersonResponse struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

func toPersonResponse(rec *domain.PersonRecord) PersonResponse {
	return PersonResponse{Index: rec.Index, ID: rec.ID, Name: rec.Name}
}

func addRequest(name, id string, img image.Image, target *int) service.AddRequest {
	return service.AddRequest{Name: name, ID: id, Image: img, TargetIndex: target}
}

func toPersonData(rec *domain.PersonRecord) ws.PersonData {
	return ws.PersonData{Index: rec.Index, ID: rec.ID, Name: rec.Name}
}
