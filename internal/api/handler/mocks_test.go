package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api/middleware"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

// MockGalleryService is a mock implementation of GalleryService
type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) AddOrUpdate(ctx context.Context, req service.AddRequest) (*domain.PersonRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonRecord), args.Error(1)
}

func (m *MockGalleryService) Lookup(ctx context.Context, id string) (*domain.PersonRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonRecord), args.Error(1)
}

func (m *MockGalleryService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGalleryService) List(ctx context.Context) ([]domain.PersonRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersonRecord), args.Error(1)
}

func (m *MockGalleryService) Rebuild(ctx context.Context, dir string, opts ...service.RebuildOption) (*domain.Gallery, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gallery), args.Error(1)
}

// MockRecognitionService is a mock implementation of RecognitionService
type MockRecognitionService struct {
	mock.Mock
}

func (m *MockRecognitionService) Recognize(ctx context.Context, img image.Image, tolerance float64) (*domain.Recognition, error) {
	args := m.Called(ctx, img, tolerance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recognition), args.Error(1)
}

type publishedEvent struct {
	Type ws.EventType
	Data interface{}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType ws.EventType, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

// Helper to create multipart request
func createMultipartRequest(fields map[string]string, imageContent []byte, contentType string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}

	if imageContent != nil {
		// Create part with custom Content-Type header
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="face.png"`)
		h.Set("Content-Type", contentType)

		part, _ := writer.CreatePart(h)
		_, _ = part.Write(imageContent)
	}

	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
