package service

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
)

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BoundingBox), args.Error(1)
}

func (m *MockEncoder) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	args := m.Called(ctx, img, boxes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Encoding), args.Error(1)
}

var faceBox = domain.BoundingBox{Left: 4, Top: 4, Right: 28, Bottom: 28}

// expectFace makes the encoder report one face with the given encoding.
func expectFace(enc *MockEncoder, encoding domain.Encoding) {
	enc.On("DetectFaces", mock.Anything, mock.Anything).
		Return([]domain.BoundingBox{faceBox}, nil).Once()
	enc.On("ComputeEncodings", mock.Anything, mock.Anything, []domain.BoundingBox{faceBox}).
		Return([]domain.Encoding{encoding}, nil).Once()
}

func expectNoFace(enc *MockEncoder) {
	enc.On("DetectFaces", mock.Anything, mock.Anything).
		Return([]domain.BoundingBox{}, nil).Once()
}

// gradientImage is a non-uniform image, seeded so different seeds differ.
func gradientImage(seed uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: seed, A: 255})
		}
	}
	return img
}

func record(index int, id, name string, encoding ...float64) domain.PersonRecord {
	return domain.PersonRecord{
		Index:    index,
		ID:       id,
		Name:     name,
		Image:    gradientImage(uint8(index)),
		Encoding: domain.Encoding(encoding),
	}
}

func seedStore(t *testing.T, records ...domain.PersonRecord) *repository.MemoryStore {
	t.Helper()

	g := domain.NewGallery()
	for _, rec := range records {
		require.NoError(t, g.Put(rec))
	}
	store := repository.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), g))
	return store
}

func intPtr(v int) *int {
	return &v
}
