package deepface

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.RetryCount = 0
	return NewProvider(config)
}

func respondFaces(results ...RepresentResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RepresentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !strings.HasPrefix(req.Img, "data:image/jpeg;base64,") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(RepresentResponse{Results: results})
	}
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 320, 240))
}

func TestProvider_DetectFaces(t *testing.T) {
	p := newTestProvider(t, respondFaces(
		RepresentResult{FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 120}, Embedding: []float64{1, 0}},
		RepresentResult{FacialArea: FacialArea{X: 200, Y: 30, W: 80, H: 80}, Embedding: []float64{0, 1}},
	))

	boxes, err := p.DetectFaces(context.Background(), testImage())
	require.NoError(t, err)

	assert.Equal(t, []domain.BoundingBox{
		{Left: 10, Top: 20, Right: 110, Bottom: 140},
		{Left: 200, Top: 30, Right: 280, Bottom: 110},
	}, boxes)
}

func TestProvider_DetectFaces_NoFace(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "Exception while representing: Face could not be detected in numpy array.",
		})
	})

	boxes, err := p.DetectFaces(context.Background(), testImage())
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestProvider_DetectFaces_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "service down maps to encoder unavailable",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":"busy"}`,
			wantErr: domain.ErrEncoderUnavailable,
		},
		{
			name:    "other client errors pass through",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid model name"}`,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.DetectFaces(context.Background(), testImage())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var se *StatusError
				assert.ErrorAs(t, err, &se)
			}
		})
	}
}

func TestProvider_DetectFaces_NilImage(t *testing.T) {
	p := NewProvider(DefaultConfig())

	_, err := p.DetectFaces(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestProvider_ComputeEncodings_AlignsByOverlap(t *testing.T) {
	p := newTestProvider(t, respondFaces(
		RepresentResult{FacialArea: FacialArea{X: 200, Y: 30, W: 80, H: 80}, Embedding: []float64{0, 1}},
		RepresentResult{FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 120}, Embedding: []float64{1, 0}},
	))

	boxes := []domain.BoundingBox{
		{Left: 12, Top: 22, Right: 110, Bottom: 138},
		{Left: 200, Top: 30, Right: 280, Bottom: 110},
	}

	encs, err := p.ComputeEncodings(context.Background(), testImage(), boxes)
	require.NoError(t, err)

	assert.Equal(t, []domain.Encoding{{1, 0}, {0, 1}}, encs)
}

func TestProvider_ComputeEncodings_UnknownBox(t *testing.T) {
	p := newTestProvider(t, respondFaces(
		RepresentResult{FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 120}, Embedding: []float64{1, 0}},
	))

	boxes := []domain.BoundingBox{{Left: 250, Top: 150, Right: 300, Bottom: 200}}

	_, err := p.ComputeEncodings(context.Background(), testImage(), boxes)
	assert.ErrorIs(t, err, ErrNoFaceInResponse)
}

func TestProvider_ComputeEncodings_NoBoxes(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})

	encs, err := p.ComputeEncodings(context.Background(), testImage(), nil)
	require.NoError(t, err)
	assert.Empty(t, encs)
}

func TestProvider_Ping(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := p.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrEncoderUnavailable)
}

func TestProvider_Describe_SingleRequest(t *testing.T) {
	var calls atomic.Int32
	faces := respondFaces(
		RepresentResult{FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 120}, Embedding: []float64{1, 0}},
		RepresentResult{FacialArea: FacialArea{X: 200, Y: 30, W: 80, H: 80}, Embedding: []float64{0, 1}},
	)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		faces(w, r)
	})

	boxes, encs, err := provider.Describe(context.Background(), p, testImage(), 0)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []domain.BoundingBox{
		{Left: 10, Top: 20, Right: 110, Bottom: 140},
		{Left: 200, Top: 30, Right: 280, Bottom: 110},
	}, boxes)
	assert.Equal(t, []domain.Encoding{{1, 0}, {0, 1}}, encs)
}

func TestProvider_Describe_NoFace(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Face could not be detected. Please confirm that the picture is a face photo."}`))
	})

	boxes, encs, err := p.Describe(context.Background(), testImage())
	require.NoError(t, err)
	assert.Empty(t, boxes)
	assert.Empty(t, encs)
}

func TestProvider_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		normalize bool
		embedding []float64
		want      domain.Encoding
	}{
		{"raw embedding by default", false, []float64{3, 4}, domain.Encoding{3, 4}},
		{"unit length when enabled", true, []float64{3, 4}, domain.Encoding{0.6, 0.8}},
		{"zero vector untouched", true, []float64{0, 0}, domain.Encoding{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(respondFaces(
				RepresentResult{FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 120}, Embedding: tt.embedding},
			))
			t.Cleanup(server.Close)

			config := DefaultConfig()
			config.BaseURL = server.URL
			config.RetryCount = 0
			config.Normalize = tt.normalize
			p := NewProvider(config)

			_, encs, err := p.Describe(context.Background(), testImage())
			require.NoError(t, err)
			require.Len(t, encs, 1)
			assert.InDeltaSlice(t, tt.want, encs[0], 1e-9)

			boxes := []domain.BoundingBox{{Left: 10, Top: 20, Right: 110, Bottom: 140}}
			byBox, err := p.ComputeEncodings(context.Background(), testImage(), boxes)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, byBox[0], 1e-9)
		})
	}
}
