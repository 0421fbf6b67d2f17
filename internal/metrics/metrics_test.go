package metrics

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

func TestMetrics_ObserveRecognition(t *testing.T) {
	m := New()
	idx := 0
	m.ObserveRecognition(&domain.Recognition{Faces: []domain.FaceResult{
		{Match: domain.MatchResult{Name: "Alice", MatchedIndex: &idx}},
		{Match: domain.Unknown()},
		{Match: domain.Unknown()},
	}})

	assert.Equal(t, float64(3), testutil.ToFloat64(m.facesDetected))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recognitions.WithLabelValues("matched")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.recognitions.WithLabelValues("unknown")))
}

func TestMetrics_ObserveGalleryOp(t *testing.T) {
	m := New()
	m.ObserveGalleryOp("add", nil)
	m.ObserveGalleryOp("add", domain.ErrDuplicateID.WithError(errors.New("id \"a1\"")))
	m.ObserveGalleryOp("delete", errors.New("disk on fire"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.galleryOps.WithLabelValues("add", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.galleryOps.WithLabelValues("add", "duplicate_id")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.galleryOps.WithLabelValues("delete", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", 200)
	m.SetGalleryRecords(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `identifyme_http_requests_total{method="GET",status="200"} 1`)
	assert.Contains(t, body, "identifyme_gallery_records 7")
}

type slowEncoder struct{}

func (slowEncoder) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	time.Sleep(time.Millisecond)
	return []domain.BoundingBox{{Right: 1, Bottom: 1}}, nil
}

func (slowEncoder) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	return []domain.Encoding{{1}}, nil
}

func TestInstrumentEncoder(t *testing.T) {
	m := New()
	enc := m.InstrumentEncoder(slowEncoder{})

	boxes, err := enc.DetectFaces(context.Background(), nil)
	require.NoError(t, err)
	_, err = enc.ComputeEncodings(context.Background(), nil, boxes)
	require.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.encoderDuration))

	_, ok := enc.(provider.Describer)
	assert.False(t, ok, "plain encoders stay plain")
}

type describingEncoder struct{ slowEncoder }

func (describingEncoder) Describe(ctx context.Context, img image.Image) ([]domain.BoundingBox, []domain.Encoding, error) {
	return []domain.BoundingBox{{Right: 1, Bottom: 1}}, []domain.Encoding{{1}}, nil
}

func TestInstrumentEncoder_Describer(t *testing.T) {
	m := New()
	enc := m.InstrumentEncoder(describingEncoder{})

	_, ok := enc.(provider.Describer)
	require.True(t, ok)

	boxes, encs, err := provider.Describe(context.Background(), enc, nil, 0)
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
	assert.Len(t, encs, 1)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var ops []string
	for _, f := range families {
		if f.GetName() != "identifyme_encoder_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				ops = append(ops, l.GetValue())
			}
			assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
		}
	}
	assert.Equal(t, []string{"describe"}, ops, "one describe call, no detect or encode")
}

type stubLoader struct {
	g   *domain.Gallery
	err error
}

func (s stubLoader) Load(ctx context.Context) (*domain.Gallery, error) {
	return s.g, s.err
}

func TestAggregator_SamplesGallery(t *testing.T) {
	g := domain.NewGallery()
	require.NoError(t, g.Put(domain.PersonRecord{Index: 0, ID: "a", Name: "A", Encoding: domain.Encoding{1}}))
	require.NoError(t, g.Put(domain.PersonRecord{Index: 4, ID: "b", Name: "B", Encoding: domain.Encoding{2}}))

	m := New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := NewAggregator(stubLoader{g: g}, m, logger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		agg.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.galleryRecords) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestAggregator_LoadFailureKeepsLastValue(t *testing.T) {
	m := New()
	m.SetGalleryRecords(5)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := NewAggregator(stubLoader{err: domain.ErrStorageUnavailable}, m, logger, 0)

	agg.sample(context.Background())
	assert.Equal(t, float64(5), testutil.ToFloat64(m.galleryRecords))
	assert.Equal(t, time.Minute, agg.interval)
}
