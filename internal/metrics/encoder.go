package metrics

import (
	"context"
	"image"
	"time"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
)

type instrumentedEncoder struct {
	next    provider.Encoder
	metrics *Metrics
}

type instrumentedDescriber struct {
	*instrumentedEncoder
	describer provider.Describer
}

// InstrumentEncoder wraps enc so every call is timed in
// identifyme_encoder_duration_seconds. The wrapper is a provider.Describer
// when enc is.
func (m *Metrics) InstrumentEncoder(enc provider.Encoder) provider.Encoder {
	ie := &instrumentedEncoder{next: enc, metrics: m}
	if d, ok := enc.(provider.Describer); ok {
		return &instrumentedDescriber{instrumentedEncoder: ie, describer: d}
	}
	return ie
}

func (e *instrumentedDescriber) Describe(ctx context.Context, img image.Image) ([]domain.BoundingBox, []domain.Encoding, error) {
	defer e.observe("describe", time.Now())
	return e.describer.Describe(ctx, img)
}

func (e *instrumentedEncoder) DetectFaces(ctx context.Context, img image.Image) ([]domain.BoundingBox, error) {
	defer e.observe("detect", time.Now())
	return e.next.DetectFaces(ctx, img)
}

func (e *instrumentedEncoder) ComputeEncodings(ctx context.Context, img image.Image, boxes []domain.BoundingBox) ([]domain.Encoding, error) {
	defer e.observe("encode", time.Now())
	return e.next.ComputeEncodings(ctx, img, boxes)
}

// Ping forwards to the wrapped encoder when it supports health checks.
func (e *instrumentedEncoder) Ping(ctx context.Context) error {
	if hc, ok := e.next.(provider.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}

func (e *instrumentedEncoder) Close() error {
	if c, ok := e.next.(provider.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *instrumentedEncoder) observe(op string, start time.Time) {
	e.metrics.encoderDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
