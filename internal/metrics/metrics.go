// Package metrics exposes prometheus collectors for recognition, gallery
// operations, encoder latency and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

const namespace = "identifyme"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	recognitions    *prometheus.CounterVec
	facesDetected   prometheus.Counter
	galleryOps      *prometheus.CounterVec
	galleryRecords  prometheus.Gauge
	encoderDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recognitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognitions_total",
			Help:      "Faces matched against the gallery, by result (matched or unknown).",
		}, []string{"result"}),
		facesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faces_detected_total",
			Help:      "Faces detected in recognition requests.",
		}),
		galleryOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gallery_operations_total",
			Help:      "Gallery mutations by operation and result.",
		}, []string{"op", "result"}),
		galleryRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gallery_records",
			Help:      "Records in the stored gallery at the last sample.",
		}),
		encoderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encoder_duration_seconds",
			Help:      "Latency of encoder calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		m.recognitions,
		m.facesDetected,
		m.galleryOps,
		m.galleryRecords,
		m.encoderDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRecognition counts the faces of one recognition and their results.
func (m *Metrics) ObserveRecognition(rec *domain.Recognition) {
	m.facesDetected.Add(float64(len(rec.Faces)))
	for _, f := range rec.Faces {
		if f.Match.Matched() {
			m.recognitions.WithLabelValues("matched").Inc()
		} else {
			m.recognitions.WithLabelValues("unknown").Inc()
		}
	}
}

// ObserveGalleryOp counts one gallery operation. result is "ok" for a nil
// error, the AppError code in lower case otherwise.
func (m *Metrics) ObserveGalleryOp(op string, err error) {
	m.galleryOps.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Metrics) SetGalleryRecords(n int) {
	m.galleryRecords.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
