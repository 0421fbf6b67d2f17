package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// GalleryLoader is satisfied by every repository.GalleryStore.
type GalleryLoader interface {
	Load(ctx context.Context) (*domain.Gallery, error)
}

// Aggregator periodically samples the stored gallery into the
// identifyme_gallery_records gauge.
type Aggregator struct {
	store    GalleryLoader
	metrics  *Metrics
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
}

func NewAggregator(store GalleryLoader, m *Metrics, logger *slog.Logger, interval time.Duration) *Aggregator {
	if interval == 0 {
		interval = 1 * time.Minute
	}

	return &Aggregator{
		store:    store,
		metrics:  m,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start samples once immediately and then on every tick until ctx is done or
// Stop is called.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("gallery sampler started", "interval", a.interval)
	a.sample(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("gallery sampler stopped")
			return
		case <-a.done:
			a.logger.Info("gallery sampler stopped")
			return
		case <-ticker.C:
			a.sample(ctx)
		}
	}
}

func (a *Aggregator) Stop() {
	close(a.done)
}

func (a *Aggregator) sample(ctx context.Context) {
	g, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Warn("gallery sample failed", "error", err)
		return
	}
	a.metrics.SetGalleryRecords(g.Len())
	a.logger.Debug("gallery sampled", "records", g.Len())
}
