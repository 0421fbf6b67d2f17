package handler

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

// GalleryHandler serves whole-gallery operations.
type GalleryHandler struct {
	service    GalleryService
	publisher  Publisher
	observer   Observer
	datasetDir string
	logger     *slog.Logger
}

func NewGalleryHandler(service GalleryService, publisher Publisher, observer Observer, datasetDir string, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		service:    service,
		publisher:  publisher,
		observer:   observer,
		datasetDir: datasetDir,
		logger:     logger,
	}
}

// RebuildResponse is the JSON body of POST /v1/gallery/rebuild.
type RebuildResponse struct {
	Count int `json:"count"`
}

// Rebuild POST /v1/gallery/rebuild - re-index the configured dataset
// directory, replacing the stored gallery
func (h *GalleryHandler) Rebuild(c *fiber.Ctx) error {
	logger := h.logger.With(slog.String("dir", h.datasetDir))

	g, err := h.service.Rebuild(c.UserContext(), h.datasetDir, service.WithProgress(func(done, total int, file string) {
		logger.Debug("source encoded", slog.Int("done", done), slog.Int("total", total), slog.String("file", file))
	}))
	h.observer.ObserveGalleryOp("rebuild", err)
	if err != nil {
		return fmt.Errorf("rebuild gallery: %w", err)
	}

	logger.Info("gallery rebuilt", slog.Int("count", g.Len()))
	h.publisher.Publish(ws.EventGalleryRebuilt, ws.RebuildData{Count: g.Len()})

	return c.JSON(RebuildResponse{Count: g.Len()})
}
