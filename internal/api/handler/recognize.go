package handler

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

// RecognizeHandler serves the recognition endpoints.
type RecognizeHandler struct {
	service   RecognitionService
	observer  Observer
	tolerance float64
	maxUpload int
	logger    *slog.Logger
}

func NewRecognizeHandler(service RecognitionService, observer Observer, tolerance float64, maxUpload int, logger *slog.Logger) *RecognizeHandler {
	return &RecognizeHandler{
		service:   service,
		observer:  observer,
		tolerance: tolerance,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// RecognizeResponse is the JSON body of POST /v1/recognize.
type RecognizeResponse struct {
	Name  string              `json:"name"`
	ID    string              `json:"id"`
	Faces []domain.FaceResult `json:"faces"`
}

// Recognize POST /v1/recognize - identify every face in an uploaded image
func (h *RecognizeHandler) Recognize(c *fiber.Ctx) error {
	rec, err := h.recognize(c)
	if err != nil {
		return err
	}

	return c.JSON(RecognizeResponse{
		Name:  rec.Name,
		ID:    rec.ID,
		Faces: rec.Faces,
	})
}

// Annotated POST /v1/recognize/annotated - same as Recognize, responds with
// the annotated image as JPEG
func (h *RecognizeHandler) Annotated(c *fiber.Ctx) error {
	rec, err := h.recognize(c)
	if err != nil {
		return err
	}

	data, err := imaging.EncodeJPEG(rec.Annotated)
	if err != nil {
		return domain.ErrInternal.WithError(fmt.Errorf("encode annotated image: %w", err))
	}

	c.Set("X-Person-Name", rec.Name)
	c.Set("X-Person-Id", rec.ID)
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

func (h *RecognizeHandler) recognize(c *fiber.Ctx) (*domain.Recognition, error) {
	tol, err := tolerance(c, h.tolerance)
	if err != nil {
		return nil, err
	}

	img, err := extractImage(c, h.maxUpload)
	if err != nil {
		return nil, err
	}

	rec, err := h.service.Recognize(c.UserContext(), img, tol)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	h.observer.ObserveRecognition(rec)

	h.logger.Debug("image recognized",
		slog.Int("faces", len(rec.Faces)),
		slog.String("name", rec.Name),
		slog.Float64("tolerance", tol),
	)
	return rec, nil
}
