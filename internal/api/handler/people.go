package handler

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

// PeopleHandler serves gallery record CRUD.
type PeopleHandler struct {
	service   GalleryService
	publisher Publisher
	observer  Observer
	maxUpload int
	logger    *slog.Logger
}

func NewPeopleHandler(service GalleryService, publisher Publisher, observer Observer, maxUpload int, logger *slog.Logger) *PeopleHandler {
	return &PeopleHandler{
		service:   service,
		publisher: publisher,
		observer:  observer,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// List GET /v1/people
func (h *PeopleHandler) List(c *fiber.Ctx) error {
	records, err := h.service.List(c.UserContext())
	if err != nil {
		return fmt.Errorf("list people: %w", err)
	}

	resp := make([]PersonResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toPersonResponse(&records[i]))
	}
	return c.JSON(resp)
}

// Get GET /v1/people/:id
func (h *PeopleHandler) Get(c *fiber.Ctx) error {
	rec, err := h.service.Lookup(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toPersonResponse(rec))
}

// Image GET /v1/people/:id/image - the stored reference photo as PNG
func (h *PeopleHandler) Image(c *fiber.Ctx) error {
	rec, err := h.service.Lookup(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if rec.Image == nil {
		return domain.ErrNotFound.WithError(fmt.Errorf("no image stored for %q", rec.ID))
	}

	data, err := imaging.EncodePNG(rec.Image)
	if err != nil {
		return domain.ErrInternal.WithError(fmt.Errorf("encode image: %w", err))
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// Create POST /v1/people - add a person from multipart name, id and image
func (h *PeopleHandler) Create(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	id := strings.TrimSpace(c.FormValue("id"))
	if name == "" || id == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name and id are required"))
	}

	img, err := extractImage(c, h.maxUpload)
	if err != nil {
		return err
	}

	rec, err := h.service.AddOrUpdate(c.UserContext(), addRequest(name, id, img, nil))
	h.observer.ObserveGalleryOp("add", err)
	if err != nil {
		return err
	}

	h.logger.Info("person added", slog.String("id", rec.ID), slog.Int("index", rec.Index))
	h.publisher.Publish(ws.EventPersonAdded, toPersonData(rec))

	return c.Status(fiber.StatusCreated).JSON(toPersonResponse(rec))
}

// Update PUT /v1/people/:id - replace name, id or image of an existing
// record in place. Omitted fields keep their current value.
func (h *PeopleHandler) Update(c *fiber.Ctx) error {
	current, err := h.service.Lookup(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = current.Name
	}
	id := strings.TrimSpace(c.FormValue("id"))
	if id == "" {
		id = current.ID
	}

	var img image.Image
	if current.Image != nil {
		img = current.Image
	}
	upload, err := optionalImage(c, h.maxUpload)
	if err != nil {
		return err
	}
	if upload != nil {
		img = upload
	}

	index := current.Index
	rec, err := h.service.AddOrUpdate(c.UserContext(), addRequest(name, id, img, &index))
	h.observer.ObserveGalleryOp("update", err)
	if err != nil {
		return err
	}

	h.logger.Info("person updated", slog.String("id", rec.ID), slog.Int("index", rec.Index))
	h.publisher.Publish(ws.EventPersonUpdated, toPersonData(rec))

	return c.JSON(toPersonResponse(rec))
}

// Delete DELETE /v1/people/:id
func (h *PeopleHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	current, err := h.service.Lookup(c.UserContext(), id)
	if err != nil {
		return err
	}

	removed, err := h.service.Delete(c.UserContext(), id)
	h.observer.ObserveGalleryOp("delete", err)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrPersonNotFound.WithError(fmt.Errorf("id %q", id))
	}

	h.logger.Info("person deleted", slog.String("id", id), slog.Int("index", current.Index))
	h.publisher.Publish(ws.EventPersonDeleted, toPersonData(current))

	return c.SendStatus(fiber.StatusNoContent)
}
