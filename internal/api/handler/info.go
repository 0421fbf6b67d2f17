package handler

import (
	"github.com/gofiber/fiber/v2"
)

// InfoResponse bootstraps a UI with its prompts and the default tolerance.
type InfoResponse struct {
	PicturePrompt string  `json:"picture_prompt"`
	WebcamPrompt  string  `json:"webcam_prompt"`
	Tolerance     float64 `json:"tolerance"`
}

type InfoHandler struct {
	info InfoResponse
}

func NewInfoHandler(info InfoResponse) *InfoHandler {
	return &InfoHandler{info: info}
}

// Info GET /v1/info
func (h *InfoHandler) Info(c *fiber.Ctx) error {
	return c.JSON(h.info)
}
