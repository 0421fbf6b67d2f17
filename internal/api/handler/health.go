package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 3 * time.Second

// Check is one dependency checked by Ready.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	version string
	checks  []Check
}

func NewHealthHandler(version string, checks ...Check) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready reports 503 when any dependency check fails.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready"}
	status := fiber.StatusOK

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			resp.Checks[check.Name] = err.Error()
			resp.Status = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	return c.Status(status).JSON(resp)
}
