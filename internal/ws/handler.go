package ws

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/live"
)

// LiveConfig configures the live recognition endpoint.
type LiveConfig struct {
	Recognizer live.Recognizer
	Tolerance  float64
	Logger     *slog.Logger
}

// LiveHandler serves GET /v1/live. Query parameters: tolerance (within
// [0,1], defaults to cfg.Tolerance) and annotate=true.
func LiveHandler(cfg LiveConfig) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		defer func() { _ = c.Close() }()

		sess := NewSession(c, c.Query("annotate") == "true")

		tolerance := cfg.Tolerance
		if raw := c.Query("tolerance"); raw != "" {
			v, err := ParseTolerance(raw)
			if err != nil {
				_ = sess.Fail(err)
				return
			}
			tolerance = v
		}

		_ = Serve(context.Background(), sess, cfg.Recognizer, tolerance, cfg.Logger)
	})
}

// Serve runs the live loop for one session and reports how it ended.
func Serve(ctx context.Context, sess *Session, rec live.Recognizer, tolerance float64, logger *slog.Logger) error {
	logger = logger.With(slog.String("session", sess.ID()))
	logger.Info("live session started", slog.Float64("tolerance", tolerance))

	err := live.Run(ctx, sess, rec, tolerance, sess.Deliver)

	switch {
	case errors.Is(err, domain.ErrCaptureFailure):
		logger.Info("live session ended", slog.String("reason", err.Error()))
		if failErr := sess.Fail(err); failErr != nil {
			logger.Debug("capture failure not delivered", slog.Any("error", failErr))
		}
	case err != nil:
		logger.Warn("live session aborted", slog.Any("error", err))
		_ = sess.Fail(err)
	}
	return err
}

// ParseTolerance parses a tolerance and checks it is within [0,1].
func ParseTolerance(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !domain.ValidTolerance(v) {
		return 0, domain.ErrInvalidTolerance
	}
	return v, nil
}

// EventsHandler serves GET /v1/events: every gallery change published on hub
// is pushed to the client as a JSON text message.
func EventsHandler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		client := &Client{
			hub:  hub,
			conn: c,
			send: make(chan []byte, 64),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = c.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}

func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
