package handler

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

const imageField = "image"

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/gif":  true,
}

// extractImage reads and decodes the multipart "image" field. A missing
// field is reported as ErrValidationFailed.
func extractImage(c *fiber.Ctx, maxBytes int) (*image.RGBA, error) {
	file, err := c.FormFile(imageField)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("%s is required", imageField))
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("empty upload"))
	}
	if maxBytes > 0 && file.Size > int64(maxBytes) {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("upload of %d bytes exceeds %d", file.Size, maxBytes))
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("unsupported content type %q", contentType))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// optionalImage is extractImage for update requests: an absent field
// yields nil.
func optionalImage(c *fiber.Ctx, maxBytes int) (*image.RGBA, error) {
	if _, err := c.FormFile(imageField); err != nil {
		return nil, nil
	}
	return extractImage(c, maxBytes)
}

// tolerance reads the tolerance form field or query parameter, falling back
// to def.
func tolerance(c *fiber.Ctx, def float64) (float64, error) {
	raw := c.FormValue("tolerance")
	if raw == "" {
		raw = c.Query("tolerance")
	}
	if raw == "" {
		return def, nil
	}
	return ws.ParseTolerance(raw)
}
