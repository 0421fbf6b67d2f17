package metrics

import (
	"errors"
	"strings"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
