package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code, so copies
// produced by WithError still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrInvalidTolerance = &AppError{
		Code:       "INVALID_TOLERANCE",
		Message:    "Tolerance must be between 0 and 1",
		StatusCode: 422,
	}

	// Gallery errors
	ErrStorageUnavailable = &AppError{
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "Gallery storage is missing or corrupt, rebuild the gallery",
		StatusCode: 503,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrDuplicateID = &AppError{
		Code:       "DUPLICATE_ID",
		Message:    "A person with this id already exists",
		StatusCode: 409,
	}

	ErrPersonNotFound = &AppError{
		Code:       "PERSON_NOT_FOUND",
		Message:    "Person not found",
		StatusCode: 404,
	}

	ErrMalformedSourceFilename = &AppError{
		Code:       "MALFORMED_SOURCE_FILENAME",
		Message:    "Source image filename must look like {id}_{name}.jpg",
		StatusCode: 422,
	}

	// Capture and encoder errors
	ErrCaptureFailure = &AppError{
		Code:       "CAPTURE_FAILURE",
		Message:    "Failed to capture frame from source",
		StatusCode: 502,
	}

	ErrEncoderUnavailable = &AppError{
		Code:       "ENCODER_UNAVAILABLE",
		Message:    "Face encoder is unavailable",
		StatusCode: 503,
	}
)
