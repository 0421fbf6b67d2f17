// Package face wires the encoder and gallery store selected by configuration.
package face

import (
	"fmt"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider/deepface"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider/dlib"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider/mock"
)

// NewEncoder creates the Encoder named by cfg.Encoder.
//
// Environment variables:
//   - ENCODER: "deepface", "mock" or "dlib" (default: "deepface")
//   - DEEPFACE_URL, DEEPFACE_MODEL, DEEPFACE_DETECTOR, DEEPFACE_TIMEOUT, DEEPFACE_RETRIES
//   - DLIB_MODELS_DIR: directory of the dlib model files (binary built with -tags dlib)
func NewEncoder(cfg *config.Config) (provider.Encoder, error) {
	switch cfg.Encoder {
	case config.EncoderDeepFace, "":
		return createDeepFaceEncoder(cfg), nil

	case config.EncoderMock:
		return mock.New(), nil

	case config.EncoderDlib:
		enc, err := dlib.New(cfg.DlibModelsDir)
		if err != nil {
			return nil, fmt.Errorf("create dlib encoder: %w", err)
		}
		return enc, nil

	default:
		return nil, fmt.Errorf("unknown encoder: %s (supported: %s, %s, %s)",
			cfg.Encoder, config.EncoderDeepFace, config.EncoderMock, config.EncoderDlib)
	}
}

func createDeepFaceEncoder(cfg *config.Config) provider.Encoder {
	dfConfig := deepface.DefaultConfig()

	if cfg.DeepFaceURL != "" {
		dfConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceModel != "" {
		dfConfig.Model = cfg.DeepFaceModel
	}
	if cfg.DeepFaceDetector != "" {
		dfConfig.Detector = cfg.DeepFaceDetector
	}
	if cfg.DeepFaceTimeout > 0 {
		dfConfig.Timeout = cfg.DeepFaceTimeout
	}
	if cfg.DeepFaceRetries >= 0 {
		dfConfig.RetryCount = cfg.DeepFaceRetries
	}

	dfConfig.Normalize = cfg.DeepFaceNormalize

	return deepface.NewProvider(dfConfig)
}
