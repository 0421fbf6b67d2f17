package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// Gallery backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMinio    = "minio"
)

// Encoders.
const (
	EncoderDeepFace = "deepface"
	EncoderMock     = "mock"
	EncoderDlib     = "dlib"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	MaxUploadMB int    `envconfig:"MAX_UPLOAD_MB" default:"10"`
	ConfigFile  string `envconfig:"CONFIG_FILE"`

	// Gallery
	GalleryBackend string  `envconfig:"GALLERY_BACKEND" default:"file"`
	GalleryPath    string  `envconfig:"GALLERY_PATH" default:"data/gallery.db"`
	DatasetDir     string  `envconfig:"DATASET_DIR" default:"data/dataset"`
	Tolerance      float64 `envconfig:"TOLERANCE" default:"0.5"`

	// UI prompts
	PicturePrompt string `envconfig:"PICTURE_PROMPT" default:"Upload a picture to identify the people in it."`
	WebcamPrompt  string `envconfig:"WEBCAM_PROMPT" default:"Start the webcam to identify people live."`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Object store
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"identifyme"`
	MinioObjectKey string `envconfig:"MINIO_OBJECT_KEY" default:"gallery.db"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	// Encoder
	Encoder           string        `envconfig:"ENCODER" default:"deepface"`
	DeepFaceURL       string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceModel     string        `envconfig:"DEEPFACE_MODEL" default:"Dlib"`
	DeepFaceDetector  string        `envconfig:"DEEPFACE_DETECTOR" default:"retinaface"`
	DeepFaceTimeout   time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s"`
	DeepFaceRetries   int           `envconfig:"DEEPFACE_RETRIES" default:"3"`
	DeepFaceNormalize bool          `envconfig:"DEEPFACE_NORMALIZE" default:"false"`
	DlibModelsDir     string        `envconfig:"DLIB_MODELS_DIR" default:"models"`

	// Metrics
	MetricsSampleInterval time.Duration `envconfig:"METRICS_SAMPLE_INTERVAL" default:"1m"`
}

// fileConfig is the YAML layout of CONFIG_FILE.
type fileConfig struct {
	Path struct {
		DatasetDir string `yaml:"DATASET_DIR"`
		PklPath    string `yaml:"PKL_PATH"`
	} `yaml:"PATH"`
	Info struct {
		PicturePrompt string `yaml:"PICTURE_PROMPT"`
		WebcamPrompt  string `yaml:"WEBCAM_PROMPT"`
	} `yaml:"INFO"`
	Recognition struct {
		Tolerance *float64 `yaml:"TOLERANCE"`
	} `yaml:"RECOGNITION"`
}

// Load reads an optional .env file, the environment and an optional YAML
// file named by CONFIG_FILE. An explicitly set environment variable wins over
// the YAML file, which wins over the defaults.
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	overlay(&c.DatasetDir, "DATASET_DIR", fc.Path.DatasetDir)
	overlay(&c.GalleryPath, "GALLERY_PATH", fc.Path.PklPath)
	overlay(&c.PicturePrompt, "PICTURE_PROMPT", fc.Info.PicturePrompt)
	overlay(&c.WebcamPrompt, "WEBCAM_PROMPT", fc.Info.WebcamPrompt)
	if fc.Recognition.Tolerance != nil && !isSet("TOLERANCE") {
		c.Tolerance = *fc.Recognition.Tolerance
	}
	return nil
}

func overlay(dst *string, env, value string) {
	if value != "" && !isSet(env) {
		*dst = value
	}
}

func isSet(env string) bool {
	_, ok := os.LookupEnv(env)
	return ok
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.GalleryBackend {
	case BackendFile:
		if c.GalleryPath == "" {
			errs = append(errs, errors.New("GALLERY_PATH is required for the file backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendMinio:
		if c.MinioEndpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GALLERY_BACKEND %q", c.GalleryBackend))
	}

	switch c.Encoder {
	case EncoderDeepFace, EncoderMock, EncoderDlib:
	default:
		errs = append(errs, fmt.Errorf("unknown ENCODER %q", c.Encoder))
	}

	if !domain.ValidTolerance(c.Tolerance) {
		errs = append(errs, fmt.Errorf("TOLERANCE %v is outside [0, 1]", c.Tolerance))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}

	return errors.Join(errs...)
}

func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
