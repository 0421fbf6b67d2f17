package face

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/database"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
)

// NewStore opens the gallery store named by cfg.GalleryBackend. The postgres
// backend expects the schema to be migrated already (see cmd/migrate).
func NewStore(ctx context.Context, cfg *config.Config) (repository.GalleryStore, error) {
	switch cfg.GalleryBackend {
	case config.BackendFile, "":
		if err := os.MkdirAll(filepath.Dir(cfg.GalleryPath), 0o755); err != nil {
			return nil, fmt.Errorf("create gallery directory: %w", err)
		}
		return repository.NewFileStore(cfg.GalleryPath), nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("open postgres gallery: %w", err)
		}
		return repository.NewPostgresStore(pool), nil

	case config.BackendMinio:
		store, err := repository.DialObjectStore(repository.ObjectStoreConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Key:       cfg.MinioObjectKey,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("open minio gallery: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("open minio gallery: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown gallery backend: %s (supported: %s, %s, %s)",
			cfg.GalleryBackend, config.BackendFile, config.BackendPostgres, config.BackendMinio)
	}
}
