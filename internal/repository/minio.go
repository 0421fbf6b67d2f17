package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// ObjectStoreConfig locates the snapshot object in an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	UseSSL    bool
}

// ObjectStore keeps the gallery snapshot as a single object in MinIO or any
// S3-compatible store. A PutObject either fully replaces the object or leaves
// the previous version in place.
type ObjectStore struct {
	client *minio.Client
	bucket string
	key    string
}

var _ GalleryStore = (*ObjectStore)(nil)

// NewObjectStore wraps an existing client.
func NewObjectStore(client *minio.Client, bucket, key string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, key: key}
}

// DialObjectStore builds a MinIO client from cfg.
func DialObjectStore(cfg ObjectStoreConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewObjectStore(client, cfg.Bucket, cfg.Key), nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("check bucket %s: %w", s.bucket, err))
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("create bucket %s: %w", s.bucket, err))
	}
	return nil
}

func (s *ObjectStore) Load(ctx context.Context) (*domain.Gallery, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.storageError("get", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.storageError("read", err)
	}
	return UnmarshalGallery(data)
}

func (s *ObjectStore) Save(ctx context.Context, g *domain.Gallery) error {
	data, err := MarshalGallery(g)
	if err != nil {
		return fmt.Errorf("marshal gallery: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/zstd",
	})
	if err != nil {
		return s.storageError("put", err)
	}
	return nil
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("ping %s: %w", s.bucket, err))
	}
	if !ok {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("bucket %s does not exist", s.bucket))
	}
	return nil
}

func (s *ObjectStore) storageError(op string, err error) error {
	if isNoSuchKey(err) {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("no gallery at %s/%s", s.bucket, s.key))
	}
	return domain.ErrStorageUnavailable.WithError(fmt.Errorf("%s %s/%s: %w", op, s.bucket, s.key, err))
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
