package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// GalleryStore persists the whole gallery as one unit.
//
// Load fails with domain.ErrStorageUnavailable when no gallery has been saved
// yet or the stored state cannot be decoded. Save replaces the stored gallery
// atomically.
type GalleryStore interface {
	Load(ctx context.Context) (*domain.Gallery, error)
	Save(ctx context.Context, g *domain.Gallery) error
}

// PgxPool is the subset of *pgxpool.Pool the postgres store needs.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
