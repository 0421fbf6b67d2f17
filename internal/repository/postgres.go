package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

// PostgresStore keeps one row per person in gallery_records and a single
// gallery_meta row recording how many rows the last save wrote. Encodings are
// stored as pgvector vectors, so they round-trip at float32 precision.
type PostgresStore struct {
	pool PgxPool
}

var _ GalleryStore = (*PostgresStore)(nil)

func NewPostgresStore(pool PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) (*domain.Gallery, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT record_count FROM gallery_meta WHERE id = 1`).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStorageUnavailable.WithError(errors.New("no gallery saved"))
	}
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("read gallery meta: %w", err))
	}

	query := `
		SELECT idx, person_id, name, image, encoding
		FROM gallery_records
		ORDER BY idx
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("query gallery records: %w", err))
	}
	defer rows.Close()

	g := domain.NewGallery()
	for rows.Next() {
		var rec domain.PersonRecord
		var img []byte
		var embedding *pgvector.Vector

		if err := rows.Scan(&rec.Index, &rec.ID, &rec.Name, &img, &embedding); err != nil {
			return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("scan gallery record: %w", err))
		}

		if embedding != nil && embedding.Slice() != nil {
			rec.Encoding = make(domain.Encoding, len(embedding.Slice()))
			for i, v := range embedding.Slice() {
				rec.Encoding[i] = float64(v)
			}
		}
		if len(img) > 0 {
			decoded, _, err := imaging.Decode(img)
			if err != nil {
				return nil, domain.ErrStorageUnavailable.WithError(
					fmt.Errorf("decode image for %q: %w", rec.ID, err))
			}
			rec.Image = decoded
		}

		if err := g.Put(rec); err != nil {
			return nil, domain.ErrStorageUnavailable.WithError(err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("iterate gallery records: %w", err))
	}

	if g.Len() != count {
		return nil, domain.ErrStorageUnavailable.WithError(
			fmt.Errorf("gallery meta expects %d records, found %d", count, g.Len()))
	}
	return g, nil
}

// Save replaces every stored record inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, g *domain.Gallery) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("begin save: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM gallery_records`); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("clear gallery records: %w", err))
	}

	insert := `
		INSERT INTO gallery_records (idx, person_id, name, image, encoding)
		VALUES ($1, $2, $3, $4, $5)
	`

	records := g.Records()
	for _, rec := range records {
		var img []byte
		if rec.Image != nil {
			img, err = imaging.EncodePNG(rec.Image)
			if err != nil {
				return fmt.Errorf("encode image for %q: %w", rec.ID, err)
			}
		}

		if _, err := tx.Exec(ctx, insert, rec.Index, rec.ID, rec.Name, img, toVector(rec.Encoding)); err != nil {
			return domain.ErrStorageUnavailable.WithError(fmt.Errorf("insert gallery record %d: %w", rec.Index, err))
		}
	}

	upsert := `
		INSERT INTO gallery_meta (id, record_count, saved_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET record_count = EXCLUDED.record_count, saved_at = EXCLUDED.saved_at
	`
	if _, err := tx.Exec(ctx, upsert, len(records)); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("update gallery meta: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("commit save: %w", err))
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("ping database: %w", err))
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func toVector(enc domain.Encoding) *pgvector.Vector {
	if len(enc) == 0 {
		return nil
	}
	floats := make([]float32, len(enc))
	for i, v := range enc {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)
	return &vec
}
