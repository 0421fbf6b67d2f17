package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

func recordRows(t *testing.T, g *domain.Gallery) *pgxmock.Rows {
	t.Helper()

	rows := pgxmock.NewRows([]string{"idx", "person_id", "name", "image", "encoding"})
	for _, rec := range g.Records() {
		img, err := imaging.EncodePNG(rec.Image)
		require.NoError(t, err)
		rows.AddRow(rec.Index, rec.ID, rec.Name, img, toVector(rec.Encoding))
	}
	return rows
}

func TestPostgresStore_Load(t *testing.T) {
	want := sampleGallery(t)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantLen   int
		wantErr   error
	}{
		{
			name: "loads every record",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT record_count FROM gallery_meta WHERE id = 1`).
					WillReturnRows(pgxmock.NewRows([]string{"record_count"}).AddRow(3))
				mock.ExpectQuery(`SELECT idx, person_id, name, image, encoding FROM gallery_records ORDER BY idx`).
					WillReturnRows(recordRows(t, want))
			},
			wantLen: 3,
		},
		{
			name: "never saved",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT record_count FROM gallery_meta`).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrStorageUnavailable,
		},
		{
			name: "connection error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT record_count FROM gallery_meta`).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: domain.ErrStorageUnavailable,
		},
		{
			name: "record count mismatch",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT record_count FROM gallery_meta`).
					WillReturnRows(pgxmock.NewRows([]string{"record_count"}).AddRow(5))
				mock.ExpectQuery(`FROM gallery_records`).
					WillReturnRows(recordRows(t, want))
			},
			wantErr: domain.ErrStorageUnavailable,
		},
		{
			name: "undecodable image",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT record_count FROM gallery_meta`).
					WillReturnRows(pgxmock.NewRows([]string{"record_count"}).AddRow(1))
				vec := pgvector.NewVector([]float32{1, 2})
				mock.ExpectQuery(`FROM gallery_records`).
					WillReturnRows(pgxmock.NewRows([]string{"idx", "person_id", "name", "image", "encoding"}).
						AddRow(0, "alice", "Alice", []byte("not a png"), &vec))
			},
			wantErr: domain.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			store := NewPostgresStore(mock)
			got, err := store.Load(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantLen, got.Len())
				assert.Equal(t, want.Records(), got.Records())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_Save(t *testing.T) {
	g := sampleGallery(t)
	g.Remove(1)

	t.Run("replaces records in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM gallery_records`).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		for _, rec := range g.Records() {
			img, err := imaging.EncodePNG(rec.Image)
			require.NoError(t, err)
			mock.ExpectExec(`INSERT INTO gallery_records`).
				WithArgs(rec.Index, rec.ID, rec.Name, img, pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mock.ExpectExec(`INSERT INTO gallery_meta`).
			WithArgs(2).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, NewPostgresStore(mock).Save(context.Background(), g))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when an insert fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM gallery_records`).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO gallery_records`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = NewPostgresStore(mock).Save(context.Background(), g)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "insert gallery record 0")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is storage unavailable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err = NewPostgresStore(mock).Save(context.Background(), g)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_ExecFailuresAreStorageUnavailable(t *testing.T) {
	g := sampleGallery(t)

	t.Run("clear fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM gallery_records`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err = NewPostgresStore(mock).Save(context.Background(), g)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("meta update fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM gallery_records`).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		for range g.Records() {
			mock.ExpectExec(`INSERT INTO gallery_records`).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mock.ExpectExec(`INSERT INTO gallery_meta`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnError(errors.New("read-only transaction"))
		mock.ExpectRollback()

		err = NewPostgresStore(mock).Save(context.Background(), g)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "update gallery meta")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	store := NewPostgresStore(mock)
	assert.NoError(t, store.Ping(context.Background()))
	assert.ErrorIs(t, store.Ping(context.Background()), domain.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToVector(t *testing.T) {
	assert.Nil(t, toVector(nil))

	vec := toVector(domain.Encoding{0.5, -1, 2})
	require.NotNil(t, vec)
	assert.Equal(t, []float32{0.5, -1, 2}, vec.Slice())
}
