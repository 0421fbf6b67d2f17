package repository

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image/png"

	"github.com/klauspost/compress/zstd"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

// snapshotVersion is bumped whenever the encoded layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version int
	Records []snapshotRecord
}

type snapshotRecord struct {
	Index    int
	ID       string
	Name     string
	Image    []byte
	Encoding []float64
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	// A single encoder goroutine keeps the output byte-stable across runs.
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic(fmt.Sprintf("zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("zstd decoder: %v", err))
	}
}

// MarshalGallery encodes g as a compressed snapshot. Records are written in
// index order and images as PNG, so an unchanged gallery always produces the
// same bytes.
func MarshalGallery(g *domain.Gallery) ([]byte, error) {
	snap := snapshot{Version: snapshotVersion}
	for _, rec := range g.Records() {
		var img []byte
		if rec.Image != nil {
			var err error
			img, err = imaging.EncodePNG(rec.Image)
			if err != nil {
				return nil, fmt.Errorf("encode image for %q: %w", rec.ID, err)
			}
		}
		snap.Records = append(snap.Records, snapshotRecord{
			Index:    rec.Index,
			ID:       rec.ID,
			Name:     rec.Name,
			Image:    img,
			Encoding: rec.Encoding,
		})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("gob encode snapshot: %w", err)
	}
	return zstdEncoder.EncodeAll(buf.Bytes(), nil), nil
}

// UnmarshalGallery decodes a snapshot written by MarshalGallery. Any decoding
// failure is reported as domain.ErrStorageUnavailable.
func UnmarshalGallery(data []byte) (*domain.Gallery, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("decompress snapshot: %w", err))
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("decode snapshot: %w", err))
	}
	if snap.Version != snapshotVersion {
		return nil, domain.ErrStorageUnavailable.WithError(
			fmt.Errorf("unsupported snapshot version %d", snap.Version))
	}

	g := domain.NewGallery()
	for _, r := range snap.Records {
		rec := domain.PersonRecord{
			Index:    r.Index,
			ID:       r.ID,
			Name:     r.Name,
			Encoding: domain.Encoding(r.Encoding),
		}
		if len(r.Image) > 0 {
			img, err := png.Decode(bytes.NewReader(r.Image))
			if err != nil {
				return nil, domain.ErrStorageUnavailable.WithError(
					fmt.Errorf("decode image for %q: %w", r.ID, err))
			}
			rec.Image = imaging.Normalize(img)
		}
		if err := g.Put(rec); err != nil {
			return nil, domain.ErrStorageUnavailable.WithError(err)
		}
	}
	return g, nil
}
