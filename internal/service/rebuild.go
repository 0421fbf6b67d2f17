package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

// SourceExtensions are the dataset file types Rebuild reads, compared
// case-insensitively.
var SourceExtensions = []string{".jpg", ".jpeg", ".png"}

// ProgressFunc is called after each dataset file has been encoded.
type ProgressFunc func(done, total int, file string)

type rebuildOptions struct {
	progress ProgressFunc
}

type RebuildOption func(*rebuildOptions)

func WithProgress(fn ProgressFunc) RebuildOption {
	return func(o *rebuildOptions) {
		o.progress = fn
	}
}

// ParseSourceFilename splits a dataset file name of the form
// "{id}_{name parts}.ext" into the id and the space-joined name.
func ParseSourceFilename(filename string) (id, name string, err error) {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return "", "", domain.ErrMalformedSourceFilename.WithError(fmt.Errorf("%s: missing '_' separator", filename))
	}

	id = parts[0]
	name = strings.TrimSpace(strings.Join(parts[1:], " "))
	if id == "" {
		return "", "", domain.ErrMalformedSourceFilename.WithError(fmt.Errorf("%s: empty id", filename))
	}
	if name == "" {
		return "", "", domain.ErrMalformedSourceFilename.WithError(fmt.Errorf("%s: empty name", filename))
	}
	return id, name, nil
}

// ListSources returns the dataset image paths in dir, sorted by file name.
func ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isSourceImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func isSourceImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range SourceExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Rebuild encodes every dataset image in dir into a fresh gallery with dense
// indices in file name order and saves it over the stored one. The first bad
// file aborts the rebuild and nothing is saved.
func (m *GalleryManager) Rebuild(ctx context.Context, dir string, opts ...RebuildOption) (*domain.Gallery, error) {
	var o rebuildOptions
	for _, opt := range opts {
		opt(&o)
	}

	paths, err := ListSources(dir)
	if err != nil {
		return nil, err
	}

	g := domain.NewGallery()
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := m.encodeSource(ctx, path)
		if err != nil {
			return nil, err
		}
		rec.Index = i
		if err := g.Put(rec); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		if o.progress != nil {
			o.progress(i+1, len(paths), filepath.Base(path))
		}
	}

	if err := m.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save gallery: %w", err)
	}
	return g, nil
}

func (m *GalleryManager) encodeSource(ctx context.Context, path string) (domain.PersonRecord, error) {
	file := filepath.Base(path)

	id, name, err := ParseSourceFilename(file)
	if err != nil {
		return domain.PersonRecord{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PersonRecord{}, fmt.Errorf("read %s: %w", file, err)
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return domain.PersonRecord{}, fmt.Errorf("%s: %w", file, err)
	}

	encoding, err := firstEncoding(ctx, m.encoder, img)
	if err != nil {
		if errors.Is(err, domain.ErrNoFaceDetected) {
			return domain.PersonRecord{}, domain.ErrNoFaceDetected.WithError(fmt.Errorf("%s", file))
		}
		return domain.PersonRecord{}, fmt.Errorf("%s: %w", file, err)
	}

	return domain.PersonRecord{
		ID:       id,
		Name:     name,
		Image:    img,
		Encoding: encoding,
	}, nil
}
