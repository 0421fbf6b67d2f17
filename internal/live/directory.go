package live

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

var frameExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

// DirectorySource replays the image files of a directory in name order and
// then reports io.EOF.
type DirectorySource struct {
	paths []string
	pos   int
}

var _ FrameSource = (*DirectorySource)(nil)

func NewDirectorySource(dir string) (*DirectorySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return &DirectorySource{paths: paths}, nil
}

func (s *DirectorySource) Len() int {
	return len(s.paths)
}

func (s *DirectorySource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.pos]
	s.pos++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *DirectorySource) Close() error {
	s.pos = len(s.paths)
	return nil
}
