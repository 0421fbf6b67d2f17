package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider/mock"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
)

// testBuilder returns a Builder over store with the mock encoder and counts
// how many Apps were closed.
func testBuilder(store repository.GalleryStore, closed *int) Builder {
	return func(ctx context.Context, stderr io.Writer) (*App, error) {
		enc := mock.New()
		return &App{
			Config: &config.Config{
				Environment: "test",
				Tolerance:   0.5,
				DatasetDir:  "does-not-exist",
			},
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
			Gallery:    service.NewGalleryManager(store, enc),
			Recognizer: service.NewRecognizer(store, enc),
			close:      func() { *closed++ },
		}, nil
	}
}

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), domain.NewGallery()))
	return store
}

func writeFace(t *testing.T, dir, name string, seed uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x*6) + seed, G: uint8(y*6) ^ seed, B: seed, A: 255})
		}
	}
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, build Builder, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(build)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGalleryCommands(t *testing.T) {
	store := seededStore(t)
	closed := 0
	build := testBuilder(store, &closed)
	dir := t.TempDir()
	alice := writeFace(t, dir, "alice.png", 10)
	bob := writeFace(t, dir, "bob.png", 200)

	out, err := run(t, build, "add", "--name", "Alice", "--id", "a1", "--image", alice)
	require.NoError(t, err)
	assert.Equal(t, "Added Alice (a1) at index 0\n", out)

	_, err = run(t, build, "add", "--name", "Other", "--id", "a1", "--image", bob)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	out, err = run(t, build, "add", "--name", "Bob", "--id", "b2", "--image", bob)
	require.NoError(t, err)
	assert.Contains(t, out, "index 1")

	out, err = run(t, build, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "a1")
	assert.Contains(t, lines[2], "Bob")

	out, err = run(t, build, "update", "--id", "b2", "--name", "Robert")
	require.NoError(t, err)
	assert.Equal(t, "Updated index 1: Robert (b2)\n", out)

	png := filepath.Join(dir, "out.png")
	out, err = run(t, build, "lookup", "--id", "b2", "--out", png)
	require.NoError(t, err)
	assert.Contains(t, out, "Name:  Robert")
	assert.FileExists(t, png)

	out, err = run(t, build, "delete", "--id", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted a1\n", out)

	_, err = run(t, build, "delete", "--id", "a1")
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)

	_, err = run(t, build, "lookup", "--id", "a1")
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)

	assert.Equal(t, 9, closed, "every gallery command closes its app")
}

func TestListCommand_Empty(t *testing.T) {
	closed := 0
	out, err := run(t, testBuilder(seededStore(t), &closed), "list")
	require.NoError(t, err)
	assert.Equal(t, "Gallery is empty\n", out)
}

func TestRebuildCommand(t *testing.T) {
	store := repository.NewMemoryStore()
	closed := 0
	dir := t.TempDir()
	writeFace(t, dir, "a1_Alice_Smith.png", 10)
	writeFace(t, dir, "b2_Bob.png", 200)

	out, err := run(t, testBuilder(store, &closed), "rebuild", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Indexed 2 people from "+dir+"\n", out)

	g, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestRebuildCommand_MissingDir(t *testing.T) {
	closed := 0
	_, err := run(t, testBuilder(repository.NewMemoryStore(), &closed), "rebuild")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestRecognizeCommand(t *testing.T) {
	store := seededStore(t)
	closed := 0
	build := testBuilder(store, &closed)
	dir := t.TempDir()
	alice := writeFace(t, dir, "alice.png", 10)

	_, err := run(t, build, "add", "--name", "Alice", "--id", "a1", "--image", alice)
	require.NoError(t, err)

	jpg := filepath.Join(dir, "annotated.jpg")
	out, err := run(t, build, "recognize", "--image", alice, "--out", jpg)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice (a1) distance 0.00")
	assert.Contains(t, out, "Name: Alice\nID:   a1\n")
	assert.FileExists(t, jpg)
}

func TestRecognizeCommand_InvalidTolerance(t *testing.T) {
	dir := t.TempDir()
	img := writeFace(t, dir, "x.png", 1)

	for _, tol := range []string{"1.5", "-0.2", "NaN"} {
		t.Run(tol, func(t *testing.T) {
			closed := 0
			_, err := run(t, testBuilder(seededStore(t), &closed), "recognize", "--image", img, "--tolerance", tol)
			assert.ErrorIs(t, err, domain.ErrInvalidTolerance)
		})
	}
}

func TestWatchCommand(t *testing.T) {
	store := seededStore(t)
	closed := 0
	build := testBuilder(store, &closed)
	people := t.TempDir()
	alice := writeFace(t, people, "alice.png", 10)
	_, err := run(t, build, "add", "--name", "Alice", "--id", "a1", "--image", alice)
	require.NoError(t, err)

	frames := t.TempDir()
	writeFace(t, frames, "000.png", 10)
	writeFace(t, frames, "001.png", 10)

	out, err := run(t, build, "watch", "--dir", frames)
	require.NoError(t, err)
	assert.Contains(t, out, "frame 0: 1 face(s)")
	assert.Contains(t, out, "frame 1: 1 face(s)")
	assert.Contains(t, out, "Processed 2 of 2 frames")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, func(ctx context.Context, stderr io.Writer) (*App, error) {
		t.Fatal("version must not build an app")
		return nil, nil
	}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "identifyme dev")
}
