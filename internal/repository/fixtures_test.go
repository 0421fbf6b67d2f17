package repository

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

func solidImage(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// sampleGallery holds three people with float32-exact encodings.
func sampleGallery(t *testing.T) *domain.Gallery {
	t.Helper()

	g := domain.NewGallery()
	people := []struct {
		id, name string
		c        color.RGBA
	}{
		{"alice", "Alice Smith", color.RGBA{R: 200, A: 255}},
		{"bob", "Bob", color.RGBA{G: 200, A: 255}},
		{"carol", "Carol Ann Lee", color.RGBA{B: 200, A: 255}},
	}
	for i, p := range people {
		require.NoError(t, g.Put(domain.PersonRecord{
			Index:    i,
			ID:       p.id,
			Name:     p.name,
			Image:    solidImage(p.c),
			Encoding: domain.Encoding{float64(i), 0.5, -0.25},
		}))
	}
	return g
}
