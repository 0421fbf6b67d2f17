// Package annotate draws recognition results onto a copy of an image.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
)

// Label baselines, in pixels above the top edge of the face box.
const (
	nameOffset     = 10
	distanceOffset = 30
)

var Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}

type Annotator struct {
	Color     color.RGBA
	Thickness int
	Face      font.Face
}

func New() *Annotator {
	return &Annotator{
		Color:     Green,
		Thickness: 2,
		Face:      basicfont.Face7x13,
	}
}

// Annotate returns a normalized copy of img with a box per face, the face's
// name above the box and, for matches, the distance above the name.
func (a *Annotator) Annotate(img image.Image, faces []domain.FaceResult) *image.RGBA {
	out := imaging.Normalize(img)
	for _, f := range faces {
		a.drawBox(out, f.Box)
		a.drawLabel(out, f.Match.Name, f.Box.Left, f.Box.Top-nameOffset)
		if f.Match.Distance != nil {
			a.drawLabel(out, fmt.Sprintf("%.2f", *f.Match.Distance), f.Box.Left, f.Box.Top-distanceOffset)
		}
	}
	return out
}

func (a *Annotator) drawBox(dst *image.RGBA, box domain.BoundingBox) {
	src := image.NewUniform(a.Color)
	t := a.Thickness
	r := box.Rect()
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func (a *Annotator) drawLabel(dst *image.RGBA, text string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(a.Color),
		Face: a.Face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
