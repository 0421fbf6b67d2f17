package domain

import (
	"image"
	"math"
)

// UnknownName is reported as both name and id when no gallery record matches.
const UnknownName = "Unknown"

// ValidTolerance reports whether t is a usable match tolerance: a number
// within [0, 1].
func ValidTolerance(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= 1
}

// Encoding is the fixed-length descriptor an encoder produces for one face.
type Encoding []float64

// BoundingBox is a face location in pixel coordinates. Right and Bottom are exclusive.
type BoundingBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

func (b BoundingBox) Width() int {
	return b.Right - b.Left
}

func (b BoundingBox) Height() int {
	return b.Bottom - b.Top
}

// IoU returns the intersection over union of b and o.
func (b BoundingBox) IoU(o BoundingBox) float64 {
	inter := b.Rect().Intersect(o.Rect())
	if inter.Empty() {
		return 0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	union := float64(b.Width()*b.Height()+o.Width()*o.Height()) - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// MatchResult is the outcome of matching one query encoding against a gallery.
// Distance and MatchedIndex are nil when nothing matched.
type MatchResult struct {
	Name         string   `json:"name"`
	ID           string   `json:"id"`
	Distance     *float64 `json:"distance,omitempty"`
	MatchedIndex *int     `json:"matched_index,omitempty"`
}

// Unknown returns the result reported when no record is within tolerance.
func Unknown() MatchResult {
	return MatchResult{Name: UnknownName, ID: UnknownName}
}

func (m MatchResult) Matched() bool {
	return m.MatchedIndex != nil
}

// FaceResult pairs a detected face with its match.
type FaceResult struct {
	Box   BoundingBox `json:"box"`
	Match MatchResult `json:"match"`
}

// Recognition is the result of recognizing every face in one image.
// Name and ID are those of the last face that matched.
type Recognition struct {
	Annotated *image.RGBA  `json:"-"`
	Name      string       `json:"name"`
	ID        string       `json:"id"`
	Faces     []FaceResult `json:"faces"`
}
