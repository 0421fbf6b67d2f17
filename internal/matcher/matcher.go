// Package matcher compares query encodings against a gallery.
package matcher

import (
	"fmt"
	"math"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// DefaultTolerance is the distance threshold used when callers supply none.
const DefaultTolerance = 0.5

// Distance returns the Euclidean distance between a and b.
func Distance(a, b domain.Encoding) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrValidationFailed.WithError(
			fmt.Errorf("encoding dimensions differ: %d vs %d", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Match scans the gallery in index order and returns the first record whose
// distance to query is within tolerance. The first candidate wins even when a
// later record is closer.
func Match(g *domain.Gallery, query domain.Encoding, tolerance float64) (domain.MatchResult, error) {
	for _, rec := range g.Records() {
		dist, err := Distance(query, rec.Encoding)
		if err != nil {
			return domain.Unknown(), fmt.Errorf("record %d: %w", rec.Index, err)
		}
		if dist <= tolerance {
			rounded := Round2(dist)
			index := rec.Index
			return domain.MatchResult{
				Name:         rec.Name,
				ID:           rec.ID,
				Distance:     &rounded,
				MatchedIndex: &index,
			}, nil
		}
	}
	return domain.Unknown(), nil
}

// Candidates returns the indices of every record within tolerance, in index order.
func Candidates(g *domain.Gallery, query domain.Encoding, tolerance float64) ([]int, error) {
	var out []int
	for _, rec := range g.Records() {
		dist, err := Distance(query, rec.Encoding)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.Index, err)
		}
		if dist <= tolerance {
			out = append(out, rec.Index)
		}
	}
	return out, nil
}
