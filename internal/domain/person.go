package domain

import (
	"fmt"
	"image"
	"sort"
)

// PersonRecord is one known person in the gallery.
type PersonRecord struct {
	Index    int         `json:"index"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Image    *image.RGBA `json:"-"`
	Encoding Encoding    `json:"-"`
}

// Gallery maps a stable index to a person record. Indices are not compacted
// after removal.
type Gallery struct {
	records map[int]PersonRecord
}

func NewGallery() *Gallery {
	return &Gallery{records: make(map[int]PersonRecord)}
}

func (g *Gallery) Len() int {
	return len(g.records)
}

func (g *Gallery) Get(index int) (PersonRecord, bool) {
	rec, ok := g.records[index]
	return rec, ok
}

// Put inserts or replaces the record at rec.Index.
func (g *Gallery) Put(rec PersonRecord) error {
	if rec.Index < 0 {
		return ErrValidationFailed.WithError(fmt.Errorf("negative index %d", rec.Index))
	}
	if dim := g.dimensionExcept(rec.Index); dim != 0 && len(rec.Encoding) != dim {
		return ErrValidationFailed.WithError(
			fmt.Errorf("encoding has %d dimensions, gallery uses %d", len(rec.Encoding), dim))
	}
	g.records[rec.Index] = rec
	return nil
}

// Remove deletes the record at index and reports whether it existed.
func (g *Gallery) Remove(index int) bool {
	if _, ok := g.records[index]; !ok {
		return false
	}
	delete(g.records, index)
	return true
}

// Indices returns all occupied indices in ascending order.
func (g *Gallery) Indices() []int {
	indices := make([]int, 0, len(g.records))
	for idx := range g.records {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Records returns the records in ascending index order.
func (g *Gallery) Records() []PersonRecord {
	indices := g.Indices()
	out := make([]PersonRecord, 0, len(indices))
	for _, idx := range indices {
		out = append(out, g.records[idx])
	}
	return out
}

// FindByID returns the first record in index order whose ID equals id.
func (g *Gallery) FindByID(id string) (PersonRecord, bool) {
	for _, idx := range g.Indices() {
		if rec := g.records[idx]; rec.ID == id {
			return rec, true
		}
	}
	return PersonRecord{}, false
}

// NextIndex returns the index for a new person: the record count, or one past
// the highest index if deletions left that slot occupied.
func (g *Gallery) NextIndex() int {
	next := len(g.records)
	if _, taken := g.records[next]; !taken {
		return next
	}
	maxIdx := -1
	for idx := range g.records {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	return maxIdx + 1
}

// Dimension returns the encoding length shared by all records, or 0 when empty.
func (g *Gallery) Dimension() int {
	return g.dimensionExcept(-1)
}

func (g *Gallery) dimensionExcept(skip int) int {
	for idx, rec := range g.records {
		if idx != skip {
			return len(rec.Encoding)
		}
	}
	return 0
}

// Clone returns a copy whose record map can be mutated independently.
// Images and encodings are shared.
func (g *Gallery) Clone() *Gallery {
	c := &Gallery{records: make(map[int]PersonRecord, len(g.records))}
	for idx, rec := range g.records {
		c.records[idx] = rec
	}
	return c
}
