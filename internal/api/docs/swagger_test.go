package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSwagger(t *testing.T) {
	raw := NewSwagger().MustToJson()

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, path := range []string{"/recognize", "/recognize/annotated", "/people", "/people/{id}", "/gallery/rebuild", "/live", "/events"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Paths["/people/{id}"], "delete")
}
