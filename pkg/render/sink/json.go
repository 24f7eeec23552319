package sink

import (
	"encoding/json"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name     string
	revision uint64
	hash     string
}

// WithJSONName records the document name.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONRevision records the document revision the snapshot was taken at.
func WithJSONRevision(rev uint64) JSONOption { return func(r *jsonRenderer) { r.revision = rev } }

// WithJSONHash records the content hash used as the cache key.
func WithJSONHash(h string) JSONOption { return func(r *jsonRenderer) { r.hash = h } }

type jsonOutput struct {
	Name     string           `json:"name,omitempty"`
	Revision uint64           `json:"revision"`
	Hash     string           `json:"hash,omitempty"`
	Bounds   *jsonBounds      `json:"bounds,omitempty"`
	Entities []drawing.Entity `json:"entities"`
}

type jsonBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RenderJSON serializes entities with their plan-view bounds.
func RenderJSON(entities []drawing.Entity, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:     r.name,
		Revision: r.revision,
		Hash:     r.hash,
		Entities: entities,
	}
	if out.Entities == nil {
		out.Entities = []drawing.Entity{}
	}
	if b, ok := Extent(entities); ok {
		out.Bounds = &jsonBounds{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
	}
	return json.MarshalIndent(out, "", "  ")
}
