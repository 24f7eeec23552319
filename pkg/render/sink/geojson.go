package sink

import (
	"encoding/json"
	"math"

	"github.com/ctessum/geom/encoding/geojson"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
)

type featureCollection struct {
	Type     string     `json:"type"`
	Name     string     `json:"name,omitempty"`
	Features []*feature `json:"features"`
}

type feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties featureProps      `json:"properties"`
}

type featureProps struct {
	Kind  drawing.Kind `json:"kind"`
	Layer string       `json:"layer"`
	// Plan geometry drops Z; the elevation range is kept here.
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// RenderGeoJSON encodes the plan view as a FeatureCollection. Closed
// polylines become Polygons and everything else a LineString.
func RenderGeoJSON(name string, entities []drawing.Entity) ([]byte, error) {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Name:     name,
		Features: make([]*feature, 0, len(entities)),
	}
	for _, e := range entities {
		if len(e.Points) < 2 {
			continue
		}
		g, err := geojson.ToGeoJSON(planGeom(e))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode entity %s", e.ID)
		}
		minZ, maxZ := math.Inf(1), math.Inf(-1)
		for _, p := range e.Points {
			minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
		}
		fc.Features = append(fc.Features, &feature{
			Type:       "Feature",
			ID:         e.ID.String(),
			Geometry:   g,
			Properties: featureProps{Kind: e.Kind, Layer: e.Layer, MinZ: minZ, MaxZ: maxZ},
		})
	}
	return json.MarshalIndent(fc, "", "  ")
}
