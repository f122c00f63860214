package accessviz

import (
	"os"
	"path/filepath"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// GeoJSONWriter persists each layer as its own GeoJSON
// FeatureCollection file in the output folder, named '<layer>.geojson'.
type GeoJSONWriter struct {
	Dir string
}

// NewGeoJSONWriter prepares a discrete-file writer, creating the output
// folder when needed.
func NewGeoJSONWriter(dir string) (*GeoJSONWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "Can't create output folder")
	}
	return &GeoJSONWriter{Dir: dir}, nil
}

// WriteLayer writes one layer. Missing measures are encoded back as the
// -1 sentinel so written files round-trip with existing consumers.
func (writer *GeoJSONWriter) WriteLayer(layer *JoinedLayer) error {
	fc := geojson.NewFeatureCollection()
	for _, row := range layer.Rows {
		feature := geojson.NewPolygonFeature(polygonToGeoJSON(row.Geometry))
		feature.SetProperty(joinKey, int64(row.ID))
		for _, column := range layer.Columns {
			feature.SetProperty(column, row.Measures[column].Sentinel())
		}
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "Can't encode layer '%s'", layer.Name)
	}
	fileName := filepath.Join(writer.Dir, layer.Name+".geojson")
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return errors.Wrapf(err, "Can't write layer '%s'", layer.Name)
	}
	return nil
}
