package accessviz

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// joinKey is the canonical identifier attribute of the grid. Travel time
// tables carry the identifier as 'from_id' and are renamed to this key
// on ingest.
const joinKey = "YKR_ID"

// GridCell is one cell of the authoritative grid.
type GridCell struct {
	ID       CellID
	Geometry orb.Polygon
}

// GridCatalog is the authoritative ordered set of grid cells. It is
// loaded once per batch and shared read-only by every resolver and join
// call; every identifier the pipeline ever resolves must appear here.
type GridCatalog struct {
	cells []GridCell
	index map[CellID]int
}

func newGridCatalog(source string, cells []GridCell) (*GridCatalog, error) {
	index := make(map[CellID]int, len(cells))
	for i := range cells {
		if _, ok := index[cells[i].ID]; ok {
			return nil, &CatalogLoadError{Source: source, Err: fmt.Errorf("duplicate %s %d", joinKey, cells[i].ID)}
		}
		index[cells[i].ID] = i
	}
	return &GridCatalog{cells: cells, index: index}, nil
}

// LoadGridCatalog reads the grid from a GeoJSON FeatureCollection whose
// features carry the identifier in the YKR_ID property. The load is
// all-or-nothing: one malformed feature fails the whole catalog.
func LoadGridCatalog(fileName string) (*GridCatalog, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(err, "File open")}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(err, "Decode feature collection")}
	}
	cells := make([]GridCell, 0, len(fc.Features))
	for i, feature := range fc.Features {
		id, err := feature.PropertyInt(joinKey)
		if err != nil {
			return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrapf(err, "Feature #%d has no integer %s property", i, joinKey)}
		}
		if feature.Geometry == nil || !feature.Geometry.IsPolygon() {
			return nil, &CatalogLoadError{Source: fileName, Err: fmt.Errorf("feature #%d (%s %d) is not a polygon", i, joinKey, id)}
		}
		cells = append(cells, GridCell{
			ID:       CellID(id),
			Geometry: polygonFromGeoJSON(feature.Geometry.Polygon),
		})
	}
	return newGridCatalog(fileName, cells)
}

// Contains reports whether an identifier belongs to the grid.
func (catalog *GridCatalog) Contains(id CellID) bool {
	_, ok := catalog.index[id]
	return ok
}

// Geometry returns the polygon of a cell.
func (catalog *GridCatalog) Geometry(id CellID) (orb.Polygon, bool) {
	i, ok := catalog.index[id]
	if !ok {
		return nil, false
	}
	return catalog.cells[i].Geometry, true
}

// Centroid returns the planar centroid of a cell, used as the focus
// marker position on rendered maps.
func (catalog *GridCatalog) Centroid(id CellID) (orb.Point, bool) {
	geom, ok := catalog.Geometry(id)
	if !ok {
		return orb.Point{}, false
	}
	centroid, _ := planar.CentroidArea(geom)
	return centroid, true
}

// Cells returns the cells in catalog order. The slice is shared, callers
// must not modify it.
func (catalog *GridCatalog) Cells() []GridCell {
	return catalog.cells
}

// Len returns the number of cells in the catalog.
func (catalog *GridCatalog) Len() int {
	return len(catalog.cells)
}

func polygonFromGeoJSON(rings [][][]float64) orb.Polygon {
	polygon := make(orb.Polygon, len(rings))
	for i, ring := range rings {
		polygon[i] = make(orb.Ring, len(ring))
		for j, pt := range ring {
			polygon[i][j] = orb.Point{pt[0], pt[1]}
		}
	}
	return polygon
}

func polygonToGeoJSON(polygon orb.Polygon) [][][]float64 {
	rings := make([][][]float64, len(polygon))
	for i, ring := range polygon {
		rings[i] = make([][]float64, len(ring))
		for j, pt := range ring {
			rings[i][j] = []float64{pt.X(), pt.Y()}
		}
	}
	return rings
}
