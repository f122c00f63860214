package accessviz

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	geojson "github.com/paulmach/go.geojson"
)

// testGridIDs are the identifiers of the small grid used across tests.
var testGridIDs = []CellID{5797076, 5797077, 5797078}

// writeTestGrid writes a three-cell GeoJSON grid and returns its path.
// Cells are unit squares side by side along the longitude axis.
func writeTestGrid(t *testing.T, dir string) string {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for i, id := range testGridIDs {
		x := float64(i)
		feature := geojson.NewPolygonFeature([][][]float64{{
			{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0},
		}})
		feature.SetProperty(joinKey, int64(id))
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("Can not marshal test grid: %v", err)
	}
	fileName := filepath.Join(dir, "grid.geojson")
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		t.Fatalf("Can not write test grid: %v", err)
	}
	return fileName
}

// loadTestCatalog builds a catalog from the test grid.
func loadTestCatalog(t *testing.T) *GridCatalog {
	t.Helper()
	catalog, err := LoadGridCatalog(writeTestGrid(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Can not load test catalog: %v", err)
	}
	return catalog
}

// writeMatrixFile writes a travel time table for one identifier under
// the dataset folder convention and returns the data folder.
func writeMatrixFile(t *testing.T, dataDir string, id CellID, content string) string {
	t.Helper()
	folder := filepath.Join(dataDir, fmt.Sprintf("%d", id)[:4]+"xxx")
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatalf("Can not create matrix folder: %v", err)
	}
	fileName := filepath.Join(folder, fmt.Sprintf("travel_times_to_ %d.txt", id))
	if err := os.WriteFile(fileName, []byte(content), 0644); err != nil {
		t.Fatalf("Can not write matrix file: %v", err)
	}
	return fileName
}

// defaultMatrixContent is a well-formed two-row table addressed to the
// given identifier: one fully valid row, one with a public transport
// sentinel.
func defaultMatrixContent(to CellID) string {
	return fmt.Sprintf(
		"from_id;to_id;walk_t;pt_r_t;car_r_t\n"+
			"5797076;%[1]d;115;25;15\n"+
			"5797077;%[1]d;98;-1;22\n", to)
}
