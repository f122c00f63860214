package accessviz

import (
	"testing"
)

func TestJoinRecords(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	fileName := writeMatrixFile(t, dataDir, 5797078, defaultMatrixContent(5797078))

	layer, err := JoinRecords(fileName, catalog)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if layer.Name != "5797078" {
		t.Errorf("Layer name must be the 7-character stem suffix '5797078', but got '%s'", layer.Name)
	}
	// Inner join: table rows 5797076 and 5797077 both exist in the grid.
	if len(layer.Rows) != 2 {
		t.Fatalf("Join must keep 2 rows, but got %d", len(layer.Rows))
	}
	// Grid drives the join: rows follow catalog order and keep geometry.
	if layer.Rows[0].ID != 5797076 || layer.Rows[1].ID != 5797077 {
		t.Errorf("Rows must follow catalog order, got %d, %d", layer.Rows[0].ID, layer.Rows[1].ID)
	}
	for _, row := range layer.Rows {
		if len(row.Geometry) == 0 {
			t.Errorf("Row %d must retain geometry", row.ID)
		}
	}
	// The source key is renamed away: measurement columns only.
	if layer.HasColumn(sourceKey) {
		t.Errorf("Column '%s' must be renamed to the join key on ingest", sourceKey)
	}
	for _, column := range []string{"to_id", "walk_t", "pt_r_t", "car_r_t"} {
		if !layer.HasColumn(column) {
			t.Errorf("Layer must carry column '%s'", column)
		}
	}
	// Sentinel folding on parse.
	if layer.Rows[1].Measures["pt_r_t"].Valid {
		t.Errorf("Sentinel -1 must parse as a missing measure, not a value")
	}
	if got := layer.Rows[0].Measures["car_r_t"]; !got.Valid || got.Value != 15 {
		t.Errorf("car_r_t for 5797076 must be 15, but got %+v", got)
	}
}

func TestJoinInnerJoinProperty(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	// Table carries one identifier outside the grid.
	content := "from_id;walk_t\n5797076;10\n999;20\n"
	fileName := writeMatrixFile(t, dataDir, 5797078, content)

	layer, err := JoinRecords(fileName, catalog)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	for _, id := range layer.IDs() {
		if !catalog.Contains(id) {
			t.Errorf("Joined identifier %d must be a grid member", id)
		}
	}
	if len(layer.Rows) != 1 {
		t.Errorf("Only the overlapping identifier must survive, but got %d rows", len(layer.Rows))
	}
}

func TestJoinRejectsStringKey(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	// A non-numeric key would silently produce an empty join in a naive
	// implementation; here it must be a parse failure.
	content := "from_id;walk_t\ncell_5797076;10\n"
	fileName := writeMatrixFile(t, dataDir, 5797078, content)

	_, err := JoinRecords(fileName, catalog)
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("String-typed join key must raise ParseError, but got %v", err)
	}
}

func TestJoinMissingKeyColumn(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	fileName := writeMatrixFile(t, dataDir, 5797078, "walk_t;car_r_t\n10;20\n")

	_, err := JoinRecords(fileName, catalog)
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Table without '%s' must raise ParseError, but got %v", sourceKey, err)
	}
}

func TestJoinMalformedRow(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	fileName := writeMatrixFile(t, dataDir, 5797078, "from_id;walk_t\n5797076;10;extra\n")

	_, err := JoinRecords(fileName, catalog)
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("A row with the wrong field count must raise ParseError, but got %v", err)
	}
}

func TestJoinMissingFile(t *testing.T) {
	catalog := loadTestCatalog(t)
	_, err := JoinRecords("no/such/table.txt", catalog)
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("A missing table must raise ParseError, but got %v", err)
	}
}

func TestLayerNameFor(t *testing.T) {
	cases := map[string]string{
		"data/5797xxx/travel_times_to_ 5797076.txt": "5797076",
		"travel_times_to_ 5797078.txt":              "5797078",
		"123.txt":                                   "123",
	}
	for location, want := range cases {
		if got := layerNameFor(location); got != want {
			t.Errorf("Layer name for '%s' must be '%s', but got '%s'", location, want, got)
		}
	}
}
