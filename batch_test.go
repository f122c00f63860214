package accessviz

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessBatch(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	writeMatrixFile(t, dataDir, 5797076, defaultMatrixContent(5797076))
	// Malformed table: must fail locally, not abort the batch.
	writeMatrixFile(t, dataDir, 5797077, "from_id;walk_t\nbroken;10\n")
	// 5797078 resolves but its file does not exist.

	writer, err := NewGeoJSONWriter(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Can not create writer: %v", err)
	}
	postCalls := 0
	post := func(layer *JoinedLayer) error {
		postCalls++
		return nil
	}

	requested := []CellID{5797076, 5797077, 5797078, 42}
	report, err := ProcessBatch(requested, dataDir, catalog, writer, post)
	if err != nil {
		t.Fatalf("Batch must not abort on per-identifier failures: %v", err)
	}

	if len(report.Processed) != 1 || report.Processed[0] != 5797076 {
		t.Errorf("Processed must be [5797076], but got %v", report.Processed)
	}
	if len(report.Unresolved) != 1 || report.Unresolved[0] != 42 {
		t.Errorf("Unresolved must be [42], but got %v", report.Unresolved)
	}
	if len(report.Failed) != 2 {
		t.Fatalf("Both the malformed and the missing table must be reported, but got %d failures", len(report.Failed))
	}
	for _, failure := range report.Failed {
		if _, ok := failure.Err.(*ParseError); !ok {
			t.Errorf("Failure for %d must be a ParseError, but got %T", failure.ID, failure.Err)
		}
	}
	if postCalls != 1 {
		t.Errorf("The post hook must run once per successful layer, but ran %d times", postCalls)
	}
}

func TestProcessBatchEmptyRequest(t *testing.T) {
	catalog := loadTestCatalog(t)
	writer, err := NewGeoJSONWriter(t.TempDir())
	if err != nil {
		t.Fatalf("Can not create writer: %v", err)
	}
	_, err = ProcessBatch(nil, "data", catalog, writer, nil)
	if err != ErrEmptyInput {
		t.Errorf("Empty request must raise ErrEmptyInput, but got %v", err)
	}
}

func TestProcessBatchAllUnresolved(t *testing.T) {
	catalog := loadTestCatalog(t)
	writer, err := NewGeoJSONWriter(t.TempDir())
	if err != nil {
		t.Fatalf("Can not create writer: %v", err)
	}
	report, err := ProcessBatch([]CellID{1, 2}, "data", catalog, writer, nil)
	if err != nil {
		t.Fatalf("A fully unresolved batch is not an error: %v", err)
	}
	if len(report.Unresolved) != 2 || len(report.Processed) != 0 {
		t.Errorf("Report must carry 2 unresolved and 0 processed, but got %d/%d",
			len(report.Unresolved), len(report.Processed))
	}
}

func TestProcessBatchFailedPostHook(t *testing.T) {
	catalog := loadTestCatalog(t)
	dataDir := t.TempDir()
	writeMatrixFile(t, dataDir, 5797076, defaultMatrixContent(5797076))

	writer, err := NewGeoJSONWriter(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Can not create writer: %v", err)
	}
	// A comparison against a column the table lacks: localized to this
	// identifier, reported, not fatal.
	post := func(layer *JoinedLayer) error {
		_, err := Compare(layer, "car_r_t", "bike_f_t")
		return err
	}
	report, err := ProcessBatch([]CellID{5797076}, dataDir, catalog, writer, post)
	if err != nil {
		t.Fatalf("A failing post hook must not abort the batch: %v", err)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("The post failure must be reported, but got %d failures", len(report.Failed))
	}
	if _, ok := report.Failed[0].Err.(*MissingColumnError); !ok {
		t.Errorf("The failure must surface the MissingColumnError, but got %T", report.Failed[0].Err)
	}
}

func TestBatchReportSummary(t *testing.T) {
	report := &BatchReport{
		Processed:  []CellID{5797076},
		Unresolved: []CellID{42, 43},
		Failed:     []BatchFailure{{ID: 5797077, Err: &ParseError{Location: "x", Err: ErrEmptyInput}}},
	}
	summary := report.Summary()
	for _, want := range []string{"Processed: 1", "42,43", "5797077"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary must mention '%s':\n%s", want, summary)
		}
	}
}
