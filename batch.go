package accessviz

import (
	"fmt"
	"strings"
)

// LayerWriter persists one joined layer. Two implementations exist:
// GeoJSONWriter (one discrete file per layer) and GeoPackageWriter (one
// shared container, one named layer per identifier).
type LayerWriter interface {
	WriteLayer(layer *JoinedLayer) error
}

// LayerFunc runs against each layer after it is written, e.g. to derive
// a comparison or render a map. A nil hook is skipped.
type LayerFunc func(layer *JoinedLayer) error

// BatchFailure records one identifier that failed after resolution.
type BatchFailure struct {
	ID  CellID
	Err error
}

// BatchReport is the outcome of a batch run: every requested identifier
// ends up in exactly one of the three buckets.
type BatchReport struct {
	Processed  []CellID
	Unresolved []CellID
	Failed     []BatchFailure
}

// Summary renders the report for end-of-batch printing.
func (report *BatchReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed: %d", len(report.Processed))
	if len(report.Unresolved) > 0 {
		ids := make([]string, len(report.Unresolved))
		for i, id := range report.Unresolved {
			ids[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(&b, "\nUnresolved %s values: %s", joinKey, strings.Join(ids, ","))
	}
	for _, failure := range report.Failed {
		fmt.Fprintf(&b, "\nFailed %s %d: %s", joinKey, failure.ID, failure.Err)
	}
	return b.String()
}

// ProcessBatch runs the whole pipeline over one identifier list: resolve
// against the already-loaded catalog, join each located table, persist
// each layer. The catalog is loaded once by the caller and shared
// read-only across every step. Per-identifier failures are collected,
// only an empty request is refused outright.
func ProcessBatch(ids []CellID, basePath string, catalog *GridCatalog, writer LayerWriter, post LayerFunc) (*BatchReport, error) {
	resolution, err := ResolveIdentifiers(ids, basePath, catalog)
	if err != nil {
		return nil, err
	}
	if len(resolution.Resolved) == 0 {
		return &BatchReport{Unresolved: resolution.Unresolved}, nil
	}
	report, err := JoinBatch(resolution.Resolved, catalog, writer, post)
	if err != nil {
		return nil, err
	}
	report.Unresolved = resolution.Unresolved
	return report, nil
}
