package accessviz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// manifestHeader is the header line of a persisted manifest. The format
// is a single-column table: one resolved path per line.
const manifestHeader = "file_paths"

// FileLocation is the canonical on-disk location of the travel time
// table for one resolved identifier.
type FileLocation struct {
	ID   CellID
	Path string
}

// Resolution is an order-preserving partition of a requested identifier
// list into located files and identifiers unknown to the catalog.
type Resolution struct {
	Resolved   []FileLocation
	Unresolved []CellID
}

// matrixFilePath derives the table location for one identifier. The
// convention is fixed by the published dataset and must survive
// bit-for-bit: files are grouped in folders named by the first four
// decimal digits of the identifier plus 'xxx', and the file name keeps
// the dataset's space after the underscore ('travel_times_to_ <id>.txt').
// Identifiers shorter than four digits use the whole identifier as the
// folder prefix; the dataset has none, so this stays as is.
func matrixFilePath(basePath string, id CellID) string {
	idStr := fmt.Sprintf("%d", id)
	prefix := idStr
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return filepath.Join(basePath, prefix+"xxx", fmt.Sprintf("travel_times_to_ %s.txt", idStr))
}

// ResolveIdentifiers maps requested identifiers to matrix file
// locations, validating each against the catalog. Identifiers missing
// from the catalog are reported in Unresolved and never stop the rest
// of the batch. Both partitions keep the input order.
func ResolveIdentifiers(ids []CellID, basePath string, catalog *GridCatalog) (Resolution, error) {
	if len(ids) == 0 {
		return Resolution{}, ErrEmptyInput
	}
	resolution := Resolution{}
	for i, id := range ids {
		if !catalog.Contains(id) {
			fmt.Printf("A file for %s %d does not appear in provided folder path: %s\n", joinKey, id, basePath)
			resolution.Unresolved = append(resolution.Unresolved, id)
			continue
		}
		resolution.Resolved = append(resolution.Resolved, FileLocation{
			ID:   id,
			Path: matrixFilePath(basePath, id),
		})
		fmt.Printf("Processing file travel_times_to_ %d.txt.. Progress: %d/%d\n", id, i+1, len(ids))
	}
	return resolution, nil
}

// WriteManifest persists the resolved locations as a newline-delimited
// single-column list. A pure I/O side effect on top of resolution, for
// consumers that want the path list without re-resolving.
func (resolution Resolution) WriteManifest(fileName string) error {
	lines := make([]string, 0, len(resolution.Resolved)+1)
	lines = append(lines, manifestHeader)
	for _, location := range resolution.Resolved {
		lines = append(lines, location.Path)
	}
	err := os.WriteFile(fileName, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write manifest")
	}
	return nil
}
