package accessviz

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// sourceKey is the identifier column name used inside travel time
// tables. It is renamed to the canonical join key on ingest.
const sourceKey = "from_id"

// tableDelimiter separates travel time table fields.
const tableDelimiter = ';'

// layerNameFor derives the output layer (or file) name from a table
// location: the last seven characters of the file stem. For the dataset
// naming scheme that is exactly the seven-digit identifier. Existing
// consumers address layers by this name, so the rule is kept verbatim
// even though it would misbehave for identifiers of other digit counts.
func layerNameFor(location string) string {
	stem := strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
	if len(stem) > 7 {
		stem = stem[len(stem)-7:]
	}
	return stem
}

// JoinRecords parses the travel time table at the given location and
// inner-joins it with the grid catalog on the canonical key. The grid
// drives the join: rows follow catalog order and every surviving row
// keeps its geometry. Joining the other way around would drop geometry
// and is not offered.
func JoinRecords(location string, catalog *GridCatalog) (*JoinedLayer, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, &ParseError{Location: location, Err: errors.Wrap(err, "File open")}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = tableDelimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Location: location, Err: errors.Wrap(err, "Malformed delimited table")}
	}
	if len(records) < 1 {
		return nil, &ParseError{Location: location, Err: errors.New("table has no header row")}
	}

	header := records[0]
	keyIdx := -1
	columns := []string{}
	for i, name := range header {
		if name == sourceKey {
			keyIdx = i
			continue
		}
		columns = append(columns, name)
	}
	if keyIdx < 0 {
		return nil, &ParseError{Location: location, Err: errors.Errorf("table has no '%s' column", sourceKey)}
	}

	// The key must parse as an integer. A string-typed key would silently
	// produce an empty join, so parsing is strict instead.
	measures := make(map[CellID]map[string]Measure, len(records)-1)
	for rowNum, record := range records[1:] {
		id, err := strconv.ParseInt(record[keyIdx], 10, 64)
		if err != nil {
			return nil, &ParseError{Location: location, Err: errors.Wrapf(err, "Row #%d has non-integer %s", rowNum+1, sourceKey)}
		}
		rowMeasures := make(map[string]Measure, len(columns))
		col := 0
		for i, field := range record {
			if i == keyIdx {
				continue
			}
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Location: location, Err: errors.Wrapf(err, "Row #%d has non-numeric value '%s' in column '%s'", rowNum+1, field, columns[col])}
			}
			rowMeasures[columns[col]] = newMeasure(value)
			col++
		}
		measures[CellID(id)] = rowMeasures
	}

	layer := &JoinedLayer{
		Name:    layerNameFor(location),
		Columns: columns,
	}
	for _, cell := range catalog.Cells() {
		rowMeasures, ok := measures[cell.ID]
		if !ok {
			continue
		}
		layer.Rows = append(layer.Rows, LayerRow{
			ID:       cell.ID,
			Geometry: cell.Geometry,
			Measures: rowMeasures,
		})
	}
	return layer, nil
}

// JoinBatch joins every located table against the shared catalog and
// hands each resulting layer to the writer, then to the optional post
// hook (comparisons, rendering). One malformed table skips that
// identifier only; the same goes for a post failure. Everything is
// reported through the returned BatchReport alongside the successes,
// never silently dropped.
func JoinBatch(locations []FileLocation, catalog *GridCatalog, writer LayerWriter, post LayerFunc) (*BatchReport, error) {
	if len(locations) == 0 {
		return nil, ErrEmptyInput
	}
	report := &BatchReport{}
	for _, location := range locations {
		layer, err := JoinRecords(location.Path, catalog)
		if err != nil {
			report.Failed = append(report.Failed, BatchFailure{ID: location.ID, Err: err})
			continue
		}
		if err := writer.WriteLayer(layer); err != nil {
			report.Failed = append(report.Failed, BatchFailure{ID: location.ID, Err: err})
			continue
		}
		if post != nil {
			if err := post(layer); err != nil {
				report.Failed = append(report.Failed, BatchFailure{ID: location.ID, Err: err})
				continue
			}
		}
		report.Processed = append(report.Processed, location.ID)
	}
	return report, nil
}
