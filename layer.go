package accessviz

import (
	"github.com/paulmach/orb"
)

// noDataSentinel is how the source matrix encodes a missing measurement.
const noDataSentinel = -1.0

// CellID identifies one cell of the YKR grid.
type CellID int64

// Measure is a single travel time or distance observation. The sentinel
// value -1 from the source tables never reaches Value: it is mapped to
// Valid == false on parse and back to -1 on output, so no arithmetic can
// accidentally happen on it.
type Measure struct {
	Value float64
	Valid bool
}

// newMeasure maps a raw table value to a Measure, folding the no-data
// sentinel (any negative value) into the invalid state.
func newMeasure(raw float64) Measure {
	if raw < 0 {
		return Measure{}
	}
	return Measure{Value: raw, Valid: true}
}

// Sentinel returns the on-disk representation of the measure: the value
// itself, or -1 when there is no data.
func (m Measure) Sentinel() float64 {
	if !m.Valid {
		return noDataSentinel
	}
	return m.Value
}

// LayerRow is one cell of a joined layer: geometry plus every
// measurement column of the source table.
type LayerRow struct {
	ID       CellID
	Geometry orb.Polygon
	Measures map[string]Measure
}

// JoinedLayer is the inner join of the grid catalog with one travel time
// table. Columns keeps the measurement columns in source table order.
// Rows follow catalog order. A layer is not mutated after creation,
// except for the derived column a comparison appends to its own copy.
type JoinedLayer struct {
	Name    string
	Columns []string
	Rows    []LayerRow
}

// HasColumn reports whether a measurement column exists in the layer.
func (layer *JoinedLayer) HasColumn(column string) bool {
	for i := range layer.Columns {
		if layer.Columns[i] == column {
			return true
		}
	}
	return false
}

// Select returns the rows holding a real (non-sentinel) value in the
// given column. This is the well-formedness guarantee handed to a
// renderer: no sentinel ever reaches it.
func (layer *JoinedLayer) Select(column string) ([]LayerRow, error) {
	if !layer.HasColumn(column) {
		return nil, &MissingColumnError{Column: column, Layer: layer.Name}
	}
	selection := []LayerRow{}
	for _, row := range layer.Rows {
		if row.Measures[column].Valid {
			selection = append(selection, row)
		}
	}
	return selection, nil
}

// IDs returns the identifiers of the layer rows in layer order.
func (layer *JoinedLayer) IDs() []CellID {
	ids := make([]CellID, len(layer.Rows))
	for i := range layer.Rows {
		ids[i] = layer.Rows[i].ID
	}
	return ids
}
