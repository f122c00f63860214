package accessviz

import (
	"fmt"

	"github.com/paulmach/orb"
)

// diffColumn is the name of the derived column a comparison appends.
const diffColumn = "diff"

// ComparisonRow is one cell surviving a comparison: both measures are
// guaranteed real values, never sentinels.
type ComparisonRow struct {
	ID       CellID
	Geometry orb.Polygon
	A        float64
	B        float64
	Diff     float64
}

// ComparisonResult is a layer restricted to two measurement columns plus
// geometry, with the derived difference. It owns independent copies of
// its rows: the source layer is left untouched.
type ComparisonResult struct {
	Name  string
	ModeA string
	ModeB string
	Rows  []ComparisonRow
}

// Compare derives the difference between two measurement columns of a
// joined layer. Rows where either column holds no data are dropped
// entirely, not null-filled. The sign convention is fixed: diff is the
// first-listed mode minus the second-listed mode, never the reverse, so
// Compare(layer, a, b) and Compare(layer, b, a) mirror each other.
func Compare(layer *JoinedLayer, modeA, modeB string) (*ComparisonResult, error) {
	if err := CheckMode(modeA); err != nil {
		return nil, err
	}
	if err := CheckMode(modeB); err != nil {
		return nil, err
	}
	for _, column := range []string{modeA, modeB} {
		if !layer.HasColumn(column) {
			return nil, &MissingColumnError{Column: column, Layer: layer.Name}
		}
	}

	result := &ComparisonResult{
		Name:  fmt.Sprintf("Accessibility_%s_%s_vs_%s", layer.Name, modeA, modeB),
		ModeA: modeA,
		ModeB: modeB,
	}
	for _, row := range layer.Rows {
		a := row.Measures[modeA]
		b := row.Measures[modeB]
		if !a.Valid || !b.Valid {
			continue
		}
		result.Rows = append(result.Rows, ComparisonRow{
			ID:       row.ID,
			Geometry: row.Geometry,
			A:        a.Value,
			B:        b.Value,
			Diff:     a.Value - b.Value,
		})
	}
	return result, nil
}

// AsLayer converts a comparison result into layer form so the usual
// layer writers can persist it. Columns are the two compared modes plus
// the derived difference.
func (result *ComparisonResult) AsLayer() *JoinedLayer {
	layer := &JoinedLayer{
		Name:    result.Name,
		Columns: []string{result.ModeA, result.ModeB, diffColumn},
	}
	for _, row := range result.Rows {
		layer.Rows = append(layer.Rows, LayerRow{
			ID:       row.ID,
			Geometry: row.Geometry,
			Measures: map[string]Measure{
				result.ModeA: {Value: row.A, Valid: true},
				result.ModeB: {Value: row.B, Valid: true},
				diffColumn:   {Value: row.Diff, Valid: true},
			},
		})
	}
	return layer
}
