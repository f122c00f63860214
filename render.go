package accessviz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// RenderOptions selects what a map shows: one measurement column and
// the focus cell marked on it.
type RenderOptions struct {
	Mode    string
	Focus   CellID
	Classes int // number of colour classes, 9 when zero
}

const defaultClasses = 9

// renderLabel resolves a column to its human title. The derived 'diff'
// column of a comparison is renderable alongside the mode vocabulary.
func renderLabel(column string) (string, MeasureKind, error) {
	if column == diffColumn {
		return "Difference in", TIME_MEASURE, nil
	}
	mode, err := ModeByCode(column)
	if err != nil {
		return "", 0, err
	}
	return mode.Label, mode.Kind, nil
}

func renderTitle(label string, kind MeasureKind, focus CellID) string {
	unit := "travel time (minutes)"
	if kind == DISTANCE_MEASURE {
		unit = "travel distance (meters)"
	}
	return fmt.Sprintf("%s %s from %s %d to other Helsinki regions", label, unit, joinKey, focus)
}

// classBreaks computes k+1 monotonic class edges over the values using
// empirical quantiles, the data-driven analogue of the original's nine
// natural breaks.
func classBreaks(values []float64, k int) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	edges := make([]float64, k+1)
	for i := 0; i <= k; i++ {
		edges[i] = stat.Quantile(float64(i)/float64(k), stat.Empirical, sorted, nil)
	}
	return edges
}

// ylGnBu is the nine-class colour ramp used by both renderers.
var ylGnBu = []string{"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"}

// RenderInteractive writes an interactive HTML map of one measurement
// column. Cells are drawn at their centroids, colour-graded over the
// class breaks; the focus cell gets a distinct marker. The layer is
// filtered through Select first, so no sentinel value ever reaches the
// chart.
func RenderInteractive(layer *JoinedLayer, catalog *GridCatalog, options RenderOptions, w io.Writer) error {
	label, kind, err := renderLabel(options.Mode)
	if err != nil {
		return err
	}
	selection, err := layer.Select(options.Mode)
	if err != nil {
		return err
	}
	if len(selection) == 0 {
		return errors.Errorf("layer '%s' has no data in column '%s'", layer.Name, options.Mode)
	}
	focus, ok := catalog.Centroid(options.Focus)
	if !ok {
		return errors.Errorf("focus %s %d is not in the grid catalog", joinKey, options.Focus)
	}
	classes := options.Classes
	if classes == 0 {
		classes = defaultClasses
	}

	data := make([]opts.ScatterData, len(selection))
	values := make([]float64, len(selection))
	for i, row := range selection {
		centroid, _ := planar.CentroidArea(row.Geometry)
		value := row.Measures[options.Mode].Value
		values[i] = value
		data[i] = opts.ScatterData{Value: []interface{}{centroid.X(), centroid.Y(), value}}
	}
	edges := classBreaks(values, classes)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: renderTitle(label, kind, options.Focus), Width: "1000px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    renderTitle(label, kind, options.Focus),
			Subtitle: fmt.Sprintf("layer=%s cells=%d classes=%d", layer.Name, len(selection), classes),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(edges[0]),
			Max:        float32(edges[len(edges)-1]),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: ylGnBu},
		}),
	)

	scatter.AddSeries(options.Mode, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("focus", []opts.ScatterData{
		{Value: []interface{}{focus.X(), focus.Y(), edges[len(edges)-1]}, Symbol: "diamond", SymbolSize: 18},
	})

	return scatter.Render(w)
}

// RenderInteractiveFile renders into '<outputDir>/<focus>_interactive.html',
// matching the original file naming, and returns the written path.
func RenderInteractiveFile(layer *JoinedLayer, catalog *GridCatalog, options RenderOptions, outputDir string) (string, error) {
	fileName := filepath.Join(outputDir, fmt.Sprintf("%d_interactive.html", options.Focus))
	f, err := os.Create(fileName)
	if err != nil {
		return "", errors.Wrap(err, "Can't create map file")
	}
	defer f.Close()
	if err := RenderInteractive(layer, catalog, options, f); err != nil {
		return "", err
	}
	return fileName, nil
}
