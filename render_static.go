package accessviz

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ylGnBuRGBA mirrors the ylGnBu ramp for the raster renderer.
var ylGnBuRGBA = []color.RGBA{
	{0xff, 0xff, 0xd9, 0xff},
	{0xed, 0xf8, 0xb1, 0xff},
	{0xc7, 0xe9, 0xb4, 0xff},
	{0x7f, 0xcd, 0xbb, 0xff},
	{0x41, 0xb6, 0xc4, 0xff},
	{0x1d, 0x91, 0xc0, 0xff},
	{0x22, 0x5e, 0xa8, 0xff},
	{0x25, 0x34, 0x94, 0xff},
	{0x08, 0x1d, 0x58, 0xff},
}

// classIndex places a value into its class given the break edges.
func classIndex(value float64, edges []float64) int {
	idx := 0
	for i := 1; i < len(edges)-1; i++ {
		if value >= edges[i] {
			idx = i
		}
	}
	return idx
}

// RenderStatic writes a raster (PNG) map of one measurement column:
// cell centroids colour-graded over the class breaks, focus cell drawn
// as a pyramid marker. File is '<outputDir>/<focus>_static.png'.
func RenderStatic(layer *JoinedLayer, catalog *GridCatalog, options RenderOptions, outputDir string) (string, error) {
	label, kind, err := renderLabel(options.Mode)
	if err != nil {
		return "", err
	}
	selection, err := layer.Select(options.Mode)
	if err != nil {
		return "", err
	}
	if len(selection) == 0 {
		return "", errors.Errorf("layer '%s' has no data in column '%s'", layer.Name, options.Mode)
	}
	focus, ok := catalog.Centroid(options.Focus)
	if !ok {
		return "", errors.Errorf("focus %s %d is not in the grid catalog", joinKey, options.Focus)
	}
	classes := options.Classes
	if classes == 0 {
		classes = defaultClasses
	}

	xys := make(plotter.XYs, len(selection))
	values := make([]float64, len(selection))
	for i, row := range selection {
		centroid, _ := planar.CentroidArea(row.Geometry)
		xys[i] = plotter.XY{X: centroid.X(), Y: centroid.Y()}
		values[i] = row.Measures[options.Mode].Value
	}
	edges := classBreaks(values, classes)

	p := plot.New()
	p.Title.Text = renderTitle(label, kind, options.Focus)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	cells, err := plotter.NewScatter(xys)
	if err != nil {
		return "", errors.Wrap(err, "Can't build cell scatter")
	}
	cells.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		idx := classIndex(values[i], edges)
		if classes > 1 {
			idx = idx * (len(ylGnBuRGBA) - 1) / (classes - 1)
		}
		return draw.GlyphStyle{Color: ylGnBuRGBA[idx], Radius: vg.Points(2), Shape: draw.BoxGlyph{}}
	}
	p.Add(cells)

	marker, err := plotter.NewScatter(plotter.XYs{{X: focus.X(), Y: focus.Y()}})
	if err != nil {
		return "", errors.Wrap(err, "Can't build focus marker")
	}
	marker.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(6), Shape: draw.PyramidGlyph{}}
	p.Add(marker)

	fileName := filepath.Join(outputDir, fmt.Sprintf("%d_static.png", options.Focus))
	if err := p.Save(10*vg.Inch, 8*vg.Inch, fileName); err != nil {
		return "", errors.Wrap(err, "Can't save map file")
	}
	return fileName, nil
}
