package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/gridkit/accessviz"
)

var (
	confFile    = flag.String("conf", "", "Run configuration file (YAML). When set, all other flags are ignored")
	gridFile    = flag.String("grid", "MetropAccess_YKR_grid.geojson", "Grid source file")
	gridFormat  = flag.String("gridf", "geojson", "Format of grid source. Expected values: geojson / osmpbf")
	dataDir     = flag.String("data", ".", "Folder holding the travel time matrix subfolders")
	idStr       = flag.String("ids", "", "YKR_ID values to process (separated by commas)")
	outDir      = flag.String("out", ".", "Output folder for spatial layers")
	outFormat   = flag.String("format", "geojson", "Output format. Expected values: geojson for one file per identifier / gpkg for one multi-layer geopackage")
	gpkgFile    = flag.String("gpkg", "TravelMatrix.gpkg", "Geopackage file name (format = gpkg)")
	manifest    = flag.String("manifest", "", "Write resolved file paths to this manifest file")
	compareStr  = flag.String("compare", "", "Two mode columns to compare, first minus second (e.g. pt_r_t,car_r_t)")
	renderMode  = flag.String("render", "", "Mode column to render as a map")
	renderFocus = flag.Int64("focus", 0, "YKR_ID marked as the focus point on rendered maps")
	renderMap   = flag.String("map", "interactive", "Map type. Expected values: static / interactive")
)

func main() {

	flag.Parse()

	cfg, err := buildConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	catalog, err := cfg.LoadCatalog()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Loaded grid catalog: %d cells\n", catalog.Len())

	resolution, err := accessviz.ResolveIdentifiers(cfg.CellIDs(), cfg.DataDir, catalog)
	if err != nil {
		fmt.Println(err)
		return
	}
	if cfg.ManifestFile != "" {
		if err := resolution.WriteManifest(cfg.ManifestFile); err != nil {
			fmt.Println(err)
			return
		}
	}

	var writer accessviz.LayerWriter
	if cfg.OutputFormat == "gpkg" {
		gpkgWriter, err := accessviz.NewGeoPackageWriter(cfg.GeoPackage)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer gpkgWriter.Close()
		writer = gpkgWriter
	} else {
		geojsonWriter, err := accessviz.NewGeoJSONWriter(cfg.OutputDir)
		if err != nil {
			fmt.Println(err)
			return
		}
		writer = geojsonWriter
	}

	post := func(layer *accessviz.JoinedLayer) error {
		if cfg.Compare != nil {
			result, err := accessviz.Compare(layer, cfg.Compare.ModeA, cfg.Compare.ModeB)
			if err != nil {
				return err
			}
			if err := writer.WriteLayer(result.AsLayer()); err != nil {
				return err
			}
		}
		if cfg.Render != nil && layer.Name == fmt.Sprintf("%d", cfg.Render.Focus) {
			options := accessviz.RenderOptions{
				Mode:    cfg.Render.Mode,
				Focus:   accessviz.CellID(cfg.Render.Focus),
				Classes: cfg.Render.Classes,
			}
			var fileName string
			var err error
			if cfg.Render.Map == "static" {
				fileName, err = accessviz.RenderStatic(layer, catalog, options, cfg.OutputDir)
			} else {
				fileName, err = accessviz.RenderInteractiveFile(layer, catalog, options, cfg.OutputDir)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Rendered map: %s\n", fileName)
		}
		return nil
	}

	report := &accessviz.BatchReport{Unresolved: resolution.Unresolved}
	if len(resolution.Resolved) > 0 {
		report, err = accessviz.JoinBatch(resolution.Resolved, catalog, writer, post)
		if err != nil {
			fmt.Println(err)
			return
		}
		report.Unresolved = resolution.Unresolved
	}
	fmt.Println(report.Summary())
}

func buildConfig() (*accessviz.RunConfig, error) {
	if *confFile != "" {
		return accessviz.LoadRunConfig(*confFile)
	}
	if *idStr == "" {
		return nil, accessviz.ErrEmptyInput
	}
	ids := []int64{}
	for _, part := range strings.Split(*idStr, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value for flag ids: %s", part)
		}
		ids = append(ids, id)
	}
	cfg := &accessviz.RunConfig{
		GridFile:     *gridFile,
		GridFormat:   *gridFormat,
		DataDir:      *dataDir,
		OutputDir:    *outDir,
		OutputFormat: *outFormat,
		GeoPackage:   *gpkgFile,
		ManifestFile: *manifest,
		IDs:          ids,
	}
	if *compareStr != "" {
		parts := strings.Split(*compareStr, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad value for flag compare: expected two mode columns separated by a comma")
		}
		cfg.Compare = &accessviz.CompareConfig{ModeA: strings.TrimSpace(parts[0]), ModeB: strings.TrimSpace(parts[1])}
	}
	if *renderMode != "" {
		if err := accessviz.CheckMode(*renderMode); err != nil {
			return nil, err
		}
		cfg.Render = &accessviz.RenderConfig{Mode: *renderMode, Focus: *renderFocus, Map: *renderMap}
	}
	return cfg, nil
}
