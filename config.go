package accessviz

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CompareConfig requests one comparison over the joined layers.
// ModeA is always the minuend: diff = mode_a - mode_b.
type CompareConfig struct {
	ModeA string `yaml:"mode_a" validate:"required"`
	ModeB string `yaml:"mode_b" validate:"required"`
}

// RenderConfig requests a map of one measurement column.
type RenderConfig struct {
	Mode    string `yaml:"mode" validate:"required"`
	Focus   int64  `yaml:"focus" validate:"required"`
	Map     string `yaml:"map" validate:"omitempty,oneof=static interactive"`
	Classes int    `yaml:"classes" validate:"gte=0"`
}

// RunConfig is one batch run: where the grid and the matrix folders
// live, which identifiers to process and what to produce.
type RunConfig struct {
	GridFile     string         `yaml:"grid_file" validate:"required"`
	GridFormat   string         `yaml:"grid_format" validate:"omitempty,oneof=geojson osmpbf"`
	DataDir      string         `yaml:"data_dir" validate:"required"`
	OutputDir    string         `yaml:"output_dir"`
	OutputFormat string         `yaml:"output_format" validate:"omitempty,oneof=geojson gpkg"`
	GeoPackage   string         `yaml:"geopackage"`
	ManifestFile string         `yaml:"manifest_file"`
	IDs          []int64        `yaml:"ids" validate:"required,min=1"`
	Compare      *CompareConfig `yaml:"compare"`
	Render       *RenderConfig  `yaml:"render"`
}

// LoadRunConfig reads and validates a YAML run configuration, applying
// defaults after validation.
func LoadRunConfig(fileName string) (*RunConfig, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read run configuration")
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "Can't decode run configuration")
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "Invalid run configuration")
	}
	if cfg.Compare != nil {
		if err := v.Struct(cfg.Compare); err != nil {
			return nil, errors.Wrap(err, "Invalid compare block")
		}
	}
	if cfg.Render != nil {
		if err := v.Struct(cfg.Render); err != nil {
			return nil, errors.Wrap(err, "Invalid render block")
		}
		if cfg.Render.Map == "" {
			cfg.Render.Map = "interactive"
		}
		if cfg.Render.Classes == 0 {
			cfg.Render.Classes = defaultClasses
		}
	}
	if cfg.GridFormat == "" {
		cfg.GridFormat = "geojson"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "geojson"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.GeoPackage == "" {
		cfg.GeoPackage = "TravelMatrix.gpkg"
	}
	return &cfg, nil
}

// CellIDs returns the requested identifiers as CellID values, in
// request order.
func (cfg *RunConfig) CellIDs() []CellID {
	ids := make([]CellID, len(cfg.IDs))
	for i, id := range cfg.IDs {
		ids[i] = CellID(id)
	}
	return ids
}

// LoadCatalog loads the grid catalog from the configured source.
func (cfg *RunConfig) LoadCatalog() (*GridCatalog, error) {
	if cfg.GridFormat == "osmpbf" {
		return LoadGridCatalogOSM(cfg.GridFile)
	}
	return LoadGridCatalog(cfg.GridFile)
}
