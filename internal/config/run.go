package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/amr-stencil/internal/amr"
	"github.com/banshee-data/amr-stencil/internal/stencil"
)

// DefaultConfigPath is the path to the canonical run defaults file.
const DefaultConfigPath = "config/amr.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// RunConfig holds the parameters of one benchmark run. Every field is
// optional: nil means "not specified" and the Get* accessors fall back to
// the built-in default, so partial files and partial overrides are safe.
type RunConfig struct {
	Iterations         *int    `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	GridSize           *int    `json:"grid_size,omitempty" yaml:"grid_size,omitempty"`
	RefinementCells    *int    `json:"refinement_cells,omitempty" yaml:"refinement_cells,omitempty"`
	RefinementLevel    *int    `json:"refinement_level,omitempty" yaml:"refinement_level,omitempty"`
	RefinementPeriod   *int    `json:"refinement_period,omitempty" yaml:"refinement_period,omitempty"`
	RefinementDuration *int    `json:"refinement_duration,omitempty" yaml:"refinement_duration,omitempty"`
	SubIterations      *int    `json:"sub_iterations,omitempty" yaml:"sub_iterations,omitempty"`
	TileSize           *int    `json:"tile_size,omitempty" yaml:"tile_size,omitempty"`
	Radius             *int    `json:"radius,omitempty" yaml:"radius,omitempty"`
	Shape              *string `json:"shape,omitempty" yaml:"shape,omitempty"`
	Workers            *int    `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

// Int returns a pointer to v, for building configs in code.
func Int(v int) *int { return ptrInt(v) }

// String returns a pointer to v, for building configs in code.
func String(v string) *string { return ptrString(v) }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a .json, .yaml or .yml file.
// Fields omitted from the file stay nil.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", strings.TrimPrefix(ext, "."), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *RunConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadRunConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that can be judged on their own. Cross-field
// rules (duration <= period, refinement inside the grid) are left to
// amr.Params.Validate once the configuration is complete.
func (c *RunConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *int
	}{
		{"iterations", c.Iterations},
		{"grid_size", c.GridSize},
		{"refinement_cells", c.RefinementCells},
		{"refinement_level", c.RefinementLevel},
		{"refinement_period", c.RefinementPeriod},
		{"refinement_duration", c.RefinementDuration},
		{"sub_iterations", c.SubIterations},
		{"radius", c.Radius},
		{"workers", c.Workers},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f.name, *f.v)
		}
	}

	if c.Shape != nil {
		if _, err := stencil.ParseShape(*c.Shape); err != nil {
			return err
		}
	}
	return nil
}

// GetIterations returns the iterations value or the default.
func (c *RunConfig) GetIterations() int {
	if c.Iterations == nil {
		return 10
	}
	return *c.Iterations
}

// GetGridSize returns the grid_size value or the default.
func (c *RunConfig) GetGridSize() int {
	if c.GridSize == nil {
		return 100
	}
	return *c.GridSize
}

// GetRefinementCells returns the refinement_cells value or the default.
func (c *RunConfig) GetRefinementCells() int {
	if c.RefinementCells == nil {
		return 20
	}
	return *c.RefinementCells
}

// GetRefinementLevel returns the refinement_level value or the default.
func (c *RunConfig) GetRefinementLevel() int {
	if c.RefinementLevel == nil {
		return 1
	}
	return *c.RefinementLevel
}

// GetRefinementPeriod returns the refinement_period value or the default.
func (c *RunConfig) GetRefinementPeriod() int {
	if c.RefinementPeriod == nil {
		return 4
	}
	return *c.RefinementPeriod
}

// GetRefinementDuration returns the refinement_duration value or the default.
func (c *RunConfig) GetRefinementDuration() int {
	if c.RefinementDuration == nil {
		return 2
	}
	return *c.RefinementDuration
}

// GetSubIterations returns the sub_iterations value or the default.
func (c *RunConfig) GetSubIterations() int {
	if c.SubIterations == nil {
		return 1
	}
	return *c.SubIterations
}

// GetTileSize returns the tile_size value or the default (untiled).
func (c *RunConfig) GetTileSize() int {
	if c.TileSize == nil {
		return 0
	}
	return *c.TileSize
}

// GetRadius returns the radius value or the default.
func (c *RunConfig) GetRadius() int {
	if c.Radius == nil {
		return 2
	}
	return *c.Radius
}

// GetShape returns the shape name or the default.
func (c *RunConfig) GetShape() string {
	if c.Shape == nil || *c.Shape == "" {
		return "star"
	}
	return *c.Shape
}

// GetWorkers returns the workers value or the default (serial).
func (c *RunConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// Merge returns a copy of c with every field that other sets overlaid.
func (c *RunConfig) Merge(other *RunConfig) *RunConfig {
	merged := *c
	if other == nil {
		return &merged
	}
	pick := func(dst **int, src *int) {
		if src != nil {
			*dst = ptrInt(*src)
		}
	}
	pick(&merged.Iterations, other.Iterations)
	pick(&merged.GridSize, other.GridSize)
	pick(&merged.RefinementCells, other.RefinementCells)
	pick(&merged.RefinementLevel, other.RefinementLevel)
	pick(&merged.RefinementPeriod, other.RefinementPeriod)
	pick(&merged.RefinementDuration, other.RefinementDuration)
	pick(&merged.SubIterations, other.SubIterations)
	pick(&merged.TileSize, other.TileSize)
	pick(&merged.Radius, other.Radius)
	pick(&merged.Workers, other.Workers)
	if other.Shape != nil {
		merged.Shape = ptrString(*other.Shape)
	}
	return &merged
}

// ToParams resolves the configuration into run parameters and validates
// them. Errors from invalid values wrap amr.ErrInvalidInput.
func (c *RunConfig) ToParams() (amr.Params, error) {
	shape, err := stencil.ParseShape(c.GetShape())
	if err != nil {
		return amr.Params{}, fmt.Errorf("%w: %v", amr.ErrInvalidInput, err)
	}
	p := amr.Params{
		Iterations:      c.GetIterations(),
		GridSize:        c.GetGridSize(),
		RefinementCells: c.GetRefinementCells(),
		RefinementLevel: c.GetRefinementLevel(),
		Period:          c.GetRefinementPeriod(),
		Duration:        c.GetRefinementDuration(),
		SubIterations:   c.GetSubIterations(),
		TileSize:        c.GetTileSize(),
		Radius:          c.GetRadius(),
		Shape:           shape,
		Workers:         c.GetWorkers(),
	}
	if err := p.Validate(); err != nil {
		return amr.Params{}, err
	}
	return p, nil
}
