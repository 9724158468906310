package inkwell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// PainterConfig configures a Painter. Zero values are not defaults; start
// from DefaultPainterConfig.
type PainterConfig struct {
	// Sort is the inking region's sort. The toon region sorts at Sort-1.
	Sort       int     `yaml:"sort" toml:"sort"`
	StepMin    float64 `yaml:"step_min" toml:"step_min"`
	StepMax    float64 `yaml:"step_max" toml:"step_max"`
	StepCount  float64 `yaml:"step_count" toml:"step_count"`
	Separation float64 `yaml:"separation" toml:"separation"`
	Cutoff     float64 `yaml:"cutoff" toml:"cutoff"`
	LightPos   Vec3    `yaml:"light_pos" toml:"light_pos"`
	// CameraSpotLight makes the light follow the main camera.
	CameraSpotLight bool `yaml:"camera_spot_light" toml:"camera_spot_light"`
	// Presets are step functions selectable with Painter.ApplyPreset.
	Presets []StepFunction `yaml:"presets" toml:"presets"`
}

// DefaultPainterConfig returns the default painter configuration.
func DefaultPainterConfig() PainterConfig {
	return PainterConfig{
		Sort:       DefaultSort,
		StepMin:    DefaultStepMin,
		StepMax:    DefaultStepMax,
		StepCount:  DefaultStepCount,
		Separation: DefaultSeparation,
		Cutoff:     DefaultCutoff,
		LightPos:   DefaultLightPos,
	}
}

// ErrConfigFormat is returned for configuration files with an unknown
// extension.
var ErrConfigFormat = errors.New("inkwell: unsupported config format")

// LoadPainterConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over
// DefaultPainterConfig. Keys missing from the file keep their defaults.
func LoadPainterConfig(path string) (PainterConfig, error) {
	cfg := DefaultPainterConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read painter config: %w", err)
	}
	if err := decodePainterConfig(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("parse painter config %s: %w", path, err)
	}
	return cfg, nil
}

func decodePainterConfig(data []byte, ext string, cfg *PainterConfig) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}
}

// SavePainterConfig writes cfg as YAML or TOML, chosen by path's extension.
func SavePainterConfig(path string, cfg PainterConfig) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode painter config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write painter config: %w", err)
	}
	return nil
}
