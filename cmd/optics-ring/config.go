package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ringgen "github.com/max-flug/optics-ring-generator"
	"github.com/max-flug/optics-ring-generator/helpers/matter"
	"github.com/max-flug/optics-ring-generator/profile"
	"github.com/spf13/viper"
)

const envPrefix = "OPTICS_RING"

// fileConfig mirrors ringgen.Config with the material selected by name.
type fileConfig struct {
	Profile     profile.Config `mapstructure:"profile"`
	Limits      matter.Limits  `mapstructure:"limits"`
	Material    string         `mapstructure:"material"`
	AtomicWrite bool           `mapstructure:"atomic_write"`
	OutputDir   string         `mapstructure:"output_dir"`
}

// newViper returns a viper instance reading OPTICS_RING_* environment
// variables, with every configuration key defaulted so nested keys can be
// overridden from the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := ringgen.DefaultConfig()
	p := def.Profile
	for key, val := range map[string]any{
		"profile.segments":                p.Segments,
		"profile.scale_above_diameter_mm": p.ScaleAboveDiameterMM,
		"profile.max_segments":            p.MaxSegments,
		"profile.arc_facets":              p.ArcFacets,
		"profile.lip_fraction":            p.LipFraction,
		"profile.min_height_mm":           p.MinHeightMM,
		"profile.height_fraction":         p.HeightFraction,
		"profile.pad_segments":            p.PadSegments,
		"profile.pad_width_fraction":      p.PadWidthFraction,
		"profile.pad_height_fraction":     p.PadHeightFraction,
		"profile.pad_max_height_mm":       p.PadMaxHeightMM,
		"limits.min_wall_thickness_mm":    def.Limits.MinWallThicknessMM,
		"limits.min_inner_diameter_mm":    def.Limits.MinInnerDiameterMM,
		"limits.bed_width_mm":             def.Limits.BedWidthMM,
		"limits.bed_depth_mm":             def.Limits.BedDepthMM,
		"limits.bed_height_mm":            def.Limits.BedHeightMM,
		"material":                        def.Material.Name(),
		"atomic_write":                    def.AtomicWrite,
		"output_dir":                      "",
	} {
		v.SetDefault(key, val)
	}
	return v
}

// readConfigFile loads cfgFile, or .optics-ring.yaml from the home
// directory when cfgFile is empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Debug("no home directory, skipping config file", "error", err)
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".optics-ring")
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		slog.Debug("using config file", "file", v.ConfigFileUsed())
	case cfgFile == "" && errors.As(err, &notFound):
		slog.Debug("no config file found")
	default:
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// loadConfig decodes the generator configuration from v.
func loadConfig(v *viper.Viper) (ringgen.Config, fileConfig, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return ringgen.Config{}, fc, fmt.Errorf("decoding config: %w", err)
	}
	mat, err := matter.MaterialByName(fc.Material)
	if err != nil {
		return ringgen.Config{}, fc, err
	}
	cfg := ringgen.Config{
		Profile:     fc.Profile,
		Limits:      fc.Limits,
		Material:    mat,
		AtomicWrite: fc.AtomicWrite,
	}
	if err := cfg.Validate(); err != nil {
		return ringgen.Config{}, fc, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, fc, nil
}
