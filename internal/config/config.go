package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/solar"
	"bifacial-tilt/internal/tiltopt"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the site block from a separate YAML (e.g.
	// examples/sites/*.yaml). If both SiteFile and Site are provided, Site
	// overrides SiteFile field by field.
	SiteFile string     `yaml:"site_file"`
	Site     SiteConfig `yaml:"site"`

	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	PowerModel PowerModelConfig `yaml:"power_model"`
}

type SiteConfig struct {
	Name         string  `yaml:"name"`
	Latitude     float64 `yaml:"lat"`
	Longitude    float64 `yaml:"lon"`
	Timezone     string  `yaml:"tz"`
	GCR          float64 `yaml:"gcr"`
	MaxAngle     float64 `yaml:"max_angle"`
	RowWidth     float64 `yaml:"pvrow_width"`
	Bifaciality  float64 `yaml:"bifaciality"`
	RevealHeight float64 `yaml:"height"`
	ArrayClass   string  `yaml:"array_class"`
	AxisTilt     float64 `yaml:"axis_tilt"`
}

type DataConfig struct {
	AlbedoDir string          `yaml:"albedo_dir"`
	SnowCSV   string          `yaml:"snow_csv"`
	SurveyCSV string          `yaml:"survey_csv"`
	Meteostat MeteostatConfig `yaml:"meteostat"`
}

// MeteostatConfig configures the online snow source, used when snow_csv is
// not given.
type MeteostatConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	StartYear int    `yaml:"start_year"`
	EndYear   int    `yaml:"end_year"`
}

type SimulationConfig struct {
	Year    int `yaml:"year"`
	Workers int `yaml:"workers"`
}

type OptimizerConfig struct {
	Trials        int     `yaml:"trials"`
	StartupTrials int     `yaml:"startup_trials"`
	Seed          int64   `yaml:"seed"`
	MinTilt       float64 `yaml:"min_tilt"`
	MaxTilt       float64 `yaml:"max_tilt"`
}

type PowerModelConfig struct {
	Module      solar.ModuleParams      `yaml:"module"`
	Temperature solar.TemperatureParams `yaml:"temperature"`
	Inverter    solar.InverterParams    `yaml:"inverter"`
	AirTempC    float64                 `yaml:"air_temp_c"`
	WindSpeed   float64                 `yaml:"wind_speed"`
}

// Load reads, merges, defaults, and validates a config.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.SiteFile != "" {
		sitePath := c.SiteFile
		if !filepath.IsAbs(sitePath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path (relative
			// to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), sitePath)
			if _, err := os.Stat(cand); err == nil {
				sitePath = cand
			}
		}
		loaded, err := loadSiteFile(sitePath)
		if err != nil {
			return nil, err
		}
		c.Site = MergeSite(loaded, c.Site)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.PowerModel.Module.PdcW == 0 {
		c.PowerModel.Module = solar.DefaultModuleParams()
	}
	if c.PowerModel.Temperature == (solar.TemperatureParams{}) {
		c.PowerModel.Temperature = solar.DefaultTemperatureParams()
	}
	if c.PowerModel.Inverter.PacoW == 0 {
		c.PowerModel.Inverter = solar.DefaultInverterParams()
	}
	if c.PowerModel.AirTempC == 0 {
		c.PowerModel.AirTempC = 20
	}
	if c.PowerModel.WindSpeed == 0 {
		c.PowerModel.WindSpeed = 1
	}
	if c.Optimizer.Trials == 0 {
		c.Optimizer.Trials = 20
	}
	if c.Optimizer.MinTilt == 0 && c.Optimizer.MaxTilt == 0 {
		c.Optimizer.MaxTilt = 60
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate the site block by constructing a model.SiteGeometry.
	if _, err := c.Geometry(); err != nil {
		return fmt.Errorf("site config invalid: %w", err)
	}
	if c.Optimizer.MaxTilt <= c.Optimizer.MinTilt {
		return errors.New("optimizer tilt bounds invalid: max_tilt must be > min_tilt")
	}
	if err := c.Power().Validate(); err != nil {
		return fmt.Errorf("power model config invalid: %w", err)
	}
	return nil
}

// Geometry builds the validated simulation geometry from the site block.
func (c *Config) Geometry() (model.SiteGeometry, error) {
	return model.NewSiteGeometry(model.SiteGeometry{
		Name:         c.Site.Name,
		Latitude:     c.Site.Latitude,
		Longitude:    c.Site.Longitude,
		Timezone:     c.Site.Timezone,
		GCR:          c.Site.GCR,
		MaxAngle:     c.Site.MaxAngle,
		RowWidth:     c.Site.RowWidth,
		Bifaciality:  c.Site.Bifaciality,
		RevealHeight: c.Site.RevealHeight,
		ArrayClass:   model.ArrayClass(c.Site.ArrayClass),
		AxisTilt:     c.Site.AxisTilt,
	})
}

// Power builds the configured power model.
func (c *Config) Power() *solar.PVWattsModel {
	return &solar.PVWattsModel{
		Module:      c.PowerModel.Module,
		Temperature: c.PowerModel.Temperature,
		Inverter:    c.PowerModel.Inverter,
		AirTempC:    c.PowerModel.AirTempC,
		WindSpeed:   c.PowerModel.WindSpeed,
	}
}

// Tilt returns the optimizer search configuration.
func (c *Config) Tilt() tiltopt.Config {
	return tiltopt.Config{
		LowerBound:    c.Optimizer.MinTilt,
		UpperBound:    c.Optimizer.MaxTilt,
		Trials:        c.Optimizer.Trials,
		StartupTrials: c.Optimizer.StartupTrials,
		Seed:          c.Optimizer.Seed,
	}
}

type siteFileWrapper struct {
	Site SiteConfig `yaml:"site"`
}

func loadSiteFile(path string) (SiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, err
	}
	var w siteFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SiteConfig{}, err
	}
	return w.Site, nil
}

// MergeSite overlays non-zero fields from override onto base.
// This is used when loading a site file and then applying overrides from the
// main config or an API request.
func MergeSite(base, override SiteConfig) SiteConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Latitude != 0 {
		out.Latitude = override.Latitude
	}
	if override.Longitude != 0 {
		out.Longitude = override.Longitude
	}
	if override.Timezone != "" {
		out.Timezone = override.Timezone
	}
	if override.GCR != 0 {
		out.GCR = override.GCR
	}
	if override.MaxAngle != 0 {
		out.MaxAngle = override.MaxAngle
	}
	if override.RowWidth != 0 {
		out.RowWidth = override.RowWidth
	}
	if override.Bifaciality != 0 {
		out.Bifaciality = override.Bifaciality
	}
	if override.RevealHeight != 0 {
		out.RevealHeight = override.RevealHeight
	}
	if override.ArrayClass != "" {
		out.ArrayClass = override.ArrayClass
	}
	if override.AxisTilt != 0 {
		out.AxisTilt = override.AxisTilt
	}
	return out
}
