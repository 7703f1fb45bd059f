package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bifacial-tilt/internal/model"
)

const validSiteYAML = `
site:
  name: test-site
  lat: 35.0
  lon: -106.0
  tz: US/Mountain
  gcr: 0.4
  max_angle: 60
  pvrow_width: 2
  bifaciality: 0.7
  height: 1.5
  array_class: External
  axis_tilt: 30
`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", validSiteYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	geom, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, "test-site", geom.Name)
	assert.Equal(t, model.ArrayExternal, geom.ArrayClass)
	assert.Equal(t, 30.0, geom.AxisTilt)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", validSiteYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Unset blocks pick up the standard module, inverter, and search space.
	assert.Equal(t, 400.0, cfg.PowerModel.Module.PdcW)
	assert.Equal(t, 380.0, cfg.PowerModel.Inverter.PacoW)
	assert.Equal(t, 20.0, cfg.PowerModel.AirTempC)
	assert.Equal(t, 20, cfg.Optimizer.Trials)
	assert.Equal(t, 0.0, cfg.Optimizer.MinTilt)
	assert.Equal(t, 60.0, cfg.Optimizer.MaxTilt)

	tilt := cfg.Tilt()
	assert.Equal(t, 0.0, tilt.LowerBound)
	assert.Equal(t, 60.0, tilt.UpperBound)
	assert.Equal(t, 20, tilt.Trials)

	require.NoError(t, cfg.Power().Validate())
}

func TestLoadMergesSiteFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "site.yaml", validSiteYAML)
	main := writeConfig(t, dir, "config.yaml", `
site_file: site.yaml
site:
  gcr: 0.5
  axis_tilt: 10
optimizer:
  trials: 5
`)

	cfg, err := Load(main)
	require.NoError(t, err)

	// Inline fields override the site file; the rest carries through.
	assert.Equal(t, 0.5, cfg.Site.GCR)
	assert.Equal(t, 10.0, cfg.Site.AxisTilt)
	assert.Equal(t, "test-site", cfg.Site.Name)
	assert.Equal(t, "US/Mountain", cfg.Site.Timezone)
	assert.Equal(t, 5, cfg.Optimizer.Trials)
}

func TestLoadRejectsInvalidSite(t *testing.T) {
	dir := t.TempDir()

	bad := writeConfig(t, dir, "bad-class.yaml", `
site:
  name: x
  lat: 35
  lon: -106
  tz: US/Mountain
  gcr: 0.4
  max_angle: 60
  pvrow_width: 2
  bifaciality: 0.7
  height: 1.5
  array_class: Edge
  axis_tilt: 30
`)
	_, err := Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site config invalid")

	badBounds := writeConfig(t, dir, "bad-bounds.yaml", validSiteYAML+`
optimizer:
  min_tilt: 50
  max_tilt: 40
`)
	_, err = Load(badBounds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tilt bounds")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadUncheckedSkipsValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "partial.yaml", "site:\n  name: partial\n")
	cfg, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Site.Name)
	assert.Error(t, cfg.Validate())
}

func TestMergeSite(t *testing.T) {
	base := SiteConfig{Name: "base", Latitude: 35, GCR: 0.4, ArrayClass: "External"}
	out := MergeSite(base, SiteConfig{GCR: 0.5, ArrayClass: "Internal"})

	assert.Equal(t, "base", out.Name)
	assert.Equal(t, 35.0, out.Latitude)
	assert.Equal(t, 0.5, out.GCR)
	assert.Equal(t, "Internal", out.ArrayClass)

	// Zero-valued overrides leave the base untouched.
	assert.Equal(t, base, MergeSite(base, SiteConfig{}))
}
