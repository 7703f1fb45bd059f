package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bifacial-tilt/internal/model"
)

func TestPVWattsModelValidate(t *testing.T) {
	m := NewPVWattsModel()
	require.NoError(t, m.Validate())

	m = NewPVWattsModel()
	m.Module.PdcW = 0
	assert.Error(t, m.Validate())

	m = NewPVWattsModel()
	m.Inverter.Efficiency = 1.5
	assert.Error(t, m.Validate())

	m = NewPVWattsModel()
	m.Inverter.PacoW = -10
	assert.Error(t, m.Validate())
}

func TestPVWattsACPower(t *testing.T) {
	m := NewPVWattsModel()
	ac, err := m.ACPower(model.SiteGeometry{}, []float64{0, -5, 200, 600, 1000})
	require.NoError(t, err)
	require.Len(t, ac, 5)

	// No output without irradiance.
	assert.Zero(t, ac[0])
	assert.Zero(t, ac[1])

	// Output rises with irradiance below the inverter rating.
	assert.Greater(t, ac[2], 0.0)
	assert.Greater(t, ac[3], ac[2])
	assert.Greater(t, ac[4], ac[3])
	assert.LessOrEqual(t, ac[4], m.Inverter.PacoW)
}

func TestPVWattsClipsAtInverterRating(t *testing.T) {
	m := NewPVWattsModel()
	ac, err := m.ACPower(model.SiteGeometry{}, []float64{1200})
	require.NoError(t, err)
	assert.Equal(t, m.Inverter.PacoW, ac[0])
}

func TestPVWattsHotterCellsProduceLess(t *testing.T) {
	cool := NewPVWattsModel()
	cool.AirTempC = 0
	hot := NewPVWattsModel()
	hot.AirTempC = 40

	coolAC, err := cool.ACPower(model.SiteGeometry{}, []float64{600})
	require.NoError(t, err)
	hotAC, err := hot.ACPower(model.SiteGeometry{}, []float64{600})
	require.NoError(t, err)

	assert.Greater(t, coolAC[0], hotAC[0])
}

func TestPVWattsInvalidModelFailsACPower(t *testing.T) {
	m := NewPVWattsModel()
	m.Module.RefIrrWm2 = 0
	_, err := m.ACPower(model.SiteGeometry{}, []float64{500})
	assert.Error(t, err)
}
