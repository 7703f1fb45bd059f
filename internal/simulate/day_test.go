package simulate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/solar"
)

// constantPower is a stub power model returning the same AC value for every
// sample, regardless of irradiance.
type constantPower struct {
	watts float64
	calls int
}

func (c *constantPower) ACPower(_ model.SiteGeometry, eff []float64) ([]float64, error) {
	c.calls++
	out := make([]float64, len(eff))
	for i := range out {
		out[i] = c.watts
	}
	return out, nil
}

// failingPower always errors.
type failingPower struct{}

func (failingPower) ACPower(_ model.SiteGeometry, _ []float64) ([]float64, error) {
	return nil, errors.New("irradiance did not converge")
}

func testGeometry() model.SiteGeometry {
	return model.SiteGeometry{
		Name:         "test-site",
		Latitude:     35,
		Longitude:    -106,
		Timezone:     "US/Mountain",
		GCR:          0.4,
		MaxAngle:     60,
		RowWidth:     2,
		Bifaciality:  0.7,
		RevealHeight: 1.5,
		ArrayClass:   model.ArrayExternal,
		AxisTilt:     30,
	}
}

func testInputs(pm solar.PowerModel) Inputs {
	return Inputs{
		Geometry:   testGeometry(),
		Albedo:     model.ConstantProfile(0.2),
		RowHeights: model.MonthlyProfile{},
		Power:      pm,
	}
}

func newRealPowerModel() solar.PowerModel {
	return solar.NewPVWattsModel()
}

func TestDayTimestampsCadence(t *testing.T) {
	loc, err := time.LoadLocation("US/Mountain")
	require.NoError(t, err)

	start := time.Date(2021, time.June, 1, 0, 0, 0, 0, loc)
	times := dayTimestamps(start)

	// 24h at 20-minute cadence, start inclusive, end exclusive.
	require.Len(t, times, 72)
	assert.Equal(t, start, times[0])
	assert.Equal(t, start.Add(20*time.Minute), times[1])
	assert.Equal(t, start.Add(23*time.Hour+40*time.Minute), times[71])
}

func TestResolveAlbedoFallback(t *testing.T) {
	loc, _ := time.LoadLocation("US/Mountain")
	jan := time.Date(2021, time.January, 5, 12, 0, 0, 0, loc)
	jul := time.Date(2021, time.July, 5, 12, 0, 0, 0, loc)

	p := model.NewMonthlyProfile(map[time.Month]float64{time.January: 0.55})
	assert.Equal(t, 0.55, resolveAlbedo(p, jan))
	// Months without data use exactly the 0.2 default.
	assert.Equal(t, 0.2, resolveAlbedo(p, jul))
	assert.Equal(t, 0.2, resolveAlbedo(model.MonthlyProfile{}, jan))
}

func TestResolveRowHeightFallback(t *testing.T) {
	loc, _ := time.LoadLocation("US/Mountain")
	geom := testGeometry()
	jan := time.Date(2021, time.January, 1, 0, 0, 0, 0, loc)
	jun := time.Date(2021, time.June, 1, 0, 0, 0, 0, loc)

	p := model.NewMonthlyProfile(map[time.Month]float64{time.January: 1.1})
	assert.Equal(t, 1.1, resolveRowHeight(p, geom, jan))
	// Missing months use the geometry's nominal (un-adjusted) reveal height.
	assert.Equal(t, geom.RevealHeight, resolveRowHeight(p, geom, jun))
}

func TestDayEnergyConstantTrace(t *testing.T) {
	// A unit AC trace (1 per sample) reduces to 72/3000 kWh.
	pm := &constantPower{watts: 1}
	res, err := DayEnergy(testInputs(pm), time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 72.0/3000.0, res.EnergyKWh, 1e-12)
	assert.Equal(t, 1, pm.calls)
}

func TestDayEnergyUsesAdjustedRowHeight(t *testing.T) {
	in := testInputs(&constantPower{watts: 1})
	in.RowHeights = model.NewMonthlyProfile(map[time.Month]float64{time.January: 1.2})

	winter, err := DayEnergy(in, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1.2, winter.RowHeight)

	summer, err := DayEnergy(in, time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, in.Geometry.RevealHeight, summer.RowHeight)
}

func TestDayEnergyInvalidArrayClass(t *testing.T) {
	in := testInputs(&constantPower{watts: 1})
	in.Geometry.ArrayClass = "Edge"
	_, err := DayEnergy(in, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array class")
}

func TestDayEnergyPropagatesPowerModelFailure(t *testing.T) {
	in := testInputs(failingPower{})
	_, err := DayEnergy(in, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not converge")
}

func TestDayEnergyRealModelProducesPower(t *testing.T) {
	in := testInputs(nil)
	in.Power = newRealPowerModel()

	summer, err := DayEnergy(in, time.Date(2021, time.June, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, summer.EnergyKWh, 0.0)

	winter, err := DayEnergy(in, time.Date(2021, time.December, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, winter.EnergyKWh, 0.0)

	// Clear-sky summer days carry more energy than winter days.
	assert.Greater(t, summer.EnergyKWh, winter.EnergyKWh)
}
