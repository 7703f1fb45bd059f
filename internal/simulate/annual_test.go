package simulate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDatesCadence2021(t *testing.T) {
	loc, err := time.LoadLocation("US/Mountain")
	require.NoError(t, err)

	dates := sampleDates(2021, loc)

	// Jan 1, Jan 11, ... Dec 27: 37 samples for a 365-day year.
	require.Len(t, dates, 37)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, loc), dates[0])
	assert.Equal(t, time.Date(2021, time.January, 11, 0, 0, 0, 0, loc), dates[1])
	assert.Equal(t, time.Date(2021, time.December, 27, 0, 0, 0, 0, loc), dates[36])

	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 10), dates[i])
	}
}

func TestSampleDatesLeapYear(t *testing.T) {
	// A leap year still steps by 10 calendar days while start <= Dec 31.
	dates := sampleDates(2020, time.UTC)
	require.NotEmpty(t, dates)
	last := dates[len(dates)-1]
	assert.False(t, last.After(time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, last.AddDate(0, 0, 10).After(time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestAnnualEstimateInvokesEverySampleDay(t *testing.T) {
	pm := &constantPower{watts: 1}
	res, err := AnnualEstimate(testInputs(pm), Options{})
	require.NoError(t, err)

	assert.Equal(t, 37, res.SampleCount)
	assert.Equal(t, 37, pm.calls)
	assert.Len(t, res.Samples, 37)
}

func TestAnnualEstimateScaling(t *testing.T) {
	// Constant per-day energy e scales to e * k * (365/k) == e * 365.
	pm := &constantPower{watts: 1}
	res, err := AnnualEstimate(testInputs(pm), Options{})
	require.NoError(t, err)

	perDay := 72.0 / 3000.0
	assert.InDelta(t, perDay*365, res.EnergyKWh, 1e-9)
}

func TestAnnualEstimateUnitTraceMatchesReference(t *testing.T) {
	// Constant albedo 0.2, no snow adjustment, the documented geometry, and
	// a unit AC trace: (1 * 72 / 3000) * 365 ≈ 8.76 kWh, deterministically.
	in := testInputs(&constantPower{watts: 1})

	first, err := AnnualEstimate(in, Options{})
	require.NoError(t, err)
	second, err := AnnualEstimate(in, Options{})
	require.NoError(t, err)

	assert.InDelta(t, 8.76, first.EnergyKWh, 0.001)
	assert.Equal(t, first.EnergyKWh, second.EnergyKWh)
}

func TestAnnualEstimateParallelMatchesSequential(t *testing.T) {
	in := testInputs(nil)
	in.Power = newRealPowerModel()

	seq, err := AnnualEstimate(in, Options{Workers: 1})
	require.NoError(t, err)
	par, err := AnnualEstimate(in, Options{Workers: 8})
	require.NoError(t, err)

	// Results are indexed by date before summing, so the aggregation is
	// identical regardless of worker count.
	assert.Equal(t, seq.EnergyKWh, par.EnergyKWh)
	assert.Equal(t, seq.SampleCount, par.SampleCount)
}

func TestAnnualEstimateAbortsOnDayFailure(t *testing.T) {
	in := testInputs(failingPower{})

	_, err := AnnualEstimate(in, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample day")

	_, err = AnnualEstimate(in, Options{Workers: 4})
	require.Error(t, err)
}

func TestAnnualEstimateConfigurationErrorBeforeSimulation(t *testing.T) {
	pm := &constantPower{watts: 1}
	in := testInputs(pm)
	in.Geometry.ArrayClass = "Edge"

	_, err := AnnualEstimate(in, Options{})
	require.Error(t, err)
	assert.Zero(t, pm.calls, "no simulation work before configuration errors surface")
}
