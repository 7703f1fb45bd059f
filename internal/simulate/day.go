package simulate

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/solar"
)

const (
	// StepMinutes is the intra-day sampling cadence.
	StepMinutes = 20
	// samplesPerDay = 24h / 20min.
	samplesPerDay = 24 * 60 / StepMinutes
	// kwhDivisor converts a summed AC watt trace at 20-minute cadence into
	// kWh: sum(W) * (1/3 h) / 1000.
	kwhDivisor = 3000.0

	// DefaultAlbedo is used for months absent from the albedo profile.
	DefaultAlbedo = 0.2

	axisAzimuth = 180.0 // south-facing axis
	observedRow = 1     // second row of the modeled set
)

// Inputs bundles everything one energy evaluation needs besides the date.
// Profiles are read-only, so Inputs can be shared across parallel day samples.
type Inputs struct {
	Geometry   model.SiteGeometry
	Albedo     model.MonthlyProfile // ground albedo by month
	RowHeights model.MonthlyProfile // snow-adjusted reveal height by month
	Power      solar.PowerModel
}

func (in Inputs) validate() error {
	if err := in.Geometry.Validate(); err != nil {
		return fmt.Errorf("geometry invalid: %w", err)
	}
	if in.Power == nil {
		return fmt.Errorf("power model is nil")
	}
	return nil
}

// DayResult is the energy produced over one representative 24-hour window.
type DayResult struct {
	Date      time.Time
	RowHeight float64
	EnergyKWh float64
}

// DayEnergy simulates one representative day: it samples the day at 20-minute
// cadence in the site's local timezone, resolves per-timestamp albedo and the
// day's single row height from the monthly profiles, runs the irradiance
// chain and the power model, and reduces the AC trace to kWh.
//
// Pure function of its inputs; physics-model failures propagate unchanged.
func DayEnergy(in Inputs, day time.Time) (DayResult, error) {
	if err := in.validate(); err != nil {
		return DayResult{}, err
	}

	geom := in.Geometry
	loc, err := geom.Location()
	if err != nil {
		return DayResult{}, err
	}
	rows, err := geom.ArrayClass.RowCount()
	if err != nil {
		return DayResult{}, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	times := dayTimestamps(start)

	rowHeight := resolveRowHeight(in.RowHeights, geom, start)

	tracker := solar.TrackerConfig{
		AxisTilt:    geom.AxisTilt,
		AxisAzimuth: axisAzimuth,
		MaxAngle:    geom.MaxAngle,
		GCR:         geom.GCR,
		Backtrack:   true,
	}
	bifacial := solar.BifacialConfig{
		GCR:         geom.GCR,
		RowHeight:   rowHeight,
		RowWidth:    geom.RowWidth,
		Rows:        rows,
		ObservedRow: observedRow,
	}

	effective := make([]float64, len(times))
	for i, ts := range times {
		pos := solar.SolarPosition(ts, geom.Latitude, geom.Longitude)
		irr := solar.ClearSky(pos, ts)
		ornt := tracker.Orientation(pos)

		albedo := resolveAlbedo(in.Albedo, ts)
		abs, err := bifacial.Absorbed(pos, ornt, irr, albedo)
		if err != nil {
			return DayResult{}, fmt.Errorf("bifacial irradiance at %s: %w", ts.Format(time.RFC3339), err)
		}
		effective[i] = abs.Front + geom.Bifaciality*abs.Rear
	}

	ac, err := in.Power.ACPower(geom, effective)
	if err != nil {
		return DayResult{}, fmt.Errorf("power model: %w", err)
	}
	if len(ac) != len(times) {
		return DayResult{}, fmt.Errorf("power model returned %d samples, want %d", len(ac), len(times))
	}

	return DayResult{
		Date:      start,
		RowHeight: rowHeight,
		EnergyKWh: floats.Sum(ac) / kwhDivisor,
	}, nil
}

// dayTimestamps returns the 72 sample instants covering [start, start+24h).
func dayTimestamps(start time.Time) []time.Time {
	times := make([]time.Time, samplesPerDay)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * StepMinutes * time.Minute)
	}
	return times
}

// resolveAlbedo looks the timestamp's month up in the albedo profile, falling
// back to DefaultAlbedo for months without data.
func resolveAlbedo(p model.MonthlyProfile, ts time.Time) float64 {
	return p.Value(ts.Month(), DefaultAlbedo)
}

// resolveRowHeight picks the single row height for the whole day, falling
// back to the nominal (un-adjusted) reveal height.
func resolveRowHeight(p model.MonthlyProfile, geom model.SiteGeometry, day time.Time) float64 {
	return p.Value(day.Month(), geom.RevealHeight)
}
