package main

import (
	"flag"
	"fmt"
	"time"

	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/profile"
	"bifacial-tilt/internal/simulate"
	"bifacial-tilt/internal/solar"
	"bifacial-tilt/internal/tiltopt"
)

// Demo:
// - Build synthetic albedo and snow profiles (snowy winter, bare summer)
// - Run one annual estimate at a fixed tilt with the built-in power model
// - Run the tilt optimizer and print the trial table
func main() {
	tilt := flag.Float64("tilt", 30, "Axis tilt for the fixed estimate (degrees)")
	trials := flag.Int("trials", 20, "Optimizer trial budget")
	seed := flag.Int64("seed", 42, "Optimizer random seed")
	flag.Parse()

	geom, err := model.NewSiteGeometry(model.SiteGeometry{
		Name:         "demo-site",
		Latitude:     35,
		Longitude:    -106,
		Timezone:     "US/Mountain",
		GCR:          0.4,
		MaxAngle:     60,
		RowWidth:     2,
		Bifaciality:  0.7,
		RevealHeight: 1.5,
		ArrayClass:   model.ArrayExternal,
		AxisTilt:     *tilt,
	})
	if err != nil {
		panic(err)
	}

	// Snowy ground is bright: winter albedo up, summer near bare-soil 0.2.
	albedo := model.NewMonthlyProfile(map[time.Month]float64{
		time.January: 0.55, time.February: 0.45, time.March: 0.3,
		time.April: 0.22, time.May: 0.2, time.June: 0.2,
		time.July: 0.2, time.August: 0.2, time.September: 0.2,
		time.October: 0.22, time.November: 0.35, time.December: 0.5,
	})

	// Synthetic daily snow records: 200mm depth through winter months.
	var records []profile.DailyRecord
	for d := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2022; d = d.AddDate(0, 0, 1) {
		rec := profile.DailyRecord{Date: d}
		if d.Month() <= time.February || d.Month() == time.December {
			rec.SnowDepthMM = 200
		}
		records = append(records, rec)
	}
	heights := profile.HeightProfile(records, geom.RevealHeight)

	in := simulate.Inputs{
		Geometry:   geom,
		Albedo:     albedo,
		RowHeights: heights,
		Power:      solar.NewPVWattsModel(),
	}

	res, err := simulate.AnnualEstimate(in, simulate.Options{Workers: 4})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Fixed tilt %.1f°: %.2f kWh/year (%d sampled days)\n\n",
		geom.AxisTilt, res.EnergyKWh, res.SampleCount)

	objective := func(axisTilt float64) (float64, error) {
		trialIn := in
		trialIn.Geometry = geom.WithAxisTilt(axisTilt)
		r, err := simulate.AnnualEstimate(trialIn, simulate.Options{Workers: 4})
		if err != nil {
			return 0, err
		}
		return r.EnergyKWh, nil
	}

	result, err := tiltopt.Optimize(objective, tiltopt.Config{
		Trials: *trials,
		Seed:   *seed,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-6s %-12s %s\n", "trial", "tilt(deg)", "energy(kWh)")
	for _, t := range result.Trials {
		fmt.Printf("%-6d %-12.3f %.2f\n", t.Number, t.AxisTilt, t.EnergyKWh)
	}
	fmt.Printf("\nOptimal axis tilt: %.3f°  annual energy: %.2f kWh\n",
		result.BestTilt, result.BestEnergyKWh)
}
