package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bifacial-tilt/internal/config"
	"bifacial-tilt/internal/data"
	"bifacial-tilt/internal/layout"
	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/profile"
	"bifacial-tilt/internal/simulate"
	"bifacial-tilt/internal/tiltopt"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "estimate":
		cmdEstimate(os.Args[2:])
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "layout":
		cmdLayout(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli estimate --config examples/config.yaml [--tilt 30] [--out results/samples.csv]")
	fmt.Println("  cli optimize --config examples/config.yaml")
	fmt.Println("  cli layout --survey pvtune_output.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - estimate runs one annual energy estimate at a fixed axis tilt")
	fmt.Println("  - optimize searches axis tilt in the configured bounds for maximum annual energy")
	fmt.Println("  - layout summarizes a tracker survey export and prints the weighted reveal height")
}

func cmdEstimate(args []string) {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	tilt := fs.Float64("tilt", -1, "Optional: override the configured axis tilt (degrees)")
	outPath := fs.String("out", "", "Optional: write per-sample CSV (e.g. results/samples.csv)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	in := buildInputs(cfg)
	if *tilt >= 0 {
		in.Geometry = in.Geometry.WithAxisTilt(*tilt)
	}

	res, err := simulate.AnnualEstimate(in, simulate.Options{
		Year:    cfg.Simulation.Year,
		Workers: cfg.Simulation.Workers,
	})
	if err != nil {
		panic(err)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := simulate.WriteSampleCSV(*outPath, res.Samples); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d sample rows to %s\n", len(res.Samples), *outPath)
	}

	fmt.Printf("Site: %s  axis tilt=%.2f°\n", in.Geometry.Name, in.Geometry.AxisTilt)
	fmt.Printf("Annual energy: %.2f kWh (%d sampled days, scaled x%.3f)\n",
		res.EnergyKWh, res.SampleCount, 365.0/float64(res.SampleCount))
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	in := buildInputs(cfg)
	opts := simulate.Options{
		Year:    cfg.Simulation.Year,
		Workers: cfg.Simulation.Workers,
	}

	objective := func(axisTilt float64) (float64, error) {
		trialIn := in
		trialIn.Geometry = in.Geometry.WithAxisTilt(axisTilt)
		res, err := simulate.AnnualEstimate(trialIn, opts)
		if err != nil {
			return 0, err
		}
		return res.EnergyKWh, nil
	}

	result, err := tiltopt.Optimize(objective, cfg.Tilt())
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-6s %-12s %-14s %s\n", "trial", "tilt(deg)", "energy(kWh)", "status")
	for _, t := range result.Trials {
		status := "ok"
		if t.Failed() {
			status = "failed: " + t.Err.Error()
		}
		fmt.Printf("%-6d %-12.3f %-14.2f %s\n", t.Number, t.AxisTilt, t.EnergyKWh, status)
	}
	fmt.Printf("\nOptimal axis tilt: %.3f°  annual energy: %.2f kWh\n", result.BestTilt, result.BestEnergyKWh)
}

func cmdLayout(args []string) {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	surveyPath := fs.String("survey", "", "Path to tracker-layout survey CSV")
	_ = fs.Parse(args)

	if *surveyPath == "" {
		fmt.Println("--survey is required")
		os.Exit(2)
	}

	summary, err := layout.SummarizeFile(*surveyPath, layout.DefaultSurveyRules())
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-14s %-10s %-8s %s\n", "height", "class", "rows", "modules")
	for _, g := range summary.Groups {
		fmt.Printf("%-14.2f %-10s %-8d %d\n", g.RoundedHeight, g.Class, g.Rows, g.TotalModules)
	}
	fmt.Printf("\nTotal modules: %d\n", summary.TotalModules)
	fmt.Printf("Weighted average reveal height: %.3f\n", summary.WeightedAverageHeight)
}

// buildInputs assembles the simulation inputs from the configured data
// sources. The nominal reveal height comes from the survey when one is
// configured, otherwise from the site block.
func buildInputs(cfg *config.Config) simulate.Inputs {
	geom, err := cfg.Geometry()
	if err != nil {
		panic(err)
	}

	if cfg.Data.SurveyCSV != "" {
		summary, err := layout.SummarizeFile(cfg.Data.SurveyCSV, layout.DefaultSurveyRules())
		if err != nil {
			panic(err)
		}
		geom.RevealHeight = summary.WeightedAverageHeight
		fmt.Printf("Survey weighted reveal height: %.3f (%d modules)\n",
			summary.WeightedAverageHeight, summary.TotalModules)
	}

	albedo := model.MonthlyProfile{}
	if cfg.Data.AlbedoDir != "" {
		albedo, err = profile.LoadAlbedoDir(cfg.Data.AlbedoDir)
		if err != nil {
			panic(err)
		}
	}

	heights := model.MonthlyProfile{}
	switch {
	case cfg.Data.SnowCSV != "":
		records, err := profile.LoadSnowCSV(cfg.Data.SnowCSV)
		if err != nil {
			panic(err)
		}
		heights = profile.HeightProfile(records, geom.RevealHeight)
	case cfg.Data.Meteostat.APIKey != "":
		client := data.NewMeteostatClient(cfg.Data.Meteostat.APIKey, cfg.Data.Meteostat.BaseURL)
		endYear := cfg.Data.Meteostat.EndYear
		if endYear == 0 {
			endYear = simulate.DefaultYear
		}
		startYear := cfg.Data.Meteostat.StartYear
		if startYear == 0 {
			startYear = endYear - 2
		}
		start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
		records, err := client.DailySnow(geom.Latitude, geom.Longitude, start, end)
		if err != nil {
			panic(err)
		}
		heights = profile.HeightProfile(records, geom.RevealHeight)
	}

	return simulate.Inputs{
		Geometry:   geom,
		Albedo:     albedo,
		RowHeights: heights,
		Power:      cfg.Power(),
	}
}
