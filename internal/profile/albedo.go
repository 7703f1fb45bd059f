// Package profile builds the MonthlyProfiles consumed by the simulation:
// ground albedo from NSRDB CSV exports and snow-adjusted row heights from
// daily weather-station records.
package profile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"bifacial-tilt/internal/model"
)

// albedoRow is one record of an NSRDB surface-albedo export.
type albedoRow struct {
	Year          int     `csv:"Year"`
	Month         int     `csv:"Month"`
	SurfaceAlbedo float64 `csv:"Surface Albedo"`
}

// nsrdbHeaderLines is the metadata preamble NSRDB prepends to every export.
const nsrdbHeaderLines = 2

// LoadAlbedoDir reads every *.csv in dir (one file per year, NSRDB format:
// two metadata lines, then Year/Month/Surface Albedo columns), averages the
// albedo per (year, month), and returns the across-years mean for each month.
func LoadAlbedoDir(dir string) (model.MonthlyProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.MonthlyProfile{}, fmt.Errorf("read albedo dir: %w", err)
	}

	type key struct {
		year  int
		month time.Month
	}
	sums := map[key]float64{}
	counts := map[key]int{}

	files := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files++
		rows, err := loadAlbedoFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return model.MonthlyProfile{}, fmt.Errorf("albedo file %s: %w", e.Name(), err)
		}
		for _, r := range rows {
			if r.Month < 1 || r.Month > 12 {
				return model.MonthlyProfile{}, fmt.Errorf("albedo file %s: month %d out of range", e.Name(), r.Month)
			}
			k := key{year: r.Year, month: time.Month(r.Month)}
			sums[k] += r.SurfaceAlbedo
			counts[k]++
		}
	}
	if files == 0 {
		return model.MonthlyProfile{}, fmt.Errorf("no CSV files in %s", dir)
	}

	// Mean of the per-(year, month) means, so years with denser sampling
	// don't dominate.
	monthSums := map[time.Month]float64{}
	monthCounts := map[time.Month]int{}
	for k, sum := range sums {
		monthSums[k.month] += sum / float64(counts[k])
		monthCounts[k.month]++
	}

	values := make(map[time.Month]float64, len(monthSums))
	for m, sum := range monthSums {
		values[m] = sum / float64(monthCounts[m])
	}
	return model.NewMonthlyProfile(values), nil
}

func loadAlbedoFile(path string) ([]albedoRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for i := 0; i < nsrdbHeaderLines; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("skipping NSRDB header: %w", err)
		}
	}

	var rows []albedoRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
