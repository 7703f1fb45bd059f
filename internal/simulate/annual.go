package simulate

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultYear is the representative simulation year (non-leap).
	DefaultYear = 2021
	// sampleStrideDays spaces the representative days across the year.
	sampleStrideDays = 10
	// annualDays is the scaling basis: sampled energies are rescaled to a
	// 365-day year regardless of the simulation year's actual length.
	annualDays = 365.0
)

// Options tune one annual estimate.
type Options struct {
	// Year is the simulation year; zero means DefaultYear.
	Year int
	// Workers bounds the parallel day evaluations; zero or one runs
	// sequentially. Aggregation is deterministic either way: results are
	// summed in date order.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Year == 0 {
		o.Year = DefaultYear
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// AnnualResult is one annual energy estimate with its per-sample breakdown.
type AnnualResult struct {
	EnergyKWh   float64
	SampleCount int
	Samples     []DayResult
}

// AnnualEstimate drives DayEnergy across one representative day per 10-day
// period (Jan 1, Jan 11, ... while the start date stays within the year) and
// rescales the summed energy by 365/sampleCount. The cadence and the
// inclusive end bound are load-bearing for reproducibility: a 365-day year
// yields exactly 37 samples.
//
// Any per-day failure aborts the whole estimate; there is no partial result.
func AnnualEstimate(in Inputs, opts Options) (AnnualResult, error) {
	if err := in.validate(); err != nil {
		return AnnualResult{}, err
	}
	opts = opts.withDefaults()

	loc, err := in.Geometry.Location()
	if err != nil {
		return AnnualResult{}, err
	}
	dates := sampleDates(opts.Year, loc)

	samples := make([]DayResult, len(dates))
	if opts.Workers == 1 {
		for i, d := range dates {
			res, err := DayEnergy(in, d)
			if err != nil {
				return AnnualResult{}, fmt.Errorf("sample day %s: %w", d.Format("2006-01-02"), err)
			}
			samples[i] = res
		}
	} else if err := runParallel(in, dates, samples, opts.Workers); err != nil {
		return AnnualResult{}, err
	}

	total := 0.0
	for _, s := range samples {
		total += s.EnergyKWh
	}
	n := len(samples)

	return AnnualResult{
		EnergyKWh:   total * (annualDays / float64(n)),
		SampleCount: n,
		Samples:     samples,
	}, nil
}

// sampleDates returns the representative start dates: January 1 of the year,
// stepping by 10 calendar days while the date is on or before December 31.
func sampleDates(year int, loc *time.Location) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, sampleStrideDays) {
		dates = append(dates, d)
	}
	return dates
}

// runParallel fans the day samples out over a bounded worker pool. Each
// worker writes into its own slot, so the later date-ordered sum is
// independent of scheduling.
func runParallel(in Inputs, dates []time.Time, samples []DayResult, workers int) error {
	if workers > len(dates) {
		workers = len(dates)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		next     int
	)
	claim := func() int {
		mu.Lock()
		defer mu.Unlock()
		if firstErr != nil || next >= len(dates) {
			return -1
		}
		i := next
		next++
		return i
	}
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := claim()
				if i < 0 {
					return
				}
				res, err := DayEnergy(in, dates[i])
				if err != nil {
					fail(fmt.Errorf("sample day %s: %w", dates[i].Format("2006-01-02"), err))
					return
				}
				samples[i] = res
			}
		}()
	}
	wg.Wait()
	return firstErr
}
