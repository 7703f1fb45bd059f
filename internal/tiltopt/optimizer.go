// Package tiltopt searches for the tracker axis tilt that maximizes annual
// energy. The objective is expensive (one full annual simulation per
// evaluation), noisy, and derivative-free, so the search is a sequential
// black-box loop: propose, evaluate, record, repeat for a fixed budget.
package tiltopt

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Objective evaluates one axis tilt (degrees) and returns annual energy in
// kWh. Errors mark the trial as failed; they are never folded into the
// energy scale, so a computation failure can't masquerade as a bad tilt.
type Objective func(axisTilt float64) (float64, error)

// Trial is one evaluated candidate.
type Trial struct {
	Number    int
	AxisTilt  float64
	EnergyKWh float64
	Err       error
}

// Failed reports whether the evaluation errored.
func (t Trial) Failed() bool { return t.Err != nil }

// Result is the outcome of one optimization run.
type Result struct {
	BestTilt      float64
	BestEnergyKWh float64
	Trials        []Trial
}

// Config tunes the search. Zero values take the documented defaults.
type Config struct {
	// LowerBound/UpperBound close the search interval, default [0, 60].
	LowerBound float64
	UpperBound float64
	// Trials is the evaluation budget, default 20. No early stopping.
	Trials int
	// StartupTrials are proposed uniformly before the density model kicks
	// in, default 8.
	StartupTrials int
	// Gamma is the fraction of history treated as "good" when splitting,
	// default 0.25.
	Gamma float64
	// Candidates is how many proposals the density model scores per trial,
	// default 32.
	Candidates int
	// Seed makes the run reproducible. The same seed and objective always
	// produce the same trial sequence.
	Seed int64
}

func (c Config) withDefaults() (Config, error) {
	if c.LowerBound == 0 && c.UpperBound == 0 {
		c.LowerBound, c.UpperBound = 0, 60
	}
	if c.UpperBound <= c.LowerBound {
		return c, fmt.Errorf("bounds invalid: [%v, %v]", c.LowerBound, c.UpperBound)
	}
	if c.Trials <= 0 {
		c.Trials = 20
	}
	if c.StartupTrials <= 0 {
		c.StartupTrials = 8
	}
	if c.StartupTrials > c.Trials {
		c.StartupTrials = c.Trials
	}
	if c.Gamma <= 0 || c.Gamma >= 1 {
		c.Gamma = 0.25
	}
	if c.Candidates <= 0 {
		c.Candidates = 32
	}
	return c, nil
}

// Optimize runs the fixed-budget search and returns the best trial plus the
// full history. Failed trials stay in the history (with Err set) but never
// inform the proposal model or the best-trial selection. When every trial
// fails, the run itself fails.
//
// The proposal policy is a one-dimensional tree-structured Parzen estimator:
// after a uniform startup phase, successful trials are split at an energy
// quantile into good and bad sets; candidates are drawn around good tilts and
// the one maximizing the good/bad density ratio is evaluated next.
func Optimize(obj Objective, cfg Config) (Result, error) {
	if obj == nil {
		return Result{}, errors.New("objective is nil")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return Result{}, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	trials := make([]Trial, 0, cfg.Trials)
	var succeeded []Trial

	for i := 0; i < cfg.Trials; i++ {
		tilt := propose(rng, cfg, succeeded)

		energy, err := obj(tilt)
		t := Trial{Number: i, AxisTilt: tilt, EnergyKWh: energy, Err: err}
		if err != nil {
			t.EnergyKWh = 0
		} else {
			succeeded = append(succeeded, t)
		}
		trials = append(trials, t)
	}

	if len(succeeded) == 0 {
		return Result{Trials: trials}, fmt.Errorf("all %d trials failed, last: %w", cfg.Trials, trials[len(trials)-1].Err)
	}

	// First maximum wins, consistent with a sequential scan of the history.
	best := succeeded[0]
	for _, t := range succeeded[1:] {
		if t.EnergyKWh > best.EnergyKWh {
			best = t
		}
	}

	return Result{
		BestTilt:      best.AxisTilt,
		BestEnergyKWh: best.EnergyKWh,
		Trials:        trials,
	}, nil
}

// propose picks the next tilt to evaluate.
func propose(rng *rand.Rand, cfg Config, history []Trial) float64 {
	if len(history) < cfg.StartupTrials {
		return cfg.LowerBound + rng.Float64()*(cfg.UpperBound-cfg.LowerBound)
	}

	good, bad := split(history, cfg.Gamma)
	if len(good) == 0 || len(bad) == 0 {
		return cfg.LowerBound + rng.Float64()*(cfg.UpperBound-cfg.LowerBound)
	}

	// Proposal bandwidth narrows as evidence accumulates.
	width := cfg.UpperBound - cfg.LowerBound
	sigma := width / float64(2+len(history))
	if s := stat.StdDev(tilts(good), nil); s > sigma {
		sigma = s
	}

	bestTilt := 0.0
	bestScore := math.Inf(-1)
	for c := 0; c < cfg.Candidates; c++ {
		center := good[rng.Intn(len(good))].AxisTilt
		x := center + rng.NormFloat64()*sigma
		x = clampTilt(x, cfg.LowerBound, cfg.UpperBound)

		score := mixtureDensity(x, good, sigma, width) / mixtureDensity(x, bad, sigma, width)
		if score > bestScore {
			bestScore = score
			bestTilt = x
		}
	}
	return bestTilt
}

// split divides successful trials into the top gamma fraction by energy
// ("good") and the rest ("bad") using the empirical quantile of the energies.
func split(history []Trial, gamma float64) (good, bad []Trial) {
	energies := make([]float64, len(history))
	for i, t := range history {
		energies[i] = t.EnergyKWh
	}
	sort.Float64s(energies)
	threshold := stat.Quantile(1-gamma, stat.Empirical, energies, nil)

	for _, t := range history {
		if t.EnergyKWh >= threshold {
			good = append(good, t)
		} else {
			bad = append(bad, t)
		}
	}
	// Quantile ties can starve one side; fall back to a best/rest split.
	if len(bad) == 0 && len(good) > 1 {
		sort.Slice(good, func(i, j int) bool { return good[i].EnergyKWh > good[j].EnergyKWh })
		return good[:1], good[1:]
	}
	return good, bad
}

// mixtureDensity is an equal-weight Parzen mixture of normals centered on the
// trials' tilts, floored by a uniform base density so the ratio stays finite.
func mixtureDensity(x float64, trials []Trial, sigma, width float64) float64 {
	base := 1.0 / width
	if len(trials) == 0 {
		return base
	}
	sum := 0.0
	for _, t := range trials {
		n := distuv.Normal{Mu: t.AxisTilt, Sigma: sigma}
		sum += n.Prob(x)
	}
	return base + sum/float64(len(trials))
}

func tilts(trials []Trial) []float64 {
	out := make([]float64, len(trials))
	for i, t := range trials {
		out[i] = t.AxisTilt
	}
	return out
}

func clampTilt(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
