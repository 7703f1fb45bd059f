package model

import "time"

// MonthlyProfile maps a calendar month to a scalar that varies by month only,
// such as ground albedo or a snow-adjusted row height. Profiles are built once
// from historical multi-year data and never mutated afterwards, so they are
// safe to share across parallel evaluations.
type MonthlyProfile struct {
	values map[time.Month]float64
}

// NewMonthlyProfile copies values into an immutable profile. Months outside
// January..December are ignored.
func NewMonthlyProfile(values map[time.Month]float64) MonthlyProfile {
	p := MonthlyProfile{values: make(map[time.Month]float64, len(values))}
	for m, v := range values {
		if m < time.January || m > time.December {
			continue
		}
		p.values[m] = v
	}
	return p
}

// Value returns the value for month m, or fallback when the month has no data.
// A missing month is not an error; callers supply the documented default.
func (p MonthlyProfile) Value(m time.Month, fallback float64) float64 {
	if v, ok := p.values[m]; ok {
		return v
	}
	return fallback
}

// Has reports whether month m has data.
func (p MonthlyProfile) Has(m time.Month) bool {
	_, ok := p.values[m]
	return ok
}

// Len returns the number of months with data.
func (p MonthlyProfile) Len() int { return len(p.values) }

// ConstantProfile returns a profile with the same value for all 12 months.
func ConstantProfile(v float64) MonthlyProfile {
	values := make(map[time.Month]float64, 12)
	for m := time.January; m <= time.December; m++ {
		values[m] = v
	}
	return MonthlyProfile{values: values}
}
