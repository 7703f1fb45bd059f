// Package layout summarizes tracker-layout survey exports into the
// module-count-weighted reveal height the simulation uses as its nominal row
// height.
package layout

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"bifacial-tilt/internal/model"
)

// SurveyPoint is one surveyed point of the tracker layout export.
type SurveyPoint struct {
	TrackerRowID string  `csv:"Tracker Row Id"`
	Description  string  `csv:"Description"`
	Northing     float64 `csv:"N"`
	Easting      float64 `csv:"E"`
	Grade        float64 `csv:"Z (Existing Grade)"`
	RevealHeight float64 `csv:"Reveal Height"`
}

// SpanRule maps a northing-coordinate span between the two array-end markers
// of a tracker row to its module count. Rows whose span matches no rule are
// excluded from the summary.
type SpanRule struct {
	MinSpan float64
	MaxSpan float64
	Modules int
}

// SurveyRules are the site-survey conventions. The spans and the height
// rounding are survey-specific constants; they are configurable but the
// defaults match the convention the exports were produced under.
type SurveyRules struct {
	SpanModules   []SpanRule
	HeightOffset  float64 // added after rounding
	HeightQuantum float64 // heights round up to this increment
}

// DefaultSurveyRules: 78-module rows span (250, 270) northing units,
// 104-module rows span (380, 400); heights round up to the nearest quarter
// unit plus a fixed 0.75 offset.
func DefaultSurveyRules() SurveyRules {
	return SurveyRules{
		SpanModules: []SpanRule{
			{MinSpan: 250, MaxSpan: 270, Modules: 78},
			{MinSpan: 380, MaxSpan: 400, Modules: 104},
		},
		HeightOffset:  0.75,
		HeightQuantum: 0.25,
	}
}

func (r SurveyRules) modulesForSpan(span float64) (int, bool) {
	for _, rule := range r.SpanModules {
		if span > rule.MinSpan && span < rule.MaxSpan {
			return rule.Modules, true
		}
	}
	return 0, false
}

func (r SurveyRules) roundHeight(h float64) float64 {
	return r.HeightOffset + math.Ceil(h/r.HeightQuantum)*r.HeightQuantum
}

// Group is one bucket of the layout summary: tracker rows sharing a rounded
// reveal height and array class.
type Group struct {
	RoundedHeight float64
	Class         model.ArrayClass
	Rows          int
	TotalModules  int
}

// Summary is the aggregate output of one survey export.
type Summary struct {
	Groups                []Group
	TotalModules          int
	WeightedAverageHeight float64 // module-count-weighted rounded reveal height
}

const (
	extEndMarker = "Ext_Array_END"
	intEndMarker = "Int_Array_END"
)

// Summarize groups survey points by tracker row, infers each row's module
// count from the northing span between its array-end markers, rounds each
// row's maximum reveal height per the survey rules, and aggregates into
// height/class buckets plus the module-weighted average height.
//
// Malformed exports fail here, before any simulation work: no array-end
// markers, or no row matching a span rule (zero total modules).
func Summarize(points []SurveyPoint, rules SurveyRules) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, errors.New("survey has no points")
	}

	type rowAgg struct {
		endNorthings []float64
		maxReveal    float64
		isExt        bool
	}
	rows := map[string]*rowAgg{}
	order := []string{}

	sawEndMarker := false
	for _, p := range points {
		agg, ok := rows[p.TrackerRowID]
		if !ok {
			agg = &rowAgg{maxReveal: math.Inf(-1)}
			rows[p.TrackerRowID] = agg
			order = append(order, p.TrackerRowID)
		}
		if p.Description == extEndMarker || p.Description == intEndMarker {
			sawEndMarker = true
			agg.endNorthings = append(agg.endNorthings, p.Northing)
		}
		if strings.Contains(p.Description, "Ext") {
			agg.isExt = true
		}
		if p.RevealHeight > agg.maxReveal {
			agg.maxReveal = p.RevealHeight
		}
	}
	if !sawEndMarker {
		return Summary{}, errors.New("survey has no array-end marker rows")
	}
	sort.Strings(order)

	type bucketKey struct {
		height float64
		class  model.ArrayClass
	}
	buckets := map[bucketKey]*Group{}

	totalModules := 0
	weightedSum := 0.0
	for _, id := range order {
		agg := rows[id]
		if len(agg.endNorthings) < 2 {
			continue // incomplete row, no span to infer modules from
		}
		span := math.Abs(agg.endNorthings[0] - agg.endNorthings[1])
		modules, ok := rules.modulesForSpan(span)
		if !ok {
			continue // unknown row length, excluded from the summary
		}

		class := model.ArrayInternal
		if agg.isExt {
			class = model.ArrayExternal
		}
		height := rules.roundHeight(agg.maxReveal)

		k := bucketKey{height: height, class: class}
		g, ok := buckets[k]
		if !ok {
			g = &Group{RoundedHeight: height, Class: class}
			buckets[k] = g
		}
		g.Rows++
		g.TotalModules += modules

		totalModules += modules
		weightedSum += height * float64(modules)
	}

	if totalModules == 0 {
		return Summary{}, errors.New("no tracker rows matched a module-count span rule")
	}

	groups := make([]Group, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].RoundedHeight != groups[j].RoundedHeight {
			return groups[i].RoundedHeight < groups[j].RoundedHeight
		}
		return groups[i].Class < groups[j].Class
	})

	return Summary{
		Groups:                groups,
		TotalModules:          totalModules,
		WeightedAverageHeight: weightedSum / float64(totalModules),
	}, nil
}

// ParseSurvey decodes a tracker-layout survey export from a reader.
func ParseSurvey(r io.Reader) ([]SurveyPoint, error) {
	var points []SurveyPoint
	if err := gocsv.Unmarshal(r, &points); err != nil {
		return nil, fmt.Errorf("decode survey CSV: %w", err)
	}
	return points, nil
}

// LoadSurveyCSV decodes a tracker-layout survey export file.
func LoadSurveyCSV(path string) ([]SurveyPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSurvey(f)
}

// SummarizeFile is LoadSurveyCSV + Summarize.
func SummarizeFile(path string, rules SurveyRules) (Summary, error) {
	points, err := LoadSurveyCSV(path)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(points, rules)
}
