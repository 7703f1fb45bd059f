package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bifacial-tilt/internal/model"
)

func extRow(id string, startN, endN, reveal float64) []SurveyPoint {
	return []SurveyPoint{
		{TrackerRowID: id, Description: "Ext_Array_END", Northing: startN, RevealHeight: reveal},
		{TrackerRowID: id, Description: "Ext_Array_END", Northing: endN, RevealHeight: reveal},
	}
}

func intRow(id string, startN, endN, reveal float64) []SurveyPoint {
	return []SurveyPoint{
		{TrackerRowID: id, Description: "Int_Array_END", Northing: startN, RevealHeight: reveal},
		{TrackerRowID: id, Description: "Int_Array_END", Northing: endN, RevealHeight: reveal},
	}
}

func TestSummarizeDefaultRules(t *testing.T) {
	var points []SurveyPoint
	// 260-unit span -> 78 modules, 390-unit span -> 104 modules.
	points = append(points, extRow("T-01", 0, 260, 1.3)...)
	points = append(points, intRow("T-02", 100, 490, 1.0)...)

	sum, err := Summarize(points, DefaultSurveyRules())
	require.NoError(t, err)

	assert.Equal(t, 78+104, sum.TotalModules)
	require.Len(t, sum.Groups, 2)

	// 1.3 rounds up to 1.5, plus the 0.75 offset; 1.0 rounds to itself.
	assert.Equal(t, 1.75, sum.Groups[0].RoundedHeight)
	assert.Equal(t, model.ArrayInternal, sum.Groups[0].Class)
	assert.Equal(t, 104, sum.Groups[0].TotalModules)

	assert.Equal(t, 2.25, sum.Groups[1].RoundedHeight)
	assert.Equal(t, model.ArrayExternal, sum.Groups[1].Class)
	assert.Equal(t, 78, sum.Groups[1].TotalModules)

	want := (1.75*104 + 2.25*78) / 182.0
	assert.InDelta(t, want, sum.WeightedAverageHeight, 1e-12)
}

func TestSummarizeWeightedAverage(t *testing.T) {
	rules := SurveyRules{
		SpanModules: []SpanRule{
			{MinSpan: 90, MaxSpan: 110, Modules: 100},
			{MinSpan: 190, MaxSpan: 210, Modules: 50},
		},
		HeightOffset:  0,
		HeightQuantum: 1,
	}

	var points []SurveyPoint
	points = append(points, extRow("A", 0, 100, 10)...)
	points = append(points, extRow("B", 0, 200, 12)...)

	sum, err := Summarize(points, rules)
	require.NoError(t, err)
	assert.Equal(t, 150, sum.TotalModules)
	assert.InDelta(t, (10.0*100+12.0*50)/150.0, sum.WeightedAverageHeight, 1e-12)
}

func TestSummarizeGroupsRowsBySharedHeight(t *testing.T) {
	var points []SurveyPoint
	points = append(points, extRow("A", 0, 260, 1.3)...)
	points = append(points, extRow("B", 0, 260, 1.26)...) // same rounded height as A

	sum, err := Summarize(points, DefaultSurveyRules())
	require.NoError(t, err)
	require.Len(t, sum.Groups, 1)
	assert.Equal(t, 2, sum.Groups[0].Rows)
	assert.Equal(t, 156, sum.Groups[0].TotalModules)
}

func TestSummarizeUsesRowMaximumReveal(t *testing.T) {
	points := []SurveyPoint{
		{TrackerRowID: "A", Description: "Ext_Array_END", Northing: 0, RevealHeight: 0.9},
		{TrackerRowID: "A", Description: "Ext_Pile", Northing: 130, RevealHeight: 1.4},
		{TrackerRowID: "A", Description: "Ext_Array_END", Northing: 260, RevealHeight: 1.1},
	}
	sum, err := Summarize(points, DefaultSurveyRules())
	require.NoError(t, err)
	// 1.4 is the row max: 0.75 + ceil(1.4/0.25)*0.25 = 2.25.
	assert.Equal(t, 2.25, sum.Groups[0].RoundedHeight)
}

func TestSummarizeSkipsRowsOutsideSpanRules(t *testing.T) {
	var points []SurveyPoint
	points = append(points, extRow("A", 0, 260, 1.0)...)
	points = append(points, extRow("B", 0, 300, 1.0)...) // 300 matches no rule

	sum, err := Summarize(points, DefaultSurveyRules())
	require.NoError(t, err)
	assert.Equal(t, 78, sum.TotalModules)
}

func TestSummarizeErrors(t *testing.T) {
	_, err := Summarize(nil, DefaultSurveyRules())
	assert.Error(t, err)

	// Points but no end markers: no spans can be measured.
	points := []SurveyPoint{
		{TrackerRowID: "A", Description: "Ext_Pile", Northing: 10, RevealHeight: 1},
	}
	_, err = Summarize(points, DefaultSurveyRules())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array-end marker")

	// End markers present but every span outside the rules.
	_, err = Summarize(extRow("A", 0, 50, 1), DefaultSurveyRules())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "span rule")
}

func TestParseSurvey(t *testing.T) {
	csv := strings.Join([]string{
		"Tracker Row Id,Description,N,E,Z (Existing Grade),Reveal Height",
		"T-01,Ext_Array_END,0,10,1520.5,1.2",
		"T-01,Ext_Array_END,260,10,1521.0,1.3",
	}, "\n")

	points, err := ParseSurvey(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "T-01", points[0].TrackerRowID)
	assert.Equal(t, 260.0, points[1].Northing)
	assert.Equal(t, 1.3, points[1].RevealHeight)

	sum, err := Summarize(points, DefaultSurveyRules())
	require.NoError(t, err)
	assert.Equal(t, 78, sum.TotalModules)
}
