package models

import "bifacial-tilt/internal/solar"

// EstimateResponse is the result of one annual estimate.
type EstimateResponse struct {
	Site         string      `json:"site,omitempty"`
	AxisTilt     float64     `json:"axis_tilt"`
	EnergyKWh    float64     `json:"energy_kwh"`
	SampleCount  int         `json:"sample_count"`
	Samples      []DaySample `json:"samples,omitempty"`
}

// DaySample is one representative day of an estimate.
type DaySample struct {
	Date      string  `json:"date"`
	RowHeight float64 `json:"row_height"`
	EnergyKWh float64 `json:"energy_kwh"`
}

// OptimizeResponse is the result of a tilt search.
type OptimizeResponse struct {
	Site          string      `json:"site,omitempty"`
	BestTilt      float64     `json:"best_tilt"`
	BestEnergyKWh float64     `json:"best_energy_kwh"`
	Trials        []TrialInfo `json:"trials"`
}

// TrialInfo is one evaluated tilt candidate.
type TrialInfo struct {
	Number    int     `json:"number"`
	AxisTilt  float64 `json:"axis_tilt"`
	EnergyKWh float64 `json:"energy_kwh"`
	Error     string  `json:"error,omitempty"`
}

// LayoutResponse summarizes a tracker-layout survey.
type LayoutResponse struct {
	WeightedAverageHeight float64       `json:"weighted_average_height"`
	TotalModules          int           `json:"total_modules"`
	Groups                []LayoutGroup `json:"groups"`
}

// LayoutGroup is one (rounded height, array class) bucket.
type LayoutGroup struct {
	RoundedHeight float64 `json:"rounded_height"`
	ArrayClass    string  `json:"array_class"`
	Rows          int     `json:"rows"`
	TotalModules  int     `json:"total_modules"`
}

// DefaultsResponse lists the built-in parameter sets.
type DefaultsResponse struct {
	Module      solar.ModuleParams      `json:"module"`
	Temperature solar.TemperatureParams `json:"temperature"`
	Inverter    solar.InverterParams    `json:"inverter"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
