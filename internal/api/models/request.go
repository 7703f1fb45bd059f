package models

import "bifacial-tilt/internal/solar"

// SiteRequest describes the tracker array for one run. Field names follow the
// config file keys.
type SiteRequest struct {
	Name         string  `json:"name,omitempty"`
	Latitude     float64 `json:"lat" binding:"required"`
	Longitude    float64 `json:"lon" binding:"required"`
	Timezone     string  `json:"tz" binding:"required"`
	GCR          float64 `json:"gcr" binding:"required"`
	MaxAngle     float64 `json:"max_angle" binding:"required"`
	RowWidth     float64 `json:"pvrow_width" binding:"required"`
	Bifaciality  float64 `json:"bifaciality"`
	RevealHeight float64 `json:"height" binding:"required"`
	ArrayClass   string  `json:"array_class" binding:"required"` // "External" or "Internal"
	AxisTilt     float64 `json:"axis_tilt"`
}

// ProfilesRequest carries the monthly profiles inline, keyed by month number
// 1-12. Missing months use the documented defaults (albedo 0.2, nominal
// reveal height).
type ProfilesRequest struct {
	Albedo     map[int]float64 `json:"albedo,omitempty"`
	RowHeights map[int]float64 `json:"row_heights,omitempty"`
}

// SimulationRequest tunes the annual estimate.
type SimulationRequest struct {
	Year    int `json:"year,omitempty"`    // default 2021
	Workers int `json:"workers,omitempty"` // default 1
}

// PowerModelRequest overrides the built-in power model parameters.
type PowerModelRequest struct {
	Module      *solar.ModuleParams      `json:"module,omitempty"`
	Temperature *solar.TemperatureParams `json:"temperature,omitempty"`
	Inverter    *solar.InverterParams    `json:"inverter,omitempty"`
	AirTempC    float64                  `json:"air_temp_c,omitempty"`
	WindSpeed   float64                  `json:"wind_speed,omitempty"`
}

// EstimateRequest represents the request body for one annual estimate.
type EstimateRequest struct {
	Site           SiteRequest        `json:"site" binding:"required"`
	Profiles       ProfilesRequest    `json:"profiles,omitempty"`
	Simulation     SimulationRequest  `json:"simulation,omitempty"`
	PowerModel     *PowerModelRequest `json:"power_model,omitempty"`
	IncludeSamples bool               `json:"include_samples,omitempty"`
}

// OptimizerRequest tunes the tilt search.
type OptimizerRequest struct {
	Trials        int     `json:"trials,omitempty"` // default 20
	StartupTrials int     `json:"startup_trials,omitempty"`
	Seed          int64   `json:"seed,omitempty"`
	MinTilt       float64 `json:"min_tilt,omitempty"` // default 0
	MaxTilt       float64 `json:"max_tilt,omitempty"` // default 60
}

// OptimizeRequest represents the request body for a tilt optimization run.
// The site's axis_tilt field is ignored; tilt is the search variable.
type OptimizeRequest struct {
	Site       SiteRequest        `json:"site" binding:"required"`
	Profiles   ProfilesRequest    `json:"profiles,omitempty"`
	Simulation SimulationRequest  `json:"simulation,omitempty"`
	PowerModel *PowerModelRequest `json:"power_model,omitempty"`
	Optimizer  OptimizerRequest   `json:"optimizer,omitempty"`
}

// LayoutRequest carries a raw tracker-layout survey export.
type LayoutRequest struct {
	CSV string `json:"csv" binding:"required"`
}
