package solar

import (
	"errors"
	"math"

	"bifacial-tilt/internal/model"
)

// PowerModel converts an effective-irradiance series (W/m², already combining
// front and bifaciality-weighted rear absorption) into an AC power series in
// watts. The simulation core treats it as a black box; failures propagate
// unchanged to the caller.
type PowerModel interface {
	ACPower(geom model.SiteGeometry, effectiveIrradiance []float64) ([]float64, error)
}

// ModuleParams are PVWatts-style DC parameters, passed through from
// configuration without interpretation by the simulation core.
type ModuleParams struct {
	Name       string  `yaml:"name" json:"name"`
	PdcW       float64 `yaml:"pdc_w" json:"pdc_w"`             // nameplate DC at STC, W
	GammaPdc   float64 `yaml:"gamma_pdc" json:"gamma_pdc"`     // power temperature coefficient, 1/°C (negative)
	RefTempC   float64 `yaml:"ref_temp_c" json:"ref_temp_c"`   // reference cell temperature, °C
	RefIrrWm2  float64 `yaml:"ref_irr_wm2" json:"ref_irr_wm2"` // reference irradiance, W/m²
}

// TemperatureParams are SAPM cell-temperature coefficients.
type TemperatureParams struct {
	A      float64 `yaml:"a" json:"a"`
	B      float64 `yaml:"b" json:"b"`
	DeltaT float64 `yaml:"delta_t" json:"delta_t"`
}

// InverterParams describe a simple clipping inverter.
type InverterParams struct {
	Name       string  `yaml:"name" json:"name"`
	PacoW      float64 `yaml:"paco_w" json:"paco_w"`           // AC power rating, W
	Efficiency float64 `yaml:"efficiency" json:"efficiency"`   // nominal DC→AC efficiency (0,1]
}

// DefaultModuleParams is a generic 400 W crystalline-silicon module.
func DefaultModuleParams() ModuleParams {
	return ModuleParams{
		Name:      "generic-400w",
		PdcW:      400,
		GammaPdc:  -0.0037,
		RefTempC:  25,
		RefIrrWm2: 1000,
	}
}

// DefaultTemperatureParams matches an open-rack glass/glass mount.
func DefaultTemperatureParams() TemperatureParams {
	return TemperatureParams{A: -3.47, B: -0.0594, DeltaT: 3}
}

// DefaultInverterParams pairs the default module with a slightly undersized
// string inverter, which is where clipping behavior comes from.
func DefaultInverterParams() InverterParams {
	return InverterParams{Name: "generic-380w", PacoW: 380, Efficiency: 0.96}
}

// PVWattsModel is the built-in PowerModel: SAPM cell temperature, PVWatts DC
// response, and a clipping inverter. Ambient conditions are held constant for
// the clear-sky run.
type PVWattsModel struct {
	Module      ModuleParams
	Temperature TemperatureParams
	Inverter    InverterParams

	AirTempC  float64 // ambient air temperature, °C
	WindSpeed float64 // m/s
}

// NewPVWattsModel returns the model with all defaults filled in.
func NewPVWattsModel() *PVWattsModel {
	return &PVWattsModel{
		Module:      DefaultModuleParams(),
		Temperature: DefaultTemperatureParams(),
		Inverter:    DefaultInverterParams(),
		AirTempC:    20,
		WindSpeed:   1,
	}
}

func (m *PVWattsModel) Validate() error {
	if m.Module.PdcW <= 0 {
		return errors.New("module pdc_w must be > 0")
	}
	if m.Module.RefIrrWm2 <= 0 {
		return errors.New("module ref_irr_wm2 must be > 0")
	}
	if m.Inverter.PacoW <= 0 {
		return errors.New("inverter paco_w must be > 0")
	}
	if m.Inverter.Efficiency <= 0 || m.Inverter.Efficiency > 1 {
		return errors.New("inverter efficiency must be in (0, 1]")
	}
	return nil
}

// ACPower implements PowerModel.
func (m *PVWattsModel) ACPower(_ model.SiteGeometry, effective []float64) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, len(effective))
	for i, poa := range effective {
		if poa <= 0 {
			continue
		}
		tCell := m.cellTemperature(poa)
		dc := poa / m.Module.RefIrrWm2 * m.Module.PdcW *
			(1 + m.Module.GammaPdc*(tCell-m.Module.RefTempC))
		if dc < 0 {
			dc = 0
		}
		ac := dc * m.Inverter.Efficiency
		out[i] = math.Min(ac, m.Inverter.PacoW)
	}
	return out, nil
}

// cellTemperature is the SAPM module/cell temperature for one sample.
func (m *PVWattsModel) cellTemperature(poa float64) float64 {
	tModule := poa*math.Exp(m.Temperature.A+m.Temperature.B*m.WindSpeed) + m.AirTempC
	return tModule + poa/1000.0*m.Temperature.DeltaT
}
