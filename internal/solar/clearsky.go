package solar

import (
	"math"
	"time"
)

// Irradiance holds clear-sky irradiance components in W/m².
type Irradiance struct {
	DNI float64 // direct normal
	DHI float64 // diffuse horizontal
	GHI float64 // global horizontal
}

// solarConstant is the mean extraterrestrial normal irradiance, W/m².
const solarConstant = 1367.0

// ClearSky estimates clear-sky direct and diffuse irradiance from the solar
// position using a Meinel-style beam attenuation over Kasten-Young air mass,
// with the usual ~10% diffuse fraction for clear skies. Physical fidelity of
// the radiative model is deliberately modest; yield comparisons between tilt
// candidates only need a consistent clear-sky driver.
func ClearSky(pos Position, t time.Time) Irradiance {
	if pos.ApparentElevation <= 0 {
		return Irradiance{}
	}

	// Extraterrestrial irradiance with day-of-year eccentricity correction.
	doy := float64(t.UTC().YearDay())
	e0 := solarConstant * (1 + 0.033*math.Cos(2*math.Pi*doy/365.0))

	am := airMass(pos.ApparentZenith)
	dni := e0 * math.Pow(0.7, math.Pow(am, 0.678))

	cosZenith := math.Cos(pos.ApparentZenith * degToRad)
	if cosZenith < 0 {
		cosZenith = 0
	}
	dhi := 0.1 * dni * cosZenith

	return Irradiance{
		DNI: dni,
		DHI: dhi,
		GHI: dni*cosZenith + dhi,
	}
}

// airMass is the Kasten-Young (1989) relative air mass for an apparent zenith
// angle in degrees.
func airMass(apparentZenith float64) float64 {
	if apparentZenith >= 90 {
		return 38.0 // horizon limit
	}
	z := apparentZenith * degToRad
	return 1.0 / (math.Cos(z) + 0.50572*math.Pow(96.07995-apparentZenith, -1.6364))
}
