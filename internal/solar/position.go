package solar

import (
	"math"
	"time"
)

const degToRad = math.Pi / 180.0
const radToDeg = 180.0 / math.Pi

// Position is the sun's position at one instant, in degrees.
type Position struct {
	Elevation         float64 // geometric elevation above the horizon
	ApparentElevation float64 // elevation corrected for atmospheric refraction
	Zenith            float64
	ApparentZenith    float64
	Azimuth           float64 // clockwise from north
}

// SolarPosition computes the sun's position for a timestamp and location using
// the NOAA low-accuracy formulas (fractional year, equation of time,
// declination). Accuracy is a fraction of a degree, which is plenty for
// clear-sky yield estimation.
func SolarPosition(t time.Time, latitude, longitude float64) Position {
	utc := t.UTC()

	dayOfYear := float64(utc.YearDay())
	hours := float64(utc.Hour()) + float64(utc.Minute())/60.0 + float64(utc.Second())/3600.0

	// Fractional year, radians.
	gamma := 2 * math.Pi / 365.0 * (dayOfYear - 1 + (hours-12)/24.0)

	// Equation of time, minutes.
	eqTime := 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))

	// Solar declination, radians.
	decl := 0.006918 -
		0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	// True solar time in minutes, then hour angle in degrees.
	solarMinutes := hours*60 + eqTime + 4*longitude
	hourAngle := solarMinutes/4 - 180
	for hourAngle < -180 {
		hourAngle += 360
	}
	for hourAngle > 180 {
		hourAngle -= 360
	}

	phi := latitude * degToRad
	ha := hourAngle * degToRad

	cosZenith := math.Sin(phi)*math.Sin(decl) + math.Cos(phi)*math.Cos(decl)*math.Cos(ha)
	cosZenith = clamp(cosZenith, -1, 1)
	zenith := math.Acos(cosZenith) * radToDeg
	elevation := 90 - zenith

	// Azimuth measured clockwise from north.
	sinZenith := math.Sin(zenith * degToRad)
	var azimuth float64
	if sinZenith > 1e-9 {
		cosAz := (math.Sin(decl) - math.Sin(phi)*cosZenith) / (math.Cos(phi) * sinZenith)
		cosAz = clamp(cosAz, -1, 1)
		azimuth = math.Acos(cosAz) * radToDeg
		if hourAngle > 0 {
			azimuth = 360 - azimuth
		}
	} else {
		// Sun at zenith: azimuth is undefined, pick south.
		azimuth = 180
	}

	apparent := elevation + refractionCorrection(elevation)

	return Position{
		Elevation:         elevation,
		ApparentElevation: apparent,
		Zenith:            zenith,
		ApparentZenith:    90 - apparent,
		Azimuth:           azimuth,
	}
}

// refractionCorrection returns the Bennett atmospheric refraction in degrees
// for a geometric elevation in degrees. Below -1 degree the sun is well set
// and the correction no longer matters.
func refractionCorrection(elevation float64) float64 {
	if elevation < -1 {
		return 0
	}
	if elevation > 85 {
		return 0
	}
	arg := (elevation + 10.3/(elevation+5.11)) * degToRad
	return 0.017 / math.Tan(arg)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
