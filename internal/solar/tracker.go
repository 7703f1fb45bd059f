package solar

import "math"

// TrackerConfig describes a single-axis tracker mount.
type TrackerConfig struct {
	AxisTilt    float64 // degrees, tilt of the rotation axis from horizontal
	AxisAzimuth float64 // degrees, azimuth the axis points toward (180 = N-S axis, panels sweep E-W)
	MaxAngle    float64 // degrees, rotation limit
	GCR         float64 // ground coverage ratio, used by backtracking
	Backtrack   bool
}

// Orientation is the module surface orientation for one timestamp.
type Orientation struct {
	TrackerTheta   float64 // signed rotation about the axis, degrees
	SurfaceTilt    float64 // degrees from horizontal
	SurfaceAzimuth float64 // degrees clockwise from north
}

// Orientation computes the tracker rotation for a solar position, applying
// backtracking to avoid row-to-row beam shading and clamping to MaxAngle,
// then converts the rotation into surface tilt and azimuth.
//
// The rotation geometry follows the standard single-axis tracking equations
// (Marion & Dobos): project the solar vector onto the plane perpendicular to
// the axis and rotate the modules to face that projection.
func (c TrackerConfig) Orientation(pos Position) Orientation {
	if pos.ApparentElevation <= 0 {
		// Night stow: flat.
		return Orientation{SurfaceTilt: c.AxisTilt, SurfaceAzimuth: c.AxisAzimuth}
	}

	zen := pos.ApparentZenith * degToRad
	azOff := (pos.Azimuth - c.AxisAzimuth) * degToRad
	axTilt := c.AxisTilt * degToRad

	// Ideal (true-tracking) rotation angle.
	x := math.Sin(zen) * math.Sin(azOff)
	y := math.Sin(zen)*math.Cos(azOff)*math.Sin(axTilt) + math.Cos(zen)*math.Cos(axTilt)
	theta := math.Atan2(x, y) * radToDeg

	if c.Backtrack && c.GCR > 0 {
		// Row pitch along the rotation plane, in units of row width.
		axesDistance := 1.0 / (c.GCR * math.Cos(axTilt))
		projection := axesDistance * math.Cos(theta*degToRad)
		if projection < 1 {
			// Shading would occur at the ideal angle; back the rotation off.
			correction := math.Acos(clamp(projection, -1, 1)) * radToDeg
			theta -= sign(theta) * correction
		}
	}

	theta = clamp(theta, -c.MaxAngle, c.MaxAngle)
	return c.surfaceOrientation(theta)
}

// surfaceOrientation converts a signed rotation angle into surface tilt and
// azimuth for this mount.
func (c TrackerConfig) surfaceOrientation(theta float64) Orientation {
	thetaRad := theta * degToRad
	axTilt := c.AxisTilt * degToRad

	cosTilt := clamp(math.Cos(thetaRad)*math.Cos(axTilt), -1, 1)
	surfaceTilt := math.Acos(cosTilt) * radToDeg

	var azDelta float64
	sinTilt := math.Sin(surfaceTilt * degToRad)
	if sinTilt > 1e-9 {
		azDelta = math.Asin(clamp(math.Sin(thetaRad)/sinTilt, -1, 1)) * radToDeg
		if math.Abs(theta) > 90 {
			azDelta = sign(theta)*180 - azDelta
		}
	}

	surfaceAzimuth := math.Mod(c.AxisAzimuth+azDelta, 360)
	if surfaceAzimuth < 0 {
		surfaceAzimuth += 360
	}

	return Orientation{
		TrackerTheta:   theta,
		SurfaceTilt:    surfaceTilt,
		SurfaceAzimuth: surfaceAzimuth,
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
