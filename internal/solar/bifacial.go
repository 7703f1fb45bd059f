package solar

import (
	"fmt"
	"math"
)

// BifacialConfig parameterizes the row-to-row view-factor irradiance model.
type BifacialConfig struct {
	GCR         float64
	RowHeight   float64 // axis height above grade, site length units
	RowWidth    float64 // collector width, same units as RowHeight
	Rows        int     // number of physical rows modeled (2 external, 3 internal)
	ObservedRow int     // index of the row whose irradiance is reported
}

// Absorbed is the irradiance absorbed by the two faces of the observed row,
// W/m².
type Absorbed struct {
	Front float64
	Rear  float64
}

// Absorbed computes front- and rear-side absorbed irradiance for one
// timestamp with a first-order view-factor model:
//
//   - front: beam by incidence angle + isotropic sky diffuse (masked by
//     neighboring rows for interior geometries) + ground reflection
//   - rear: ground-reflected light scaled by albedo, the lit ground fraction
//     between rows, and a height gain, plus a small sky term for edge rows
//
// Only the structural dependencies matter here (albedo, row height, GCR,
// row count); absolute radiometric accuracy is out of scope.
func (c BifacialConfig) Absorbed(pos Position, ornt Orientation, irr Irradiance, albedo float64) (Absorbed, error) {
	if c.Rows != 2 && c.Rows != 3 {
		return Absorbed{}, fmt.Errorf("bifacial model supports 2 or 3 rows, got %d", c.Rows)
	}
	if c.ObservedRow < 0 || c.ObservedRow >= c.Rows {
		return Absorbed{}, fmt.Errorf("observed row %d out of range for %d rows", c.ObservedRow, c.Rows)
	}
	if c.RowHeight <= 0 || c.RowWidth <= 0 {
		return Absorbed{}, fmt.Errorf("row height and width must be > 0 (height=%v width=%v)", c.RowHeight, c.RowWidth)
	}
	if pos.ApparentElevation <= 0 {
		return Absorbed{}, nil
	}

	tiltRad := ornt.SurfaceTilt * degToRad
	cosAOI := incidenceCosine(pos, ornt)

	// Front face.
	beam := irr.DNI * math.Max(cosAOI, 0)
	skyVF := (1 + math.Cos(tiltRad)) / 2
	if c.Rows >= 3 {
		// Interior rows have part of the sky dome masked by neighbors.
		skyVF *= 1 - 0.5*c.GCR
	}
	groundFrontVF := (1 - math.Cos(tiltRad)) / 2
	front := beam + irr.DHI*skyVF + irr.GHI*albedo*groundFrontVF

	// Rear face. The rear "sees" mostly ground; how much of that ground is
	// sunlit depends on the row shadows (GCR and rotation), and how much of
	// it is visible depends on the axis height relative to the collector.
	rearTiltRad := (180 - ornt.SurfaceTilt) * degToRad
	groundRearVF := (1 - math.Cos(rearTiltRad)) / 2
	litGround := 1 - c.GCR*math.Abs(math.Cos(ornt.TrackerTheta*degToRad))
	if litGround < 0 {
		litGround = 0
	}
	heightGain := c.RowHeight / (c.RowHeight + 0.5*c.RowWidth)
	rear := irr.GHI * albedo * groundRearVF * litGround * heightGain

	// Edge rows pick up extra rear sky diffuse past the array boundary.
	rearSkyVF := (1 + math.Cos(rearTiltRad)) / 2 * (1 - c.GCR)
	if c.Rows == 2 {
		rear += irr.DHI * rearSkyVF
	} else {
		rear += irr.DHI * rearSkyVF * 0.5
	}

	return Absorbed{Front: front, Rear: rear}, nil
}

// incidenceCosine is the cosine of the angle between the sun and the surface
// normal.
func incidenceCosine(pos Position, ornt Orientation) float64 {
	zen := pos.ApparentZenith * degToRad
	tilt := ornt.SurfaceTilt * degToRad
	azDiff := (pos.Azimuth - ornt.SurfaceAzimuth) * degToRad
	return math.Cos(zen)*math.Cos(tilt) + math.Sin(zen)*math.Sin(tilt)*math.Cos(azDiff)
}
