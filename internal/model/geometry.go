package model

import (
	"errors"
	"fmt"
	"time"
)

// ArrayClass tells whether the simulated tracker row sits at the edge of the
// array or inside it. Keep these values stable; they appear in configs and
// CSV output.
type ArrayClass string

const (
	ArrayExternal ArrayClass = "External"
	ArrayInternal ArrayClass = "Internal"
)

// RowCount returns the number of physical rows modeled around the observed
// row: an external row sees one neighbor (2 rows), an internal row sees
// neighbors on both sides (3 rows).
func (c ArrayClass) RowCount() (int, error) {
	switch c {
	case ArrayExternal:
		return 2, nil
	case ArrayInternal:
		return 3, nil
	default:
		return 0, fmt.Errorf("invalid array class %q: must be %q or %q", string(c), ArrayExternal, ArrayInternal)
	}
}

// SiteGeometry is the fixed physical configuration of the tracker array for
// one simulation run. AxisTilt is the tunable parameter; the optimizer copies
// the geometry per trial with WithAxisTilt.
//
// Units:
// - Latitude/Longitude: degrees
// - GCR: fraction (0,1]
// - MaxAngle, AxisTilt: degrees
// - RowWidth, RevealHeight: site length units
// - Bifaciality: fraction [0,1]
type SiteGeometry struct {
	Name         string
	Latitude     float64
	Longitude    float64
	Timezone     string // IANA name, e.g. "US/Mountain"
	GCR          float64
	MaxAngle     float64
	RowWidth     float64
	Bifaciality  float64
	RevealHeight float64
	ArrayClass   ArrayClass
	AxisTilt     float64
}

// NewSiteGeometry validates g and returns it. All simulation entry points
// construct geometry through here so configuration errors surface before any
// simulation work begins.
func NewSiteGeometry(g SiteGeometry) (SiteGeometry, error) {
	if err := g.Validate(); err != nil {
		return SiteGeometry{}, err
	}
	return g, nil
}

func (g SiteGeometry) Validate() error {
	if g.Latitude < -90 || g.Latitude > 90 {
		return errors.New("Latitude must be in [-90, 90]")
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return errors.New("Longitude must be in [-180, 180]")
	}
	if _, err := time.LoadLocation(g.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", g.Timezone, err)
	}
	if g.GCR <= 0 || g.GCR > 1 {
		return errors.New("GCR must be in (0, 1]")
	}
	if g.MaxAngle <= 0 || g.MaxAngle > 90 {
		return errors.New("MaxAngle must be in (0, 90]")
	}
	if g.RowWidth <= 0 {
		return errors.New("RowWidth must be > 0")
	}
	if g.Bifaciality < 0 || g.Bifaciality > 1 {
		return errors.New("Bifaciality must be in [0, 1]")
	}
	if g.RevealHeight <= 0 {
		return errors.New("RevealHeight must be > 0")
	}
	if _, err := g.ArrayClass.RowCount(); err != nil {
		return err
	}
	if g.AxisTilt < 0 || g.AxisTilt > 90 {
		return errors.New("AxisTilt must be in [0, 90]")
	}
	return nil
}

// WithAxisTilt returns a copy of the geometry with a different axis tilt.
// Everything else is shared by value, so trials never alias each other.
func (g SiteGeometry) WithAxisTilt(tilt float64) SiteGeometry {
	g.AxisTilt = tilt
	return g
}

// Location resolves the site's IANA timezone.
func (g SiteGeometry) Location() (*time.Location, error) {
	return time.LoadLocation(g.Timezone)
}
