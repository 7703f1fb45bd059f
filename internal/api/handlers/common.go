package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/models"
	"bifacial-tilt/internal/model"
	"bifacial-tilt/internal/simulate"
	"bifacial-tilt/internal/solar"
)

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

func internalError(c *gin.Context, code, message string) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

// geometryFromRequest validates the site block into a SiteGeometry.
func geometryFromRequest(site models.SiteRequest) (model.SiteGeometry, error) {
	return model.NewSiteGeometry(model.SiteGeometry{
		Name:         site.Name,
		Latitude:     site.Latitude,
		Longitude:    site.Longitude,
		Timezone:     site.Timezone,
		GCR:          site.GCR,
		MaxAngle:     site.MaxAngle,
		RowWidth:     site.RowWidth,
		Bifaciality:  site.Bifaciality,
		RevealHeight: site.RevealHeight,
		ArrayClass:   model.ArrayClass(site.ArrayClass),
		AxisTilt:     site.AxisTilt,
	})
}

// profileFromMap converts a month-keyed table into a MonthlyProfile.
func profileFromMap(m map[int]float64) model.MonthlyProfile {
	values := make(map[time.Month]float64, len(m))
	for k, v := range m {
		values[time.Month(k)] = v
	}
	return model.NewMonthlyProfile(values)
}

// powerModelFromRequest builds the power model, starting from the built-in
// defaults and overlaying whatever the request provides.
func powerModelFromRequest(req *models.PowerModelRequest) *solar.PVWattsModel {
	pm := solar.NewPVWattsModel()
	if req == nil {
		return pm
	}
	if req.Module != nil {
		pm.Module = *req.Module
	}
	if req.Temperature != nil {
		pm.Temperature = *req.Temperature
	}
	if req.Inverter != nil {
		pm.Inverter = *req.Inverter
	}
	if req.AirTempC != 0 {
		pm.AirTempC = req.AirTempC
	}
	if req.WindSpeed != 0 {
		pm.WindSpeed = req.WindSpeed
	}
	return pm
}

// simulateInputs assembles the shared simulation inputs for a request.
func simulateInputs(geom model.SiteGeometry, profiles models.ProfilesRequest, pm *models.PowerModelRequest) simulate.Inputs {
	return simulate.Inputs{
		Geometry:   geom,
		Albedo:     profileFromMap(profiles.Albedo),
		RowHeights: profileFromMap(profiles.RowHeights),
		Power:      powerModelFromRequest(pm),
	}
}

func daySamples(samples []simulate.DayResult) []models.DaySample {
	out := make([]models.DaySample, len(samples))
	for i, s := range samples {
		out[i] = models.DaySample{
			Date:      s.Date.Format("2006-01-02"),
			RowHeight: s.RowHeight,
			EnergyKWh: s.EnergyKWh,
		}
	}
	return out
}
