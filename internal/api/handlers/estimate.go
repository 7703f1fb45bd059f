package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/models"
	"bifacial-tilt/internal/simulate"
)

// EstimateHandler handles annual-estimate requests.
type EstimateHandler struct{}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler() *EstimateHandler {
	return &EstimateHandler{}
}

// RunEstimate handles POST /api/v1/estimate
func (h *EstimateHandler) RunEstimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	geom, err := geometryFromRequest(req.Site)
	if err != nil {
		badRequest(c, "INVALID_SITE", err.Error())
		return
	}

	in := simulateInputs(geom, req.Profiles, req.PowerModel)
	res, err := simulate.AnnualEstimate(in, simulate.Options{
		Year:    req.Simulation.Year,
		Workers: req.Simulation.Workers,
	})
	if err != nil {
		internalError(c, "ESTIMATE_FAILED", err.Error())
		return
	}

	resp := models.EstimateResponse{
		Site:        geom.Name,
		AxisTilt:    geom.AxisTilt,
		EnergyKWh:   res.EnergyKWh,
		SampleCount: res.SampleCount,
	}
	if req.IncludeSamples {
		resp.Samples = daySamples(res.Samples)
	}
	c.JSON(http.StatusOK, resp)
}
