package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/models"
	"bifacial-tilt/internal/simulate"
	"bifacial-tilt/internal/tiltopt"
)

// OptimizeHandler handles tilt-search requests.
type OptimizeHandler struct{}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler() *OptimizeHandler {
	return &OptimizeHandler{}
}

// RunOptimize handles POST /api/v1/optimize
func (h *OptimizeHandler) RunOptimize(c *gin.Context) {
	var req models.OptimizeRequest
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
	opts := simulate.Options{
		Year:    req.Simulation.Year,
		Workers: req.Simulation.Workers,
	}

	objective := func(tilt float64) (float64, error) {
		trialIn := in
		trialIn.Geometry = geom.WithAxisTilt(tilt)
		res, err := simulate.AnnualEstimate(trialIn, opts)
		if err != nil {
			return 0, err
		}
		return res.EnergyKWh, nil
	}

	result, err := tiltopt.Optimize(objective, tiltopt.Config{
		LowerBound:    req.Optimizer.MinTilt,
		UpperBound:    req.Optimizer.MaxTilt,
		Trials:        req.Optimizer.Trials,
		StartupTrials: req.Optimizer.StartupTrials,
		Seed:          req.Optimizer.Seed,
	})
	if err != nil {
		internalError(c, "OPTIMIZE_FAILED", err.Error())
		return
	}

	trials := make([]models.TrialInfo, len(result.Trials))
	for i, t := range result.Trials {
		info := models.TrialInfo{
			Number:    t.Number,
			AxisTilt:  t.AxisTilt,
			EnergyKWh: t.EnergyKWh,
		}
		if t.Err != nil {
			info.Error = t.Err.Error()
		}
		trials[i] = info
	}

	c.JSON(http.StatusOK, models.OptimizeResponse{
		Site:          geom.Name,
		BestTilt:      result.BestTilt,
		BestEnergyKWh: result.BestEnergyKWh,
		Trials:        trials,
	})
}
