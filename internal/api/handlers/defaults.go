package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/models"
	"bifacial-tilt/internal/solar"
)

// ListDefaults handles GET /api/v1/defaults: the built-in module, inverter
// and temperature parameter sets used when a request omits a power model.
func ListDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultsResponse{
		Module:      solar.DefaultModuleParams(),
		Temperature: solar.DefaultTemperatureParams(),
		Inverter:    solar.DefaultInverterParams(),
	})
}
