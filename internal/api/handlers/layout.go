package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/models"
	"bifacial-tilt/internal/layout"
)

// LayoutHandler summarizes tracker-layout survey exports.
type LayoutHandler struct{}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler() *LayoutHandler {
	return &LayoutHandler{}
}

// Summarize handles POST /api/v1/layout
func (h *LayoutHandler) Summarize(c *gin.Context) {
	var req models.LayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	points, err := layout.ParseSurvey(strings.NewReader(req.CSV))
	if err != nil {
		badRequest(c, "INVALID_SURVEY", err.Error())
		return
	}

	summary, err := layout.Summarize(points, layout.DefaultSurveyRules())
	if err != nil {
		badRequest(c, "INVALID_SURVEY", err.Error())
		return
	}

	groups := make([]models.LayoutGroup, len(summary.Groups))
	for i, g := range summary.Groups {
		groups[i] = models.LayoutGroup{
			RoundedHeight: g.RoundedHeight,
			ArrayClass:    string(g.Class),
			Rows:          g.Rows,
			TotalModules:  g.TotalModules,
		}
	}

	c.JSON(http.StatusOK, models.LayoutResponse{
		WeightedAverageHeight: summary.WeightedAverageHeight,
		TotalModules:          summary.TotalModules,
		Groups:                groups,
	})
}
