package admin

import (
	"net/http"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminAnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAdminAnalyticsController(analyticsService service.AnalyticsService) *AdminAnalyticsController {
	return &AdminAnalyticsController{analyticsService: analyticsService}
}

// Dashboard godoc
// @Summary (Admin) Analytics dashboard
// @Description Returns engagement, activity, track, difficulty, performance, score, and streak analytics read from the precomputed views.
// @Tags Admin - Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/analytics [get]
func (c *AdminAnalyticsController) Dashboard(ctx *gin.Context) {
	resp, err := c.analyticsService.Dashboard()
	if err != nil {
		log.Error().Err(err).Msg("Admin Dashboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load analytics"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
