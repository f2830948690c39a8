package controller

import (
	"net/http"

	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Counts returns the dashboard counters. The admin UI also polls this as a
// fallback when the websocket stream is unavailable.
// GET /api/v1/stats/counts
func (ctrl *StatsController) Counts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.statsService.ActiveCounts()
	if err != nil {
		log.Error("Failed to compute counts", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}
