// internal/handlers/statistics.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// GET /statistics/dashboard
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statisticsService.Dashboard(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err, "Statistics")
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /statistics/daily/:metric?days=7
func (h *StatisticsHandler) Daily(c *gin.Context) {
	days := queryInt(c, "days", services.DefaultSeriesDays)

	points, err := h.statisticsService.DailySeries(c.Request.Context(), principal(c), c.Param("metric"), days)
	if err != nil {
		respondError(c, err, "Statistics")
		return
	}
	utils.SuccessResponse(c, points)
}

// GET /statistics/monthly/:metric?months=12
func (h *StatisticsHandler) Monthly(c *gin.Context) {
	months := queryInt(c, "months", services.DefaultSeriesMonths)

	points, err := h.statisticsService.MonthlySeries(c.Request.Context(), principal(c), c.Param("metric"), months)
	if err != nil {
		respondError(c, err, "Statistics")
		return
	}
	utils.SuccessResponse(c, points)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
