package controller

import (
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// Platform godoc
// @Summary Platform totals
// @Description Last rebuilt snapshot of platform-wide counters
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response{data=model.PlatformStats}
// @Router /api/stats/platform [get]
func (c *StatsController) Platform(ctx *gin.Context) {
	stats, err := c.StatsService.PlatformStats()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Success(ctx, gin.H{})
			return
		}
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// DailyActivity godoc
// @Summary Daily activity trend
// @Tags stats
// @Produce json
// @Param days query int false "trailing days, default 30"
// @Success 200 {object} util.Response{data=[]model.DailyActivity}
// @Security BearerAuth
// @Router /api/admin/stats/daily [get]
func (c *StatsController) DailyActivity(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	activities, err := c.StatsService.DailyActivity(days)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}

// Rebuild godoc
// @Summary Rebuild aggregate tables
// @Description Admin trigger for an immediate statistics rebuild
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/stats/rebuild [post]
func (c *StatsController) Rebuild(ctx *gin.Context) {
	c.StatsService.RebuildAll()
	util.Success(ctx, gin.H{"message": "statistics rebuilt"})
}
