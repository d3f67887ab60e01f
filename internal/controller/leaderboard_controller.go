package controller

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

func parsePeriod(raw string) model.TimePeriod {
	return model.TimePeriod(strings.ToUpper(strings.TrimSpace(raw)))
}

// Top godoc
// @Summary Leaderboard page
// @Description Returns the top-ranked users of one partition
// @Tags leaderboard
// @Produce json
// @Param period query string true "WEEKLY, MONTHLY or ALL_TIME"
// @Param branchId query int true "branch id"
// @Param subBranchId query int false "sub-branch id"
// @Param limit query int false "max entries"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Failure 400 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	period := parsePeriod(ctx.Query("period"))
	branchID := util.MustParseUint(ctx.Query("branchId"))
	if branchID == 0 {
		util.BadRequest(ctx, "branchId is required")
		return
	}
	subBranchID := util.ParseOptionalUint(ctx.Query("subBranchId"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := c.LeaderboardService.Top(period, branchID, subBranchID, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// MyRank godoc
// @Summary The caller's rank
// @Description Returns the caller's entry in one partition
// @Tags leaderboard
// @Produce json
// @Param period query string true "WEEKLY, MONTHLY or ALL_TIME"
// @Param branchId query int true "branch id"
// @Param subBranchId query int false "sub-branch id"
// @Success 200 {object} util.Response{data=model.LeaderboardEntry}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/leaderboard/me [get]
func (c *LeaderboardController) MyRank(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	period := parsePeriod(ctx.Query("period"))
	branchID := util.MustParseUint(ctx.Query("branchId"))
	if branchID == 0 {
		util.BadRequest(ctx, "branchId is required")
		return
	}
	subBranchID := util.ParseOptionalUint(ctx.Query("subBranchId"))

	entry, err := c.LeaderboardService.UserRank(claims.UserID, period, branchID, subBranchID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// Recalculate godoc
// @Summary Rebuild a leaderboard partition
// @Description Admin trigger for an immediate partition rebuild
// @Tags leaderboard
// @Produce json
// @Param period query string true "WEEKLY, MONTHLY or ALL_TIME"
// @Param branchId query int true "branch id"
// @Param subBranchId query int false "sub-branch id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/leaderboard/recalculate [post]
func (c *LeaderboardController) Recalculate(ctx *gin.Context) {
	period := parsePeriod(ctx.Query("period"))
	branchID := util.MustParseUint(ctx.Query("branchId"))
	if branchID == 0 {
		util.BadRequest(ctx, "branchId is required")
		return
	}
	subBranchID := util.ParseOptionalUint(ctx.Query("subBranchId"))

	entries, err := c.LeaderboardService.RecalculatePartition(period, branchID, subBranchID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"entries": len(entries), "message": fmt.Sprintf("partition %s rebuilt", period)})
}
