package controller

import (
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BranchController struct {
	BranchService *service.BranchService
}

func NewBranchController(branchService *service.BranchService) *BranchController {
	return &BranchController{BranchService: branchService}
}

// List godoc
// @Summary List exam branches
// @Tags branches
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Branch}
// @Router /api/branches [get]
func (c *BranchController) List(ctx *gin.Context) {
	branches, err := c.BranchService.List()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, branches)
}

// SubBranches godoc
// @Summary List sub-branches of a branch
// @Tags branches
// @Produce json
// @Param id path int true "branch id"
// @Success 200 {object} util.Response{data=[]model.SubBranch}
// @Failure 404 {object} util.Response
// @Router /api/branches/{id}/sub-branches [get]
func (c *BranchController) SubBranches(ctx *gin.Context) {
	subBranches, err := c.BranchService.ListSubBranches(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, subBranches)
}

// Categories godoc
// @Summary List question categories
// @Description Universal categories plus those scoped to the given branch or sub-branch
// @Tags branches
// @Produce json
// @Param branchId query int false "branch filter"
// @Param subBranchId query int false "sub-branch filter"
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *BranchController) Categories(ctx *gin.Context) {
	branchID := util.ParseOptionalUint(ctx.Query("branchId"))
	subBranchID := util.ParseOptionalUint(ctx.Query("subBranchId"))

	categories, err := c.BranchService.ListCategories(branchID, subBranchID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
