package controller

import (
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MockTestController struct {
	MockTestService *service.MockTestService
}

func NewMockTestController(mockTestService *service.MockTestService) *MockTestController {
	return &MockTestController{MockTestService: mockTestService}
}

// List godoc
// @Summary List mock tests
// @Tags mock-tests
// @Produce json
// @Param branchId query int false "branch filter"
// @Param subBranchId query int false "sub-branch filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/mock-tests [get]
func (c *MockTestController) List(ctx *gin.Context) {
	branchID := util.MustParseUint(ctx.Query("branchId"))
	subBranchID := util.ParseOptionalUint(ctx.Query("subBranchId"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.MockTestService.List(branchID, subBranchID, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: tests, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get a mock test
// @Description Accepts a numeric id or a slug
// @Tags mock-tests
// @Produce json
// @Param id path string true "test id or slug"
// @Success 200 {object} util.Response{data=model.MockTest}
// @Failure 404 {object} util.Response
// @Router /api/mock-tests/{id} [get]
func (c *MockTestController) Get(ctx *gin.Context) {
	param := ctx.Param("id")
	if id := util.MustParseUint(param); id != 0 {
		test, err := c.MockTestService.Get(id)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		util.Success(ctx, test)
		return
	}

	test, err := c.MockTestService.GetBySlug(param)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// Create godoc
// @Summary Create a mock test
// @Tags mock-tests
// @Accept json
// @Produce json
// @Param body body service.MockTestInput true "test payload"
// @Success 201 {object} util.Response{data=model.MockTest}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/mock-tests [post]
func (c *MockTestController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var in service.MockTestInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.MockTestService.Create(claims.UserID, in)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// Deactivate godoc
// @Summary Deactivate a mock test
// @Description Hides the test from listings; recorded attempts are kept
// @Tags mock-tests
// @Produce json
// @Param id path int true "test id"
// @Success 200 {object} util.Response{data=model.MockTest}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/mock-tests/{id}/deactivate [post]
func (c *MockTestController) Deactivate(ctx *gin.Context) {
	test, err := c.MockTestService.Deactivate(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}
