package controller

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// List godoc
// @Summary List public questions
// @Tags questions
// @Produce json
// @Param categoryId query int false "category filter"
// @Param limit query int false "max questions"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Query("categoryId"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	questions, err := c.QuestionService.ListPublic(categoryID, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Get godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param id path int true "question id"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	q, err := c.QuestionService.GetQuestion(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Create godoc
// @Summary Create a question
// @Description Staff path; the question is published immediately
// @Tags questions
// @Accept json
// @Produce json
// @Param body body service.QuestionInput true "question payload"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.CreateQuestion(claims.UserID, in)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// Update godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "question id"
// @Param body body service.QuestionInput true "question payload"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.UpdateQuestion(util.MustParseUint(ctx.Param("id")), in)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary Delete a question
// @Description Refused while attempts or tests still reference it
// @Tags questions
// @Produce json
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	if err := c.QuestionService.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Contribute godoc
// @Summary Contribute a question
// @Description Community path; the question enters moderation review
// @Tags contributions
// @Accept json
// @Produce json
// @Param body body service.QuestionInput true "question payload"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /api/contributions [post]
func (c *QuestionController) Contribute(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Contribute(claims.UserID, in)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// MyContributions godoc
// @Summary List the caller's contributions
// @Tags contributions
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Contribution}
// @Security BearerAuth
// @Router /api/contributions/mine [get]
func (c *QuestionController) MyContributions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	contributions, err := c.QuestionService.ListUserContributions(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, contributions)
}

// ListContributions godoc
// @Summary List contributions by status
// @Tags contributions
// @Produce json
// @Param status query string false "PENDING, APPROVED, REJECTED or MADE_PUBLIC"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/admin/contributions [get]
func (c *QuestionController) ListContributions(ctx *gin.Context) {
	status := model.ContributionStatus(strings.ToUpper(ctx.DefaultQuery("status", string(model.ContributionPending))))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	contributions, total, err := c.QuestionService.ListContributions(status, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: contributions, Total: total, Page: page, Limit: limit})
}

// Approve godoc
// @Summary Approve a contribution
// @Description Schedules the question for the next publication batch
// @Tags contributions
// @Produce json
// @Param id path int true "contribution id"
// @Success 200 {object} util.Response{data=model.Contribution}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/contributions/{id}/approve [post]
func (c *QuestionController) Approve(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	contribution, err := c.QuestionService.ApproveContribution(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, contribution)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary Reject a contribution
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path int true "contribution id"
// @Param body body rejectRequest false "rejection reason"
// @Success 200 {object} util.Response{data=model.Contribution}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/contributions/{id}/reject [post]
func (c *QuestionController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req rejectRequest
	_ = ctx.ShouldBindJSON(&req)

	contribution, err := c.QuestionService.RejectContribution(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Reason)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, contribution)
}

// Report godoc
// @Summary Report a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "question id"
// @Param body body service.ReportInput true "report payload"
// @Success 201 {object} util.Response{data=model.QuestionReport}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/questions/{id}/report [post]
func (c *QuestionController) Report(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var in service.ReportInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.QuestionService.ReportQuestion(claims.UserID, util.MustParseUint(ctx.Param("id")), in)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, report)
}

// PendingReports godoc
// @Summary List open reports
// @Tags questions
// @Produce json
// @Param limit query int false "max reports"
// @Success 200 {object} util.Response{data=[]model.QuestionReport}
// @Security BearerAuth
// @Router /api/admin/reports [get]
func (c *QuestionController) PendingReports(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	reports, err := c.QuestionService.ListPendingReports(limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

type resolveReportRequest struct {
	Accept bool   `json:"accept"`
	Notes  string `json:"notes"`
}

// ResolveReport godoc
// @Summary Close a report
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "report id"
// @Param body body resolveReportRequest true "decision"
// @Success 200 {object} util.Response{data=model.QuestionReport}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/reports/{id}/resolve [post]
func (c *QuestionController) ResolveReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req resolveReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.QuestionService.ResolveReport(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Accept, req.Notes)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// PublishDue godoc
// @Summary Run the publication batch
// @Description Publishes every question whose scheduled date has arrived
// @Tags questions
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/questions/publish-due [post]
func (c *QuestionController) PublishDue(ctx *gin.Context) {
	published, err := c.QuestionService.ProcessScheduledPublications()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"published": published})
}
