package controller

import (
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Start godoc
// @Summary Start an attempt
// @Description Opens a mock-test or practice session for the caller
// @Tags attempts
// @Accept json
// @Produce json
// @Param body body service.StartAttemptRequest true "attempt parameters"
// @Success 201 {object} util.Response{data=model.UserAttempt}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /api/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.StartAttempt(claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// SubmitAnswer godoc
// @Summary Submit or change an answer
// @Description Records the caller's response for one question of an in-progress attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path int true "attempt id"
// @Param questionId path int true "question id"
// @Param body body service.SubmitAnswerRequest true "answer payload"
// @Success 200 {object} util.Response{data=model.UserAnswer}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/attempts/{id}/questions/{questionId}/answer [put]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := util.MustParseUint(ctx.Param("id"))
	questionID := util.MustParseUint(ctx.Param("questionId"))

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AttemptService.SubmitAnswer(claims.UserID, attemptID, questionID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// Complete godoc
// @Summary Complete an attempt
// @Description Finalizes the score and percentage; repeat calls fail
// @Tags attempts
// @Produce json
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response{data=model.UserAttempt}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/attempts/{id}/complete [post]
func (c *AttemptController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.AttemptService.CompleteAttempt(claims.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Abandon godoc
// @Summary Abandon an attempt
// @Description Closes the session without finalizing results
// @Tags attempts
// @Produce json
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response{data=model.UserAttempt}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Security BearerAuth
// @Router /api/attempts/{id}/abandon [post]
func (c *AttemptController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.AttemptService.AbandonAttempt(claims.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Get godoc
// @Summary Get one attempt
// @Description Returns the attempt with all its answers
// @Tags attempts
// @Produce json
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response{data=model.UserAttempt}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.AttemptService.GetAttempt(claims.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// List godoc
// @Summary List the caller's attempts
// @Tags attempts
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, total, err := c.AttemptService.ListAttempts(claims.UserID, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}
