package service

import (
	"errors"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionService covers the question bank: authoring, community
// contributions with moderation, scheduled publication, and reports.
type QuestionService struct {
	QuestionRepo     *repository.QuestionRepository
	ContributionRepo *repository.ContributionRepository
	BranchRepo       *repository.BranchRepository
	Notifier         *NotificationService
	Config           *config.Config

	Now func() time.Time
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	contributionRepo *repository.ContributionRepository,
	branchRepo *repository.BranchRepository,
	notifier *NotificationService,
	cfg *config.Config,
) *QuestionService {
	return &QuestionService{
		QuestionRepo:     questionRepo,
		ContributionRepo: contributionRepo,
		BranchRepo:       branchRepo,
		Notifier:         notifier,
		Config:           cfg,
		Now:              time.Now,
	}
}

type AnswerInput struct {
	AnswerTextEN string `json:"answerTextEn" binding:"required"`
	AnswerTextNP string `json:"answerTextNp" binding:"required"`
	IsCorrect    bool   `json:"isCorrect"`
}

type QuestionInput struct {
	QuestionTextEN  string        `json:"questionTextEn" binding:"required"`
	QuestionTextNP  string        `json:"questionTextNp" binding:"required"`
	CategoryID      uint          `json:"categoryId" binding:"required"`
	DifficultyLevel string        `json:"difficultyLevel"`
	ExplanationEN   string        `json:"explanationEn"`
	ExplanationNP   string        `json:"explanationNp"`
	SourceReference string        `json:"sourceReference"`
	ConsentGiven    bool          `json:"consentGiven"`
	Answers         []AnswerInput `json:"answers" binding:"required"`
}

func (s *QuestionService) validateInput(in QuestionInput) error {
	if len(in.Answers) < 2 {
		return fmt.Errorf("%w: a question needs at least two options", util.ErrValidation)
	}
	correct := 0
	for _, a := range in.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct > 1 {
		return fmt.Errorf("%w: at most one option may be marked correct", util.ErrValidation)
	}
	if _, err := s.BranchRepo.FindCategory(in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", util.ErrNotFound, in.CategoryID)
		}
		return err
	}
	switch in.DifficultyLevel {
	case "", string(model.DifficultyEasy), string(model.DifficultyMedium), string(model.DifficultyHard):
	default:
		return fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, in.DifficultyLevel)
	}
	return nil
}

func buildAnswers(in []AnswerInput) []model.Answer {
	answers := make([]model.Answer, len(in))
	for i, a := range in {
		answers[i] = model.Answer{
			AnswerTextEN: a.AnswerTextEN,
			AnswerTextNP: a.AnswerTextNP,
			IsCorrect:    a.IsCorrect,
			DisplayOrder: i,
		}
	}
	return answers
}

// CreateQuestion is the staff path: the question lands PUBLIC immediately.
func (s *QuestionService) CreateQuestion(creatorID uint, in QuestionInput) (*model.Question, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	q := &model.Question{
		QuestionTextEN:  in.QuestionTextEN,
		QuestionTextNP:  in.QuestionTextNP,
		CategoryID:      in.CategoryID,
		DifficultyLevel: model.QuestionDifficulty(in.DifficultyLevel),
		QuestionType:    "MCQ",
		ExplanationEN:   in.ExplanationEN,
		ExplanationNP:   in.ExplanationNP,
		SourceReference: in.SourceReference,
		Status:          model.QuestionPublic,
		CreatedByID:     &creatorID,
		IsPublic:        true,
		IsVerified:      true,
		ConsentGiven:    true,
	}
	if err := s.QuestionRepo.CreateWithAnswers(q, buildAnswers(in.Answers)); err != nil {
		return nil, err
	}
	return q, nil
}

// Contribute is the community path: the question enters review and a
// contribution record tracks it toward the publication batch.
func (s *QuestionService) Contribute(userID uint, in QuestionInput) (*model.Question, error) {
	if !in.ConsentGiven {
		return nil, fmt.Errorf("%w: publication consent is required", util.ErrValidation)
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	q := &model.Question{
		QuestionTextEN:  in.QuestionTextEN,
		QuestionTextNP:  in.QuestionTextNP,
		CategoryID:      in.CategoryID,
		DifficultyLevel: model.QuestionDifficulty(in.DifficultyLevel),
		QuestionType:    "MCQ",
		ExplanationEN:   in.ExplanationEN,
		ExplanationNP:   in.ExplanationNP,
		SourceReference: in.SourceReference,
		Status:          model.QuestionPendingReview,
		CreatedByID:     &userID,
		ConsentGiven:    true,
	}
	if err := s.QuestionRepo.CreateWithAnswers(q, buildAnswers(in.Answers)); err != nil {
		return nil, err
	}

	now := s.Now()
	contribution := &model.Contribution{
		UserID:            userID,
		QuestionID:        q.ID,
		ContributionMonth: int(now.Month()),
		ContributionYear:  now.Year(),
		Status:            model.ContributionPending,
	}
	if err := s.ContributionRepo.Create(contribution); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrContributionExists
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) ListPublic(categoryID uint, limit int) ([]model.Question, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.QuestionRepo.ListPublicByCategory(categoryID, limit)
}

func (s *QuestionService) UpdateQuestion(id uint, in QuestionInput) (*model.Question, error) {
	q, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	q.QuestionTextEN = in.QuestionTextEN
	q.QuestionTextNP = in.QuestionTextNP
	q.CategoryID = in.CategoryID
	q.DifficultyLevel = model.QuestionDifficulty(in.DifficultyLevel)
	q.ExplanationEN = in.ExplanationEN
	q.ExplanationNP = in.ExplanationNP
	q.SourceReference = in.SourceReference
	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.GetQuestion(id); err != nil {
		return err
	}
	if err := s.QuestionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return util.ErrQuestionProtected
		}
		return err
	}
	return nil
}

// ApproveContribution verifies the question and schedules it for the next
// monthly publication batch.
func (s *QuestionService) ApproveContribution(reviewerID, contributionID uint) (*model.Contribution, error) {
	c, err := s.ContributionRepo.FindByID(contributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contribution %d", util.ErrNotFound, contributionID)
		}
		return nil, err
	}
	if c.Status != model.ContributionPending {
		return nil, fmt.Errorf("%w: contribution already %s", util.ErrInvalidState, c.Status)
	}

	q, err := s.GetQuestion(c.QuestionID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	firstOfNextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)

	q.Status = model.QuestionPrivate
	q.IsVerified = true
	q.ScheduledPublicDate = &firstOfNextMonth
	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}

	c.Status = model.ContributionApproved
	c.ApprovalDate = &now
	if err := s.ContributionRepo.Update(c); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.EmitContributionDecision(c.UserID, c.QuestionID, true)
	}
	return c, nil
}

func (s *QuestionService) RejectContribution(reviewerID, contributionID uint, reason string) (*model.Contribution, error) {
	c, err := s.ContributionRepo.FindByID(contributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contribution %d", util.ErrNotFound, contributionID)
		}
		return nil, err
	}
	if c.Status != model.ContributionPending {
		return nil, fmt.Errorf("%w: contribution already %s", util.ErrInvalidState, c.Status)
	}

	q, err := s.GetQuestion(c.QuestionID)
	if err != nil {
		return nil, err
	}
	q.Status = model.QuestionDraft
	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}

	c.Status = model.ContributionRejected
	c.RejectionReason = reason
	if err := s.ContributionRepo.Update(c); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.EmitContributionDecision(c.UserID, c.QuestionID, false)
	}
	return c, nil
}

func (s *QuestionService) ListContributions(status model.ContributionStatus, page, limit int) ([]model.Contribution, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ContributionRepo.ListByStatus(status, page, limit)
}

func (s *QuestionService) ListUserContributions(userID uint) ([]model.Contribution, error) {
	return s.ContributionRepo.ListByUser(userID)
}

// ProcessScheduledPublications flips questions whose scheduled date has
// arrived to public and closes out their contribution records. Questions
// already public are never selected, so reruns are harmless.
func (s *QuestionService) ProcessScheduledPublications() (int, error) {
	now := s.Now()
	due, err := s.QuestionRepo.ListDueForPublication(now)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range due {
		q := &due[i]
		q.IsPublic = true
		q.Status = model.QuestionPublic
		if err := s.QuestionRepo.Update(q); err != nil {
			logger.Log.Error("publication: question update failed",
				zap.Uint("questionId", q.ID), zap.Error(err))
			continue
		}
		published++

		c, err := s.ContributionRepo.FindByQuestion(q.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Error("publication: contribution lookup failed",
					zap.Uint("questionId", q.ID), zap.Error(err))
			}
			continue
		}
		if c.Status == model.ContributionApproved {
			c.Status = model.ContributionMadePublic
			c.PublicDate = &now
			if err := s.ContributionRepo.Update(c); err != nil {
				logger.Log.Error("publication: contribution update failed",
					zap.Uint("contributionId", c.ID), zap.Error(err))
			}
		}
	}
	return published, nil
}

// Reports

type ReportInput struct {
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

func (s *QuestionService) ReportQuestion(userID, questionID uint, in ReportInput) (*model.QuestionReport, error) {
	if _, err := s.GetQuestion(questionID); err != nil {
		return nil, err
	}
	switch model.ReportReason(in.Reason) {
	case model.ReportIncorrectAnswer, model.ReportTypo, model.ReportInappropriate, model.ReportDuplicate, model.ReportOther:
	default:
		return nil, fmt.Errorf("%w: unknown report reason %q", util.ErrValidation, in.Reason)
	}

	report := &model.QuestionReport{
		QuestionID:   questionID,
		ReportedByID: &userID,
		Reason:       model.ReportReason(in.Reason),
		Description:  in.Description,
		Status:       model.ReportPending,
	}
	if err := s.QuestionRepo.CreateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *QuestionService) ResolveReport(reviewerID, reportID uint, accept bool, notes string) (*model.QuestionReport, error) {
	report, err := s.QuestionRepo.FindReport(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: report %d", util.ErrNotFound, reportID)
		}
		return nil, err
	}
	if report.Status == model.ReportResolved || report.Status == model.ReportRejected {
		return nil, fmt.Errorf("%w: report already closed", util.ErrInvalidState)
	}

	now := s.Now()
	if accept {
		report.Status = model.ReportResolved
	} else {
		report.Status = model.ReportRejected
	}
	report.ReviewedByID = &reviewerID
	report.AdminNotes = notes
	report.ResolvedAt = &now
	if err := s.QuestionRepo.UpdateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *QuestionService) ListPendingReports(limit int) ([]model.QuestionReport, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.QuestionRepo.ListReportsByStatus(model.ReportPending, limit)
}
