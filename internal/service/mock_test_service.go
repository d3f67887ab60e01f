package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"fmt"

	"gorm.io/gorm"
)

type MockTestService struct {
	MockTestRepo *repository.MockTestRepository
	QuestionRepo *repository.QuestionRepository
	BranchRepo   *repository.BranchRepository
}

func NewMockTestService(mockTestRepo *repository.MockTestRepository, questionRepo *repository.QuestionRepository, branchRepo *repository.BranchRepository) *MockTestService {
	return &MockTestService{MockTestRepo: mockTestRepo, QuestionRepo: questionRepo, BranchRepo: branchRepo}
}

type MockTestQuestionInput struct {
	QuestionID     uint    `json:"questionId" binding:"required"`
	MarksAllocated float64 `json:"marksAllocated"`
}

type MockTestInput struct {
	TitleEN         string                  `json:"titleEn" binding:"required"`
	TitleNP         string                  `json:"titleNp" binding:"required"`
	DescriptionEN   string                  `json:"descriptionEn"`
	DescriptionNP   string                  `json:"descriptionNp"`
	TestType        string                  `json:"testType"`
	BranchID        uint                    `json:"branchId" binding:"required"`
	SubBranchID     *uint                   `json:"subBranchId"`
	DurationMinutes *int                    `json:"durationMinutes"`
	PassPercentage  float64                 `json:"passPercentage"`
	Questions       []MockTestQuestionInput `json:"questions" binding:"required"`
}

// Create builds a test from an ordered question list. Question order is the
// list order; marks default to one.
func (s *MockTestService) Create(creatorID uint, in MockTestInput) (*model.MockTest, error) {
	if len(in.Questions) == 0 {
		return nil, fmt.Errorf("%w: a mock test needs at least one question", util.ErrValidation)
	}
	if in.PassPercentage < 0 || in.PassPercentage > 100 {
		return nil, fmt.Errorf("%w: pass percentage must be between 0 and 100", util.ErrValidation)
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", util.ErrValidation)
	}

	testType := model.MockTestType(in.TestType)
	switch testType {
	case "":
		testType = model.TestCommunity
	case model.TestOfficial, model.TestCommunity, model.TestCustom:
	default:
		return nil, fmt.Errorf("%w: unknown test type %q", util.ErrValidation, in.TestType)
	}

	if _, err := s.BranchRepo.FindByID(in.BranchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: branch %d", util.ErrNotFound, in.BranchID)
		}
		return nil, err
	}
	if in.SubBranchID != nil {
		sub, err := s.BranchRepo.FindSubBranch(*in.SubBranchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: sub-branch %d", util.ErrNotFound, *in.SubBranchID)
			}
			return nil, err
		}
		if sub.BranchID != in.BranchID {
			return nil, fmt.Errorf("%w: sub-branch does not belong to branch %d", util.ErrValidation, in.BranchID)
		}
	}

	ids := make([]uint, 0, len(in.Questions))
	seen := make(map[uint]bool, len(in.Questions))
	for _, q := range in.Questions {
		if seen[q.QuestionID] {
			return nil, fmt.Errorf("%w: duplicate question %d", util.ErrValidation, q.QuestionID)
		}
		if q.MarksAllocated < 0 {
			return nil, fmt.Errorf("%w: marks cannot be negative", util.ErrValidation)
		}
		seen[q.QuestionID] = true
		ids = append(ids, q.QuestionID)
	}
	existing, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(ids) {
		return nil, util.ErrQuestionNotFound
	}

	test := &model.MockTest{
		TitleEN:         in.TitleEN,
		TitleNP:         in.TitleNP,
		DescriptionEN:   in.DescriptionEN,
		DescriptionNP:   in.DescriptionNP,
		TestType:        testType,
		BranchID:        in.BranchID,
		SubBranchID:     in.SubBranchID,
		TotalQuestions:  len(in.Questions),
		DurationMinutes: in.DurationMinutes,
		PassPercentage:  in.PassPercentage,
		CreatedByID:     &creatorID,
		IsPublic:        true,
		IsActive:        true,
	}
	if test.PassPercentage == 0 {
		test.PassPercentage = 40
	}

	questions := make([]model.MockTestQuestion, len(in.Questions))
	for i, q := range in.Questions {
		marks := q.MarksAllocated
		if marks == 0 {
			marks = 1
		}
		questions[i] = model.MockTestQuestion{
			QuestionID:     q.QuestionID,
			QuestionOrder:  i + 1,
			MarksAllocated: marks,
		}
	}

	if err := s.MockTestRepo.CreateWithQuestions(test, questions); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *MockTestService) Get(id uint) (*model.MockTest, error) {
	test, err := s.MockTestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMockTestNotFound
		}
		return nil, err
	}
	return test, nil
}

func (s *MockTestService) GetBySlug(slug string) (*model.MockTest, error) {
	test, err := s.MockTestRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMockTestNotFound
		}
		return nil, err
	}
	return test, nil
}

func (s *MockTestService) List(branchID uint, subBranchID *uint, page, limit int) ([]model.MockTest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.MockTestRepo.ListByBranch(branchID, subBranchID, page, limit)
}

// Deactivate hides a test from listings and new attempts without touching
// the attempts already recorded against it.
func (s *MockTestService) Deactivate(id uint) (*model.MockTest, error) {
	test, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	test.IsActive = false
	if err := s.MockTestRepo.DB.Save(test).Error; err != nil {
		return nil, err
	}
	return test, nil
}
