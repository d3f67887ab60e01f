package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"fmt"

	"gorm.io/gorm"
)

type BranchService struct {
	BranchRepo *repository.BranchRepository
}

func NewBranchService(branchRepo *repository.BranchRepository) *BranchService {
	return &BranchService{BranchRepo: branchRepo}
}

func (s *BranchService) List() ([]model.Branch, error) {
	return s.BranchRepo.ListActive()
}

func (s *BranchService) ListSubBranches(branchID uint) ([]model.SubBranch, error) {
	if _, err := s.BranchRepo.FindByID(branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: branch %d", util.ErrNotFound, branchID)
		}
		return nil, err
	}
	return s.BranchRepo.ListSubBranches(branchID)
}

// ListCategories returns universal categories plus those scoped to the
// given branch or sub-branch.
func (s *BranchService) ListCategories(branchID, subBranchID *uint) ([]model.Category, error) {
	return s.BranchRepo.ListCategories(branchID, subBranchID)
}
