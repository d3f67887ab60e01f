package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	StatsRepo  *repository.StatsRepository
	BranchRepo *repository.BranchRepository
}

func NewUserService(userRepo *repository.UserRepository, statsRepo *repository.StatsRepository, branchRepo *repository.BranchRepository) *UserService {
	return &UserService{UserRepo: userRepo, StatsRepo: statsRepo, BranchRepo: branchRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileRequest struct {
	FullName          *string `json:"fullName"`
	PreferredLanguage *string `json:"preferredLanguage"`
	PhoneNumber       *string `json:"phoneNumber"`
	TargetBranchID    *uint   `json:"targetBranchId"`
	TargetSubBranchID *uint   `json:"targetSubBranchId"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty", util.ErrValidation)
		}
		user.FullName = *req.FullName
	}
	if req.PreferredLanguage != nil {
		lang := strings.ToUpper(*req.PreferredLanguage)
		if lang != util.LanguageEnglish && lang != util.LanguageNepali {
			return nil, fmt.Errorf("%w: unsupported language %q", util.ErrValidation, *req.PreferredLanguage)
		}
		user.PreferredLanguage = lang
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.TargetBranchID != nil {
		if _, err := s.BranchRepo.FindByID(*req.TargetBranchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: branch %d", util.ErrNotFound, *req.TargetBranchID)
			}
			return nil, err
		}
		user.TargetBranchID = req.TargetBranchID
	}
	if req.TargetSubBranchID != nil {
		sub, err := s.BranchRepo.FindSubBranch(*req.TargetSubBranchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: sub-branch %d", util.ErrNotFound, *req.TargetSubBranchID)
			}
			return nil, err
		}
		if user.TargetBranchID != nil && sub.BranchID != *user.TargetBranchID {
			return nil, fmt.Errorf("%w: sub-branch does not belong to the target branch", util.ErrValidation)
		}
		user.TargetSubBranchID = req.TargetSubBranchID
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetStatistics returns the last rebuilt aggregate row; an empty row is
// returned for users the stats job has not seen yet.
func (s *UserService) GetStatistics(userID uint) (*model.UserStatistics, error) {
	if _, err := s.GetProfile(userID); err != nil {
		return nil, err
	}
	stats, err := s.StatsRepo.FindUserStatistics(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserStatistics{UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

func (s *UserService) Touch(userID uint) {
	_ = s.UserRepo.UpdateLastSeen(userID)
}
