package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type BranchRepository struct {
	DB *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) ListActive() ([]model.Branch, error) {
	var branches []model.Branch
	err := r.DB.Where("is_active = ?", true).
		Order("display_order ASC, name_en ASC").
		Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) FindByID(id uint) (*model.Branch, error) {
	var branch model.Branch
	err := r.DB.First(&branch, id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *BranchRepository) ListSubBranches(branchID uint) ([]model.SubBranch, error) {
	var subBranches []model.SubBranch
	err := r.DB.Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("display_order ASC, name_en ASC").
		Find(&subBranches).Error
	return subBranches, err
}

func (r *BranchRepository) FindSubBranch(id uint) (*model.SubBranch, error) {
	var sb model.SubBranch
	err := r.DB.First(&sb, id).Error
	if err != nil {
		return nil, err
	}
	return &sb, nil
}

func (r *BranchRepository) ListCategories(branchID, subBranchID *uint) ([]model.Category, error) {
	query := r.DB.Where("is_active = ?", true)
	switch {
	case subBranchID != nil:
		query = query.Where("scope_type = ? OR (scope_type = ? AND target_branch_id = ?) OR (scope_type = ? AND target_sub_branch_id = ?)",
			model.ScopeUniversal, model.ScopeBranch, *branchID, model.ScopeSubBranch, *subBranchID)
	case branchID != nil:
		query = query.Where("scope_type = ? OR (scope_type = ? AND target_branch_id = ?)",
			model.ScopeUniversal, model.ScopeBranch, *branchID)
	default:
		query = query.Where("scope_type = ?", model.ScopeUniversal)
	}
	var categories []model.Category
	err := query.Order("name_en ASC").Find(&categories).Error
	return categories, err
}

func (r *BranchRepository) FindCategory(id uint) (*model.Category, error) {
	var c model.Category
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
