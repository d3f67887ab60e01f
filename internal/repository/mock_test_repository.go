package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type MockTestRepository struct {
	DB *gorm.DB
}

func NewMockTestRepository(db *gorm.DB) *MockTestRepository {
	return &MockTestRepository{DB: db}
}

// CreateWithQuestions saves a test together with its ordered question rows.
func (r *MockTestRepository) CreateWithQuestions(test *model.MockTest, questions []model.MockTestQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].MockTestID = test.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		test.Questions = questions
		return nil
	})
}

func (r *MockTestRepository) FindByID(id uint) (*model.MockTest, error) {
	var test model.MockTest
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_order ASC")
	}).First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *MockTestRepository) FindBySlug(slug string) (*model.MockTest, error) {
	var test model.MockTest
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_order ASC")
	}).Where("slug = ?", slug).First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *MockTestRepository) ListByBranch(branchID uint, subBranchID *uint, page, limit int) ([]model.MockTest, int64, error) {
	var tests []model.MockTest
	var total int64

	query := r.DB.Model(&model.MockTest{}).
		Where("is_public = ? AND is_active = ?", true, true)
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	if subBranchID != nil {
		query = query.Where("sub_branch_id = ?", *subBranchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tests).Error
	return tests, total, err
}

func (r *MockTestRepository) IncrementAttemptCount(tx *gorm.DB, testID uint) error {
	return tx.Model(&model.MockTest{}).
		Where("id = ?", testID).
		Update("attempt_count", gorm.Expr("attempt_count + 1")).
		Error
}

// ListActiveBranches returns the branch/sub-branch pairs that currently
// have public tests, i.e. the leaderboard partitions worth recomputing.
func (r *MockTestRepository) ListActiveBranches() ([]model.MockTest, error) {
	var tests []model.MockTest
	err := r.DB.
		Distinct("branch_id", "sub_branch_id").
		Where("is_public = ? AND is_active = ?", true, true).
		Find(&tests).Error
	return tests, err
}
