package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type ContributionRepository struct {
	DB *gorm.DB
}

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{DB: db}
}

func (r *ContributionRepository) Create(c *model.Contribution) error {
	return r.DB.Create(c).Error
}

func (r *ContributionRepository) FindByID(id uint) (*model.Contribution, error) {
	var c model.Contribution
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContributionRepository) FindByQuestion(questionID uint) (*model.Contribution, error) {
	var c model.Contribution
	err := r.DB.Where("question_id = ?", questionID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContributionRepository) Update(c *model.Contribution) error {
	return r.DB.Save(c).Error
}

func (r *ContributionRepository) ListByStatus(status model.ContributionStatus, page, limit int) ([]model.Contribution, int64, error) {
	var contributions []model.Contribution
	var total int64

	query := r.DB.Model(&model.Contribution{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contributions).Error
	return contributions, total, err
}

func (r *ContributionRepository) ListByUser(userID uint) ([]model.Contribution, error) {
	var contributions []model.Contribution
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&contributions).Error
	return contributions, err
}

// CountsByUser returns contributed/made-public totals per user for the
// statistics rebuild.
func (r *ContributionRepository) CountsByUser() (map[uint][2]int64, error) {
	var rows []struct {
		UserID     uint
		Total      int64
		MadePublic int64
	}
	err := r.DB.Model(&model.Contribution{}).
		Select("user_id, COUNT(*) AS total, COUNT(CASE WHEN status = ? THEN 1 END) AS made_public", model.ContributionMadePublic).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint][2]int64, len(rows))
	for _, row := range rows {
		result[row.UserID] = [2]int64{row.Total, row.MadePublic}
	}
	return result, nil
}
