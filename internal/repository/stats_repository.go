package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// ReplaceUserStatistics swaps the whole statistics table for the freshly
// computed rows in one transaction.
func (r *StatsRepository) ReplaceUserStatistics(stats []model.UserStatistics) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.UserStatistics{}).Error; err != nil {
			return err
		}
		if len(stats) == 0 {
			return nil
		}
		return tx.Create(&stats).Error
	})
}

func (r *StatsRepository) FindUserStatistics(userID uint) (*model.UserStatistics, error) {
	var stats model.UserStatistics
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *StatsRepository) GetPlatformStats() (*model.PlatformStats, error) {
	var stats model.PlatformStats
	err := r.DB.Order("id ASC").First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlatformStats keeps a single snapshot row.
func (r *StatsRepository) SavePlatformStats(stats *model.PlatformStats) error {
	var existing model.PlatformStats
	err := r.DB.Order("id ASC").First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(stats).Error
	}
	if err != nil {
		return err
	}
	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return r.DB.Save(stats).Error
}

// UpsertDailyActivity writes the counters for one date, replacing any
// earlier snapshot of the same day.
func (r *StatsRepository) UpsertDailyActivity(activity *model.DailyActivity) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"new_users", "questions_added", "attempts_started",
			"total_answers_submitted", "active_users", "updated_at",
		}),
	}).Create(activity).Error
}

func (r *StatsRepository) ListDailyActivity(from, to time.Time) ([]model.DailyActivity, error) {
	var activities []model.DailyActivity
	err := r.DB.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&activities).Error
	return activities, err
}
