package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

func partitionQuery(db *gorm.DB, period model.TimePeriod, branchID uint, subBranchID *uint) *gorm.DB {
	query := db.Where("time_period = ? AND branch_id = ?", period, branchID)
	if subBranchID == nil {
		query = query.Where("sub_branch_id IS NULL")
	} else {
		query = query.Where("sub_branch_id = ?", *subBranchID)
	}
	return query
}

// rankOrder sorts a partition for serving. RANK is a reserved word on
// MySQL 8, so the column goes through clause.Column for dialect quoting.
var rankOrder = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "rank"}},
	{Column: clause.Column{Name: "user_id"}},
}}

func (r *LeaderboardRepository) GetPartition(period model.TimePeriod, branchID uint, subBranchID *uint) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := partitionQuery(r.DB.Model(&model.LeaderboardEntry{}), period, branchID, subBranchID).
		Order(rankOrder).
		Find(&entries).Error
	return entries, err
}

// ReplacePartition swaps a partition's rows atomically: readers never see a
// half-rebuilt leaderboard.
func (r *LeaderboardRepository) ReplacePartition(period model.TimePeriod, branchID uint, subBranchID *uint, entries []model.LeaderboardEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := partitionQuery(tx, period, branchID, subBranchID).
			Unscoped().
			Delete(&model.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *LeaderboardRepository) Top(period model.TimePeriod, branchID uint, subBranchID *uint, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := partitionQuery(r.DB.Model(&model.LeaderboardEntry{}), period, branchID, subBranchID).
		Order(rankOrder).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *LeaderboardRepository) FindUserEntry(userID uint, period model.TimePeriod, branchID uint, subBranchID *uint) (*model.LeaderboardEntry, error) {
	var entry model.LeaderboardEntry
	err := partitionQuery(r.DB.Model(&model.LeaderboardEntry{}), period, branchID, subBranchID).
		Where("user_id = ?", userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
