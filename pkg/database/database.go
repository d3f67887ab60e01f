package database

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedDefaults(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate is shared with the test helpers and the maintenance scripts.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Branch{},
		&model.SubBranch{},
		&model.Category{},
		&model.Question{},
		&model.Answer{},
		&model.QuestionReport{},
		&model.MockTest{},
		&model.MockTestQuestion{},
		&model.UserAttempt{},
		&model.UserAnswer{},
		&model.LeaderboardEntry{},
		&model.Contribution{},
		&model.Notification{},
		&model.UserStatistics{},
		&model.PlatformStats{},
		&model.DailyActivity{},
	)
}

// seedDefaults inserts the PSC branches a fresh install always needs.
func seedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Branch{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaultBranches := []model.Branch{
		{NameEN: "Nayab Subba", NameNP: "नायब सुब्बा", Slug: "nayab-subba", DisplayOrder: 1, IsActive: true},
		{NameEN: "Kharidar", NameNP: "खरिदार", Slug: "kharidar", DisplayOrder: 2, IsActive: true},
		{NameEN: "Engineering", NameNP: "इन्जिनियरिङ", Slug: "engineering", DisplayOrder: 3, HasSubBranches: true, IsActive: true},
	}
	for i := range defaultBranches {
		if err := db.Create(&defaultBranches[i]).Error; err != nil {
			return err
		}
	}

	defaultCategories := []model.Category{
		{NameEN: "General Knowledge", NameNP: "सामान्य ज्ञान", Slug: "general-knowledge", ScopeType: model.ScopeUniversal, CategoryType: model.CategoryGeneral, IsActive: true},
		{NameEN: "IQ & Mathematics", NameNP: "बौद्धिक परीक्षण", Slug: "iq-mathematics", ScopeType: model.ScopeUniversal, CategoryType: model.CategoryGeneral, IsActive: true},
		{NameEN: "Constitution", NameNP: "संविधान", Slug: "constitution", ScopeType: model.ScopeUniversal, CategoryType: model.CategoryGeneral, IsActive: true},
	}
	for i := range defaultCategories {
		if err := db.Create(&defaultCategories[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
