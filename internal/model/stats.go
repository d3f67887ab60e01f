package model

import "time"

// UserStatistics is the per-user aggregate row shown on profiles. It is
// rebuilt by the scheduled stats job from source-of-truth tables and never
// mutated inline by request handlers.
// swagger:model UserStatistics
type UserStatistics struct {
	BaseModel
	UserID                uint       `gorm:"uniqueIndex;not null" json:"userId"`
	QuestionsContributed  int        `gorm:"default:0" json:"questionsContributed"`
	QuestionsMadePublic   int        `gorm:"default:0" json:"questionsMadePublic"`
	QuestionsAnswered     int        `gorm:"default:0" json:"questionsAnswered"`
	CorrectAnswers        int        `gorm:"default:0" json:"correctAnswers"`
	MockTestsCompleted    int        `gorm:"default:0" json:"mockTestsCompleted"`
	AccuracyPercentage    float64    `gorm:"default:0" json:"accuracyPercentage"`
	ContributionRank      *int       `json:"contributionRank,omitempty"`
	AccuracyRank          *int       `json:"accuracyRank,omitempty"`
	LastActivityDate      *time.Time `json:"lastActivityDate,omitempty"`
}

func (UserStatistics) TableName() string {
	return "user_statistics"
}

// PlatformStats is a singleton snapshot of platform-wide totals.
// swagger:model PlatformStats
type PlatformStats struct {
	BaseModel
	TotalUsers            int       `gorm:"default:0" json:"totalUsers"`
	TotalQuestions        int       `gorm:"default:0" json:"totalQuestions"`
	TotalPublicQuestions  int       `gorm:"default:0" json:"totalPublicQuestions"`
	TotalMockTestsTaken   int       `gorm:"default:0" json:"totalMockTestsTaken"`
	TotalAnswersSubmitted int       `gorm:"default:0" json:"totalAnswersSubmitted"`
	LastRebuilt           time.Time `json:"lastRebuilt"`
}

func (PlatformStats) TableName() string {
	return "platform_stats"
}

// DailyActivity is the per-day counter row used for trend charts.
// swagger:model DailyActivity
type DailyActivity struct {
	BaseModel
	Date                  time.Time `gorm:"uniqueIndex;not null" json:"date"`
	NewUsers              int       `gorm:"default:0" json:"newUsers"`
	QuestionsAdded        int       `gorm:"default:0" json:"questionsAdded"`
	AttemptsStarted       int       `gorm:"default:0" json:"attemptsStarted"`
	TotalAnswersSubmitted int       `gorm:"default:0" json:"totalAnswersSubmitted"`
	ActiveUsers           int       `gorm:"default:0" json:"activeUsers"`
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}
