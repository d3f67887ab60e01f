package model

type TimePeriod string

const (
	PeriodWeekly  TimePeriod = "WEEKLY"
	PeriodMonthly TimePeriod = "MONTHLY"
	PeriodAllTime TimePeriod = "ALL_TIME"
)

// LeaderboardEntry is derived, disposable state: the aggregator drops and
// rebuilds whole (period, branch, sub-branch) partitions, never patches.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	BaseModel
	UserID             uint       `gorm:"not null;uniqueIndex:idx_lb_partition_user" json:"userId"`
	TimePeriod         TimePeriod `gorm:"size:20;not null;uniqueIndex:idx_lb_partition_user;index:idx_lb_rank" json:"timePeriod"`
	BranchID           uint       `gorm:"not null;uniqueIndex:idx_lb_partition_user;index:idx_lb_rank" json:"branchId"`
	SubBranchID        *uint      `gorm:"uniqueIndex:idx_lb_partition_user" json:"subBranchId,omitempty"`
	Rank               int        `gorm:"not null;index:idx_lb_rank" json:"rank"`
	TotalScore         float64    `gorm:"not null" json:"totalScore"`
	TestsCompleted     int        `gorm:"default:0" json:"testsCompleted"`
	AccuracyPercentage float64    `gorm:"default:0" json:"accuracyPercentage"`
	AverageTimeSeconds float64    `gorm:"default:0" json:"averageTimeSeconds"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboards"
}
