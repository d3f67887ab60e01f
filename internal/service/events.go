package service

import "exam_prep_backend/internal/model"

// Domain events handed to the notification emitter. Delivery is
// best-effort: emitting never blocks or fails the producing operation.

type AttemptCompletedEvent struct {
	EventID    string  `json:"eventId"`
	UserID     uint    `json:"userId"`
	AttemptID  uint    `json:"attemptId"`
	MockTestID *uint   `json:"mockTestId,omitempty"`
	Score      float64 `json:"score"`
	TotalScore float64 `json:"totalScore"`
	Percentage float64 `json:"percentage"`
}

type RankChange struct {
	UserID       uint `json:"userId"`
	PreviousRank int  `json:"previousRank"` // 0 when the user was unranked
	NewRank      int  `json:"newRank"`
}

type LeaderboardUpdatedEvent struct {
	EventID     string           `json:"eventId"`
	TimePeriod  model.TimePeriod `json:"timePeriod"`
	BranchID    uint             `json:"branchId"`
	SubBranchID *uint            `json:"subBranchId,omitempty"`
	Changes     []RankChange     `json:"changes"`
}
