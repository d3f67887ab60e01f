package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptCompleted  AttemptStatus = "COMPLETED"
	AttemptAbandoned  AttemptStatus = "ABANDONED"
)

type AttemptMode string

const (
	ModeMockTest AttemptMode = "MOCK_TEST"
	ModePractice AttemptMode = "PRACTICE"
)

// UserAttempt is one test or practice session. COMPLETED and ABANDONED are
// terminal; Percentage and EndTime are set only on leaving IN_PROGRESS.
// swagger:model UserAttempt
type UserAttempt struct {
	BaseModel
	UserID         uint          `gorm:"index:idx_user_status;not null" json:"userId"`
	MockTestID     *uint         `gorm:"index:idx_test_status" json:"mockTestId,omitempty"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	TotalTimeTaken *int          `json:"totalTimeTaken,omitempty"`
	ScoreObtained  float64       `gorm:"default:0" json:"scoreObtained"`
	TotalScore     float64       `gorm:"not null" json:"totalScore"`
	Percentage     *float64      `json:"percentage,omitempty"`
	Status         AttemptStatus `gorm:"size:20;default:'IN_PROGRESS';index:idx_user_status;index:idx_test_status" json:"status"`
	Mode           AttemptMode   `gorm:"size:20;default:'MOCK_TEST'" json:"mode"`

	Answers []UserAnswer `gorm:"foreignKey:UserAttemptID" json:"answers,omitempty"`
}

func (UserAttempt) TableName() string {
	return "user_attempts"
}

// UserAnswer is the single response slot for an (attempt, question) pair.
// IsCorrect and IsSkipped are derived from SelectedAnswerID on every write
// and are never accepted from clients.
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	UserAttemptID      uint    `gorm:"not null;uniqueIndex:idx_attempt_question" json:"userAttemptId"`
	QuestionID         uint    `gorm:"index;not null;uniqueIndex:idx_attempt_question" json:"questionId"`
	SelectedAnswerID   *uint   `json:"selectedAnswerId,omitempty"`
	MarksAllocated     float64 `gorm:"default:1" json:"marksAllocated"`
	IsCorrect          bool    `gorm:"default:false;index" json:"isCorrect"`
	IsSkipped          bool    `json:"isSkipped"`
	IsMarkedForReview  bool    `gorm:"default:false" json:"isMarkedForReview"`
	TimeTakenSeconds   *int    `json:"timeTakenSeconds,omitempty"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
