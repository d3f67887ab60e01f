package model

import "time"

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "EASY"
	DifficultyMedium QuestionDifficulty = "MEDIUM"
	DifficultyHard   QuestionDifficulty = "HARD"
)

type QuestionStatus string

const (
	QuestionDraft         QuestionStatus = "DRAFT"
	QuestionPendingReview QuestionStatus = "PENDING_REVIEW"
	QuestionPublic        QuestionStatus = "PUBLIC"
	QuestionPrivate       QuestionStatus = "PRIVATE"
)

// Question is a bilingual MCQ question. The times_attempted/times_correct
// counters are maintained exclusively by attempt completion.
// swagger:model Question
type Question struct {
	BaseModel
	QuestionTextEN      string             `gorm:"type:text;not null" json:"questionTextEn"`
	QuestionTextNP      string             `gorm:"type:text;not null" json:"questionTextNp"`
	CategoryID          uint               `gorm:"index;not null" json:"categoryId"`
	DifficultyLevel     QuestionDifficulty `gorm:"size:10" json:"difficultyLevel,omitempty"`
	QuestionType        string             `gorm:"size:20;default:'MCQ'" json:"questionType"`
	ExplanationEN       string             `gorm:"type:text" json:"explanationEn,omitempty"`
	ExplanationNP       string             `gorm:"type:text" json:"explanationNp,omitempty"`
	Status              QuestionStatus     `gorm:"size:20;default:'DRAFT';index" json:"status"`
	CreatedByID         *uint              `gorm:"index" json:"createdById,omitempty"`
	IsPublic            bool               `gorm:"default:false;index" json:"isPublic"`
	ConsentGiven        bool               `gorm:"default:false" json:"consentGiven"`
	ScheduledPublicDate *time.Time         `gorm:"index" json:"scheduledPublicDate,omitempty"`
	SourceReference     string             `gorm:"size:255" json:"sourceReference,omitempty"`
	TimesAttempted      int                `gorm:"default:0" json:"timesAttempted"`
	TimesCorrect        int                `gorm:"default:0" json:"timesCorrect"`
	ReportedCount       int                `gorm:"default:0" json:"reportedCount"`
	IsVerified          bool               `gorm:"default:false" json:"isVerified"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer is one MCQ option. At most one per question is flagged correct.
// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID   uint   `gorm:"index;not null;uniqueIndex:idx_question_order" json:"questionId"`
	AnswerTextEN string `gorm:"type:text;not null" json:"answerTextEn"`
	AnswerTextNP string `gorm:"type:text;not null" json:"answerTextNp"`
	IsCorrect    bool   `gorm:"default:false" json:"isCorrect"`
	DisplayOrder int    `gorm:"default:0;uniqueIndex:idx_question_order" json:"displayOrder"`
}

func (Answer) TableName() string {
	return "answers"
}

type ReportReason string

const (
	ReportIncorrectAnswer ReportReason = "INCORRECT_ANSWER"
	ReportTypo            ReportReason = "TYPO"
	ReportInappropriate   ReportReason = "INAPPROPRIATE"
	ReportDuplicate       ReportReason = "DUPLICATE"
	ReportOther           ReportReason = "OTHER"
)

type ReportStatus string

const (
	ReportPending     ReportStatus = "PENDING"
	ReportUnderReview ReportStatus = "UNDER_REVIEW"
	ReportResolved    ReportStatus = "RESOLVED"
	ReportRejected    ReportStatus = "REJECTED"
)

// QuestionReport is community-driven quality control.
// swagger:model QuestionReport
type QuestionReport struct {
	BaseModel
	QuestionID   uint         `gorm:"index;not null" json:"questionId"`
	ReportedByID *uint        `gorm:"index" json:"reportedById,omitempty"`
	Reason       ReportReason `gorm:"size:30;not null" json:"reason"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       ReportStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	ReviewedByID *uint        `json:"reviewedById,omitempty"`
	AdminNotes   string       `gorm:"type:text" json:"adminNotes,omitempty"`
	ResolvedAt   *time.Time   `json:"resolvedAt,omitempty"`
}

func (QuestionReport) TableName() string {
	return "question_reports"
}
