package model

import "time"

type ContributionStatus string

const (
	ContributionPending    ContributionStatus = "PENDING"
	ContributionApproved   ContributionStatus = "APPROVED"
	ContributionRejected   ContributionStatus = "REJECTED"
	ContributionMadePublic ContributionStatus = "MADE_PUBLIC"
)

// Contribution tracks a user-submitted question through moderation and the
// monthly publication batch.
// swagger:model Contribution
type Contribution struct {
	BaseModel
	UserID            uint               `gorm:"not null;uniqueIndex:idx_user_question;index:idx_contrib_user_status" json:"userId"`
	QuestionID        uint               `gorm:"not null;uniqueIndex:idx_user_question" json:"questionId"`
	ContributionMonth int                `gorm:"not null" json:"contributionMonth"`
	ContributionYear  int                `gorm:"not null" json:"contributionYear"`
	Status            ContributionStatus `gorm:"size:20;default:'PENDING';index:idx_contrib_user_status" json:"status"`
	IsFeatured        bool               `gorm:"default:false" json:"isFeatured"`
	ApprovalDate      *time.Time         `json:"approvalDate,omitempty"`
	PublicDate        *time.Time         `json:"publicDate,omitempty"`
	RejectionReason   string             `gorm:"type:text" json:"rejectionReason,omitempty"`
}

func (Contribution) TableName() string {
	return "contributions"
}
