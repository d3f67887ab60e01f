package model

type NotificationType string

const (
	NotifyAttemptResult NotificationType = "ATTEMPT_RESULT"
	NotifyRankChange    NotificationType = "RANK_CHANGE"
	NotifyContribution  NotificationType = "CONTRIBUTION"
	NotifySystem        NotificationType = "SYSTEM"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID      uint             `gorm:"index:idx_notify_user_read;not null" json:"userId"`
	Type        NotificationType `gorm:"size:30;not null" json:"type"`
	TitleEN     string           `gorm:"size:255;not null" json:"titleEn"`
	TitleNP     string           `gorm:"size:255" json:"titleNp,omitempty"`
	MessageEN   string           `gorm:"type:text" json:"messageEn,omitempty"`
	MessageNP   string           `gorm:"type:text" json:"messageNp,omitempty"`
	IsRead      bool             `gorm:"default:false;index:idx_notify_user_read" json:"isRead"`
	ReferenceID *uint            `json:"referenceId,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
