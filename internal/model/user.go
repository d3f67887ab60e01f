package model

import (
	"time"
)

type UserRole string

const (
	Student   UserRole = "student"
	Moderator UserRole = "moderator"
	Admin     UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	FullName          string    `gorm:"size:255;not null" json:"fullName"`
	Email             string    `gorm:"size:100;unique;not null" json:"email"`
	Password          string    `gorm:"size:100;not null" json:"-"`
	Role              UserRole  `gorm:"size:20;default:'student'" json:"role"`
	PreferredLanguage string    `gorm:"size:2;default:'EN'" json:"preferredLanguage"`
	PhoneNumber       string    `gorm:"size:15" json:"phoneNumber,omitempty"`
	TargetBranchID    *uint     `gorm:"index" json:"targetBranchId,omitempty"`
	TargetSubBranchID *uint     `gorm:"index" json:"targetSubBranchId,omitempty"`
	ExperiencePoints  int       `gorm:"default:0" json:"experiencePoints"`
	Disabled          bool      `gorm:"default:false" json:"disabled"`
	LastLogin         time.Time `json:"lastLogin"`
	LastSeen          time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
