package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a rider account. Email is a pointer because accounts are created
// phone-only; NULL keeps the unique index from colliding on the empty string
// until email verification fills it in.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	PhoneNumber string         `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	Email       *string        `gorm:"uniqueIndex;size:255" json:"email"`
	PushToken   string         `gorm:"size:512" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
