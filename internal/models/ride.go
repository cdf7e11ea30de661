package models

import (
	"time"

	"gorm.io/gorm"
)

type Ride struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	UserID                  uint           `gorm:"not null;index" json:"user_id"`
	DriverID                uint           `gorm:"not null;index" json:"driver_id"`
	Charge                  float64        `gorm:"not null" json:"charge"` // fixed at creation, never recomputed
	Status                  string         `gorm:"size:20;not null;index" json:"status"`
	CurrentLocationName     string         `gorm:"size:255" json:"current_location_name"`
	DestinationLocationName string         `gorm:"size:255" json:"destination_location_name"`
	Distance                float64        `json:"distance"`
	SettledAt               *time.Time     `json:"settled_at"` // commission applied; terminal, never cleared
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Driver Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}

func (Ride) TableName() string {
	return "rides"
}
