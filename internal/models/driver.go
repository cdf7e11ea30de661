package models

import (
	"time"

	"gorm.io/gorm"
)

type Driver struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"size:128;not null" json:"name"`
	Country            string         `gorm:"size:64" json:"country"`
	PhoneNumber        string         `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	Email              string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	VehicleType        string         `gorm:"size:32" json:"vehicle_type"`
	RegistrationNumber string         `gorm:"size:32" json:"registration_number"`
	RegistrationDate   string         `gorm:"size:32" json:"registration_date"`
	DrivingLicense     string         `gorm:"size:64" json:"driving_license"`
	LicenseDocURL      string         `gorm:"size:512" json:"license_doc_url"`
	VehicleColor       string         `gorm:"size:32" json:"vehicle_color"`
	Rate               float64        `json:"rate"` // per-km fare quoted at registration
	Wallet             float64        `gorm:"not null;default:0" json:"wallet"`
	WarningCount       int            `gorm:"not null;default:0" json:"warning_count"`
	IsBlocked          bool           `gorm:"not null;default:false" json:"is_blocked"`
	Status             string         `gorm:"size:20;not null;default:'Inactive';index" json:"status"`
	TotalEarning       float64        `gorm:"not null;default:0" json:"total_earning"`
	TotalRides         int            `gorm:"not null;default:0" json:"total_rides"`
	PushToken          string         `gorm:"size:512" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Driver) TableName() string {
	return "drivers"
}
