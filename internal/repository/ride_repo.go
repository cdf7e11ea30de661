package repository

import (
	"time"

	"amburide/internal/domain"
	"amburide/internal/models"

	"gorm.io/gorm"
)

type RideRepository struct {
	db *gorm.DB
}

func NewRideRepository(db *gorm.DB) *RideRepository {
	return &RideRepository{db: db}
}

func (r *RideRepository) Create(ride *models.Ride) error {
	return r.db.Create(ride).Error
}

func (r *RideRepository) GetByID(id uint) (*models.Ride, error) {
	var ride models.Ride
	err := r.db.First(&ride, id).Error
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// CountByDriver counts every ride row for the driver, whatever its status.
// The first-ride commission waiver keys off this number.
func (r *RideRepository) CountByDriver(driverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Ride{}).Where("driver_id = ?", driverID).Count(&count).Error
	return count, err
}

func (r *RideRepository) UpdateStatus(rideID uint, status string) error {
	return r.db.Model(&models.Ride{}).Where("id = ?", rideID).Update("status", status).Error
}

// MarkSettled flips the ride to Completed and stamps settled_at in one
// conditional update. Returns false when the ride was already settled, which
// callers must treat as a rejected re-entry, not an error.
func (r *RideRepository) MarkSettled(rideID uint) (bool, error) {
	res := r.db.Model(&models.Ride{}).
		Where("id = ? AND settled_at IS NULL", rideID).
		Updates(map[string]interface{}{
			"status":     domain.RideCompleted,
			"settled_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *RideRepository) ListByDriver(driverID uint) ([]models.Ride, error) {
	var rides []models.Ride
	err := r.db.Preload("User").Preload("Driver").
		Where("driver_id = ?", driverID).Order("created_at DESC").Find(&rides).Error
	return rides, err
}

func (r *RideRepository) ListByUser(userID uint) ([]models.Ride, error) {
	var rides []models.Ride
	err := r.db.Preload("User").Preload("Driver").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&rides).Error
	return rides, err
}

func (r *RideRepository) ListAll() ([]models.Ride, error) {
	var rides []models.Ride
	err := r.db.Preload("User").Preload("Driver").Order("created_at DESC").Find(&rides).Error
	return rides, err
}
