package repository

import (
	"time"

	"amburide/internal/models"

	"gorm.io/gorm"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) Create(d *models.Driver) error {
	return r.db.Create(d).Error
}

func (r *DriverRepository) GetByID(id uint) (*models.Driver, error) {
	var d models.Driver
	err := r.db.First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) GetByPhone(phone string) (*models.Driver, error) {
	var d models.Driver
	err := r.db.Where("phone_number = ?", phone).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) GetByIDs(ids []uint) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.Where("id IN ?", ids).Find(&drivers).Error
	return drivers, err
}

func (r *DriverRepository) List() ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.Find(&drivers).Error
	return drivers, err
}

func (r *DriverRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Update("status", status).Error
}

func (r *DriverRepository) SavePushToken(id uint, token string) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Update("push_token", token).Error
}

func (r *DriverRepository) SaveLicenseDoc(id uint, url string) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Update("license_doc_url", url).Error
}

// AdjustWallet applies delta to the stored balance as an atomic increment and
// returns the fresh row. Concurrent settlements for the same driver must not
// lose updates, so this is never a read-modify-write.
func (r *DriverRepository) AdjustWallet(id uint, delta float64) (*models.Driver, error) {
	err := r.db.Model(&models.Driver{}).Where("id = ?", id).
		Update("wallet", gorm.Expr("wallet + ?", delta)).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// TopUp credits the wallet and unconditionally clears the block flag and
// warning count in the same statement, whatever the resulting balance.
func (r *DriverRepository) TopUp(id uint, amount float64) (*models.Driver, error) {
	err := r.db.Model(&models.Driver{}).Where("id = ?", id).Updates(map[string]interface{}{
		"wallet":        gorm.Expr("wallet + ?", amount),
		"is_blocked":    false,
		"warning_count": 0,
		"updated_at":    time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *DriverRepository) IncrementWarning(id uint) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).
		Update("warning_count", gorm.Expr("warning_count + 1")).Error
}

func (r *DriverRepository) Block(id uint) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Update("is_blocked", true).Error
}

// AddRideStats credits the driver aggregates from the ride's stored charge.
func (r *DriverRepository) AddRideStats(id uint, charge float64) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_earning": gorm.Expr("total_earning + ?", charge),
		"total_rides":   gorm.Expr("total_rides + 1"),
	}).Error
}
