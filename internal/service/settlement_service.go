package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"amburide/internal/domain"
	"amburide/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrRideNotFound   = errors.New("ride not found")
	ErrNotRideDriver  = errors.New("ride does not belong to driver")
	ErrAlreadySettled = errors.New("ride already settled")
	ErrInvalidAmount  = errors.New("amount must be positive")
)

// DriverLedger is the slice of the driver repository the settlement engine
// needs. Wallet mutations must be atomic increments at the storage layer.
type DriverLedger interface {
	GetByID(id uint) (*models.Driver, error)
	AdjustWallet(id uint, delta float64) (*models.Driver, error)
	TopUp(id uint, amount float64) (*models.Driver, error)
	IncrementWarning(id uint) error
	Block(id uint) error
	AddRideStats(id uint, charge float64) error
}

// RideLedger is the slice of the ride repository the engine needs. MarkSettled
// must be a conditional write: false means another call already settled the
// ride and this one must not touch money.
type RideLedger interface {
	GetByID(id uint) (*models.Ride, error)
	CountByDriver(driverID uint) (int64, error)
	MarkSettled(rideID uint) (bool, error)
}

// WalletNotifier delivers threshold notices. Failures never roll back the
// wallet write.
type WalletNotifier interface {
	SendWalletWarning(ctx context.Context, d *models.Driver, count int, balance float64) error
	SendWalletBlocked(ctx context.Context, d *models.Driver, balance float64) error
}

// SettlementService applies a completed ride's commission to the driver's
// wallet and walks the warning/blocking state machine:
//
//	active -> warned (up to 3, inside (-300,-50)) -> blocked (<= -300)
//	any state -> unblocked, warnings cleared, on any positive top-up
type SettlementService struct {
	drivers  DriverLedger
	rides    RideLedger
	notifier WalletNotifier
}

func NewSettlementService(drivers DriverLedger, rides RideLedger, notifier WalletNotifier) *SettlementService {
	return &SettlementService{drivers: drivers, rides: rides, notifier: notifier}
}

type SettlementResult struct {
	Wallet    float64 `json:"wallet"`
	IsBlocked bool    `json:"is_blocked"`
	Message   string  `json:"message"`
}

// Settle completes a ride for its driver: marks it settled exactly once,
// credits the earnings aggregates from the stored charge, deducts the
// commission, and evaluates the threshold transitions on the post-deduction
// balance. The first ride carries no commission.
func (s *SettlementService) Settle(ctx context.Context, rideID, driverID uint) (*SettlementResult, error) {
	driver, err := s.drivers.GetByID(driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	ride, err := s.rides.GetByID(rideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotRideDriver
	}

	// Counted before settling; includes this ride and any unfinished ones.
	priorRides, err := s.rides.CountByDriver(driverID)
	if err != nil {
		return nil, err
	}

	settled, err := s.rides.MarkSettled(rideID)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, ErrAlreadySettled
	}

	if err := s.drivers.AddRideStats(driverID, ride.Charge); err != nil {
		return nil, err
	}

	var deduction float64
	if priorRides > 1 {
		deduction = ride.Charge * domain.CommissionRate
	}
	updated, err := s.drivers.AdjustWallet(driverID, -deduction)
	if err != nil {
		return nil, err
	}

	message := "Ride completed."
	if updated.Wallet > domain.WarningBandLower && updated.Wallet < domain.WarningBandUpper && driver.WarningCount < domain.MaxWarnings {
		if err := s.drivers.IncrementWarning(driverID); err != nil {
			return nil, err
		}
		newCount := driver.WarningCount + 1
		if err := s.notifier.SendWalletWarning(ctx, driver, newCount, updated.Wallet); err != nil {
			log.Printf("[settlement] warning email for driver %d: %v", driverID, err)
		}
		message = fmt.Sprintf("Warning #%d sent via email.", newCount)
	}

	// Blocking runs after the warning check so its message wins when both
	// conditions hold in the same call.
	if updated.Wallet <= domain.BlockThreshold && !driver.IsBlocked {
		if err := s.drivers.Block(driverID); err != nil {
			return nil, err
		}
		if err := s.notifier.SendWalletBlocked(ctx, driver, updated.Wallet); err != nil {
			log.Printf("[settlement] blocking email for driver %d: %v", driverID, err)
		}
		message = "Driver blocked and email sent."
	}

	return &SettlementResult{
		Wallet:    updated.Wallet,
		IsBlocked: updated.Wallet <= domain.BlockThreshold,
		Message:   message,
	}, nil
}

// TopUp credits the wallet and unconditionally lifts any block and clears the
// warning count, even if the balance stays negative.
func (s *SettlementService) TopUp(ctx context.Context, driverID uint, amount float64) (*models.Driver, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.drivers.GetByID(driverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return s.drivers.TopUp(driverID, amount)
}

// Credit adds to the wallet without touching warning or block state.
func (s *SettlementService) Credit(ctx context.Context, driverID uint, amount float64) (*models.Driver, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	d, err := s.drivers.AdjustWallet(driverID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return d, nil
}
