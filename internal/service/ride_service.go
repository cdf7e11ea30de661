package service

import (
	"context"
	"errors"

	"amburide/internal/domain"
	"amburide/internal/models"
	"amburide/internal/repository"

	"gorm.io/gorm"
)

var ErrInvalidRideStatus = errors.New("invalid ride status")

var rideStatuses = map[string]bool{
	domain.RideCreated:   true,
	domain.RideOngoing:   true,
	domain.RideCompleted: true,
	domain.RideCancelled: true,
}

// RideService tracks the ride lifecycle. The only transition with money side
// effects is into Completed, which is delegated to the settlement engine so
// that earnings credit and commission deduction cannot be invoked separately.
type RideService struct {
	rides      *repository.RideRepository
	users      *repository.UserRepository
	settlement *SettlementService
	notifier   *NotificationService
}

func NewRideService(rides *repository.RideRepository, users *repository.UserRepository, settlement *SettlementService, notifier *NotificationService) *RideService {
	return &RideService{rides: rides, users: users, settlement: settlement, notifier: notifier}
}

type CreateRideInput struct {
	UserID                  uint
	DriverID                uint
	Charge                  float64
	Status                  string
	CurrentLocationName     string
	DestinationLocationName string
	Distance                float64
}

func (s *RideService) Create(ctx context.Context, in CreateRideInput) (*models.Ride, error) {
	status := in.Status
	if status == "" {
		status = domain.RideCreated
	}
	if !rideStatuses[status] || status == domain.RideCompleted {
		return nil, ErrInvalidRideStatus
	}
	ride := &models.Ride{
		UserID:                  in.UserID,
		DriverID:                in.DriverID,
		Charge:                  in.Charge,
		Status:                  status,
		CurrentLocationName:     in.CurrentLocationName,
		DestinationLocationName: in.DestinationLocationName,
		Distance:                in.Distance,
	}
	if err := s.rides.Create(ride); err != nil {
		return nil, err
	}
	if u, err := s.users.GetByID(in.UserID); err == nil {
		s.notifier.NotifyRideAssigned(ctx, u, ride)
	}
	return ride, nil
}

// UpdateStatus transitions a ride. Completed routes through Settle; the
// returned SettlementResult is nil for every other status.
func (s *RideService) UpdateStatus(ctx context.Context, rideID, driverID uint, status string) (*models.Ride, *SettlementResult, error) {
	if !rideStatuses[status] {
		return nil, nil, ErrInvalidRideStatus
	}
	ride, err := s.rides.GetByID(rideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRideNotFound
		}
		return nil, nil, err
	}
	if ride.DriverID != driverID {
		return nil, nil, ErrNotRideDriver
	}

	var result *SettlementResult
	if status == domain.RideCompleted {
		result, err = s.settlement.Settle(ctx, rideID, driverID)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if ride.SettledAt != nil {
			return nil, nil, ErrAlreadySettled
		}
		if err := s.rides.UpdateStatus(rideID, status); err != nil {
			return nil, nil, err
		}
	}
	updated, err := s.rides.GetByID(rideID)
	if err != nil {
		return nil, nil, err
	}
	return updated, result, nil
}
