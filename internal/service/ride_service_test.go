package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRejectsCompletedStatus(t *testing.T) {
	svc := NewRideService(nil, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateRideInput{
		UserID:   1,
		DriverID: 7,
		Charge:   500,
		Status:   "Completed",
	})
	require.ErrorIs(t, err, ErrInvalidRideStatus)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewRideService(nil, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateRideInput{
		UserID:   1,
		DriverID: 7,
		Charge:   500,
		Status:   "Teleporting",
	})
	require.ErrorIs(t, err, ErrInvalidRideStatus)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewRideService(nil, nil, nil, nil)
	_, _, err := svc.UpdateStatus(context.Background(), 1, 7, "Paused")
	require.ErrorIs(t, err, ErrInvalidRideStatus)
}
