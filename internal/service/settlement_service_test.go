package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"amburide/internal/domain"
	"amburide/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memLedger struct {
	drivers map[uint]*models.Driver
	rides   map[uint]*models.Ride
}

func newMemLedger() *memLedger {
	return &memLedger{
		drivers: make(map[uint]*models.Driver),
		rides:   make(map[uint]*models.Ride),
	}
}

func (m *memLedger) GetByID(id uint) (*models.Driver, error) {
	d, ok := m.drivers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memLedger) AdjustWallet(id uint, delta float64) (*models.Driver, error) {
	d, ok := m.drivers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d.Wallet += delta
	cp := *d
	return &cp, nil
}

func (m *memLedger) TopUp(id uint, amount float64) (*models.Driver, error) {
	d, ok := m.drivers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d.Wallet += amount
	d.IsBlocked = false
	d.WarningCount = 0
	cp := *d
	return &cp, nil
}

func (m *memLedger) IncrementWarning(id uint) error {
	d, ok := m.drivers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.WarningCount++
	return nil
}

func (m *memLedger) Block(id uint) error {
	d, ok := m.drivers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.IsBlocked = true
	return nil
}

func (m *memLedger) AddRideStats(id uint, charge float64) error {
	d, ok := m.drivers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.TotalEarning += charge
	d.TotalRides++
	return nil
}

type memRides struct{ ledger *memLedger }

func (m memRides) GetByID(id uint) (*models.Ride, error) {
	r, ok := m.ledger.rides[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m memRides) CountByDriver(driverID uint) (int64, error) {
	var n int64
	for _, r := range m.ledger.rides {
		if r.DriverID == driverID {
			n++
		}
	}
	return n, nil
}

func (m memRides) MarkSettled(rideID uint) (bool, error) {
	r, ok := m.ledger.rides[rideID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if r.SettledAt != nil {
		return false, nil
	}
	now := time.Now()
	r.SettledAt = &now
	r.Status = domain.RideCompleted
	return true, nil
}

type recordingNotifier struct {
	warnings []int
	blocked  int
	fail     error
}

func (n *recordingNotifier) SendWalletWarning(ctx context.Context, d *models.Driver, count int, balance float64) error {
	n.warnings = append(n.warnings, count)
	return n.fail
}

func (n *recordingNotifier) SendWalletBlocked(ctx context.Context, d *models.Driver, balance float64) error {
	n.blocked++
	return n.fail
}

func newSettlementFixture() (*SettlementService, *memLedger, *recordingNotifier) {
	ledger := newMemLedger()
	notifier := &recordingNotifier{}
	svc := NewSettlementService(ledger, memRides{ledger}, notifier)
	return svc, ledger, notifier
}

func addRide(l *memLedger, id, driverID uint, charge float64) {
	l.rides[id] = &models.Ride{ID: id, UserID: 1, DriverID: driverID, Charge: charge, Status: domain.RideOngoing}
}

func settledRide(l *memLedger, id, driverID uint, charge float64) {
	addRide(l, id, driverID, charge)
	now := time.Now()
	l.rides[id].SettledAt = &now
	l.rides[id].Status = domain.RideCompleted
}

func TestSettleFirstRideNoDeduction(t *testing.T) {
	svc, ledger, notifier := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 0}
	addRide(ledger, 1, 7, 500)

	res, err := svc.Settle(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Wallet)
	require.False(t, res.IsBlocked)
	require.Equal(t, "Ride completed.", res.Message)
	require.Equal(t, 500.0, ledger.drivers[7].TotalEarning)
	require.Equal(t, 1, ledger.drivers[7].TotalRides)
	require.Empty(t, notifier.warnings)
}

func TestSettleDeductsTwentyPercentFromSecondRide(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 200}
	settledRide(ledger, 1, 7, 500)
	addRide(ledger, 2, 7, 500)

	res, err := svc.Settle(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Equal(t, 100.0, res.Wallet) // 200 - 500*0.20
	require.False(t, res.IsBlocked)
}

func TestSettleWarningInsideBand(t *testing.T) {
	svc, ledger, notifier := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 0}
	settledRide(ledger, 1, 7, 100)
	addRide(ledger, 2, 7, 500)

	res, err := svc.Settle(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Equal(t, -100.0, res.Wallet)
	require.Equal(t, "Warning #1 sent via email.", res.Message)
	require.Equal(t, []int{1}, notifier.warnings)
	require.Equal(t, 1, ledger.drivers[7].WarningCount)
	require.False(t, res.IsBlocked)
}

func TestSettleNoWarningAfterCap(t *testing.T) {
	svc, ledger, notifier := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: -100, WarningCount: domain.MaxWarnings}
	settledRide(ledger, 1, 7, 100)
	addRide(ledger, 2, 7, 100)

	res, err := svc.Settle(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Equal(t, -120.0, res.Wallet)
	require.Equal(t, "Ride completed.", res.Message)
	require.Empty(t, notifier.warnings)
	require.Equal(t, domain.MaxWarnings, ledger.drivers[7].WarningCount)
}

func TestSettleBlocksAtThreshold(t *testing.T) {
	// Fourth ride, wallet 0, fare 1000/km over 2 km: deduction 400 lands the
	// wallet at -400, past the blocking threshold.
	svc, ledger, notifier := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 0}
	settledRide(ledger, 1, 7, 300)
	settledRide(ledger, 2, 7, 300)
	settledRide(ledger, 3, 7, 300)
	addRide(ledger, 4, 7, 2000)

	res, err := svc.Settle(context.Background(), 4, 7)
	require.NoError(t, err)
	require.Equal(t, -400.0, res.Wallet)
	require.True(t, res.IsBlocked)
	require.Equal(t, "Driver blocked and email sent.", res.Message)
	require.True(t, ledger.drivers[7].IsBlocked)
	require.Equal(t, 1, notifier.blocked)
	require.Empty(t, notifier.warnings)
}

func TestSettleDoesNotReblock(t *testing.T) {
	svc, ledger, notifier := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: -400, IsBlocked: true, WarningCount: domain.MaxWarnings}
	settledRide(ledger, 1, 7, 100)
	addRide(ledger, 2, 7, 100)

	res, err := svc.Settle(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Equal(t, -420.0, res.Wallet)
	require.True(t, res.IsBlocked)
	require.Equal(t, "Ride completed.", res.Message)
	require.Zero(t, notifier.blocked)
}

func TestSettleAlreadySettled(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 100}
	settledRide(ledger, 1, 7, 500)

	_, err := svc.Settle(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrAlreadySettled)
	require.Equal(t, 100.0, ledger.drivers[7].Wallet)
	require.Zero(t, ledger.drivers[7].TotalRides)
}

func TestSettleWrongDriver(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7}
	ledger.drivers[8] = &models.Driver{ID: 8}
	addRide(ledger, 1, 8, 500)

	_, err := svc.Settle(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrNotRideDriver)
}

func TestSettleMissingDriverAndRide(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()

	_, err := svc.Settle(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrDriverNotFound)

	ledger.drivers[7] = &models.Driver{ID: 7}
	_, err = svc.Settle(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrRideNotFound)
}

func TestSettleSurvivesNotifierFailure(t *testing.T) {
	svc, ledger, notifier := newSettlementFixture()
	notifier.fail = errors.New("smtp down")
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: 0}
	settledRide(ledger, 1, 7, 100)
	addRide(ledger, 2, 7, 500)

	res, err := svc.Settle(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Equal(t, -100.0, res.Wallet)
	require.Equal(t, 1, ledger.drivers[7].WarningCount)
}

func TestTopUpClearsBlockAndWarnings(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: -400, IsBlocked: true, WarningCount: 3}

	d, err := svc.TopUp(context.Background(), 7, 50)
	require.NoError(t, err)
	require.Equal(t, -350.0, d.Wallet) // still negative, unblocked anyway
	require.False(t, d.IsBlocked)
	require.Zero(t, d.WarningCount)
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7}

	_, err := svc.TopUp(context.Background(), 7, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.TopUp(context.Background(), 7, -10)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.TopUp(context.Background(), 99, 10)
	require.ErrorIs(t, err, ErrDriverNotFound)
}

func TestCreditKeepsWarningState(t *testing.T) {
	svc, ledger, _ := newSettlementFixture()
	ledger.drivers[7] = &models.Driver{ID: 7, Wallet: -100, IsBlocked: true, WarningCount: 2}

	d, err := svc.Credit(context.Background(), 7, 30)
	require.NoError(t, err)
	require.Equal(t, -70.0, d.Wallet)
	require.True(t, d.IsBlocked)
	require.Equal(t, 2, d.WarningCount)
}
