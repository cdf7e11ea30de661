package domain

const (
	RoleDriver = "DRIVER"
	RoleUser   = "USER"
	RoleAdmin  = "ADMIN"
)

const (
	DriverActive   = "Active"
	DriverInactive = "Inactive"
)

const (
	RideCreated   = "Created"
	RideOngoing   = "Ongoing"
	RideCompleted = "Completed"
	RideCancelled = "Cancelled"
)

// Wallet policy. The commission is waived on a driver's first ride; repeated
// negative balances draw warnings inside the caution band and a hard block
// below the floor. A top-up of any size clears both.
const (
	CommissionRate   = 0.20
	WarningBandUpper = -50.0
	WarningBandLower = -300.0
	BlockThreshold   = -300.0
	MaxWarnings      = 3
)
