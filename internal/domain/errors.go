package domain

import "errors"

var (
	ErrSiteNotFound       = errors.New("site not found")
	ErrZoneNotFound       = errors.New("zone not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrCapacityExceeded   = errors.New("zone has no available slots")
	ErrAlreadyParked      = errors.New("vehicle already has an open session")
	ErrNoActiveSession    = errors.New("no active session for vehicle")
	ErrSessionClosed      = errors.New("session already closed")
	ErrInvalidInterval    = errors.New("exit time precedes entry time")
	ErrCategoryNotAllowed = errors.New("vehicle category not permitted in zone")
	ErrConflict           = errors.New("storage contention, retry")
	ErrInvalidID          = errors.New("invalid id")
	ErrSiteNameRequired   = errors.New("site name required")
	ErrZoneNameRequired   = errors.New("zone name required")
	ErrInvalidCapacity    = errors.New("capacity must be positive")
	ErrInvalidTariff      = errors.New("tariff must be non-negative")
)
