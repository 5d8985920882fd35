package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParkingSession is the record of one vehicle's stay. Open sessions have no
// exit fields; closing sets ExitedAt, DurationMinutes and Fee exactly once.
// At most one open session may exist per vehicle.
type ParkingSession struct {
	ID              string
	VehicleID       string
	OwnerID         string
	SiteID          string
	ZoneID          string
	EnteredAt       time.Time
	ExitedAt        *time.Time
	DurationMinutes *int64
	Fee             *decimal.Decimal
}

// Open reports whether the session has not been closed yet.
func (s ParkingSession) Open() bool {
	return s.ExitedAt == nil
}
