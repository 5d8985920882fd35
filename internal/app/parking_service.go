package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/clock"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/fee"
)

// Transactor runs fn inside a single storage transaction; any error rolls
// every write back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ZoneRegistry is the per-zone capacity counter. GetForUpdate locks the zone
// row for the remainder of the transaction, so reserve/release on the same
// zone serialize.
type ZoneRegistry interface {
	GetForUpdate(ctx context.Context, siteID, zoneID string) (domain.Zone, error)
	ReserveSlot(ctx context.Context, zoneID string) (int, error)
	ReleaseSlot(ctx context.Context, zoneID string) (int, error)
}

// SessionStore holds open and closed parking sessions.
type SessionStore interface {
	CreateOpen(ctx context.Context, session domain.ParkingSession) error
	FindOpenByVehicleForUpdate(ctx context.Context, vehicleID string) (domain.ParkingSession, error)
	Close(ctx context.Context, sessionID string, exitedAt time.Time, durationMinutes int64, fee decimal.Decimal) error
}

// VehicleDirectory is the read-only view of the registration subsystem.
type VehicleDirectory interface {
	Get(ctx context.Context, vehicleID string) (domain.Vehicle, error)
}

// ParkingService coordinates the session lifecycle: each Enter or Exit is
// one atomic transaction across the zone registry and the session store.
// The service itself is stateless.
type ParkingService struct {
	tx       Transactor
	zones    ZoneRegistry
	sessions SessionStore
	vehicles VehicleDirectory
	clock    clock.Clock
}

func NewParkingService(tx Transactor, zones ZoneRegistry, sessions SessionStore, vehicles VehicleDirectory, clk clock.Clock) *ParkingService {
	return &ParkingService{
		tx:       tx,
		zones:    zones,
		sessions: sessions,
		vehicles: vehicles,
		clock:    clk,
	}
}

type EnterInput struct {
	VehicleID string
	SiteID    string
	ZoneID    string
}

type EnterResult struct {
	SessionID string
	ZoneID    string
	Available int
	EnteredAt time.Time
}

// Enter admits a vehicle into a zone: it locks the zone row, checks the
// vehicle's category and the remaining capacity, takes one slot and opens a
// session. A duplicate entry for a vehicle with an open session fails with
// ErrAlreadyParked and the reservation rolls back with the transaction, so
// the loser of a same-vehicle race never consumes a slot.
func (s *ParkingService) Enter(ctx context.Context, in EnterInput) (EnterResult, error) {
	if in.VehicleID == "" || in.SiteID == "" || in.ZoneID == "" {
		return EnterResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result EnterResult

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		vehicle, err := s.vehicles.Get(txCtx, in.VehicleID)
		if err != nil {
			return err
		}

		zone, err := s.zones.GetForUpdate(txCtx, in.SiteID, in.ZoneID)
		if err != nil {
			return err
		}
		if !zone.Permits(vehicle.Category) {
			return domain.ErrCategoryNotAllowed
		}
		if zone.Available <= 0 {
			return domain.ErrCapacityExceeded
		}

		remaining, err := s.zones.ReserveSlot(txCtx, zone.ID)
		if err != nil {
			return err
		}

		session := domain.ParkingSession{
			ID:        uuid.NewString(),
			VehicleID: vehicle.ID,
			OwnerID:   vehicle.OwnerID,
			SiteID:    zone.SiteID,
			ZoneID:    zone.ID,
			EnteredAt: now,
		}
		if err := s.sessions.CreateOpen(txCtx, session); err != nil {
			return err
		}

		result = EnterResult{
			SessionID: session.ID,
			ZoneID:    zone.ID,
			Available: remaining,
			EnteredAt: now,
		}
		return nil
	})
	if err != nil {
		return EnterResult{}, err
	}
	return result, nil
}

type ExitInput struct {
	VehicleID string
	ZoneID    string
}

type ExitResult struct {
	SessionID       string
	DurationMinutes int64
	Fee             decimal.Decimal
	ExitedAt        time.Time
	Available       int
}

// Exit closes the vehicle's open session and releases its slot. The zone is
// re-read inside the transaction so the fee always uses the current tariff,
// never a stale in-memory copy. A concurrent exit that already closed the
// session surfaces as ErrNoActiveSession without a second release.
func (s *ParkingService) Exit(ctx context.Context, in ExitInput) (ExitResult, error) {
	if in.VehicleID == "" || in.ZoneID == "" {
		return ExitResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result ExitResult

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindOpenByVehicleForUpdate(txCtx, in.VehicleID)
		if err != nil {
			return err
		}
		if session.ZoneID != in.ZoneID {
			return domain.ErrNoActiveSession
		}

		zone, err := s.zones.GetForUpdate(txCtx, session.SiteID, session.ZoneID)
		if err != nil {
			return err
		}

		minutes, amount, err := fee.Compute(session.EnteredAt, now, zone.HourlyTariff)
		if err != nil {
			return err
		}

		if err := s.sessions.Close(txCtx, session.ID, now, minutes, amount); err != nil {
			if errors.Is(err, domain.ErrSessionClosed) {
				return domain.ErrNoActiveSession
			}
			return err
		}

		remaining, err := s.zones.ReleaseSlot(txCtx, session.ZoneID)
		if err != nil {
			return err
		}

		result = ExitResult{
			SessionID:       session.ID,
			DurationMinutes: minutes,
			Fee:             amount,
			ExitedAt:        now,
			Available:       remaining,
		}
		return nil
	})
	if err != nil {
		return ExitResult{}, err
	}
	return result, nil
}
