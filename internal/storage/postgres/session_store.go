package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// SessionStore holds parking sessions. A partial unique index over
// (vehicle_id) WHERE exited_at IS NULL enforces the one-open-session-per-
// vehicle invariant at the storage layer.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) CreateOpen(ctx context.Context, session domain.ParkingSession) error {
	const stmt = `
INSERT INTO parking_sessions (id, vehicle_id, owner_id, site_id, zone_id, entered_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.exec(ctx, stmt,
		session.ID,
		session.VehicleID,
		session.OwnerID,
		session.SiteID,
		session.ZoneID,
		session.EnteredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyParked
		}
		if isForeignKeyViolation(err) {
			return domain.ErrVehicleNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindOpenByVehicleForUpdate locks the vehicle's open session row, so two
// concurrent exits for the same vehicle resolve one after the other.
func (s *SessionStore) FindOpenByVehicleForUpdate(ctx context.Context, vehicleID string) (domain.ParkingSession, error) {
	const query = `
SELECT id, vehicle_id, owner_id, site_id, zone_id, entered_at
FROM parking_sessions
WHERE vehicle_id = $1 AND exited_at IS NULL
FOR UPDATE`

	var sess domain.ParkingSession
	err := s.queryRow(ctx, query, vehicleID).
		Scan(&sess.ID, &sess.VehicleID, &sess.OwnerID, &sess.SiteID, &sess.ZoneID, &sess.EnteredAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ParkingSession{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.ParkingSession{}, domain.ErrNoActiveSession
		}
		return domain.ParkingSession{}, fmt.Errorf("find open session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) GetByID(ctx context.Context, sessionID string) (domain.ParkingSession, error) {
	const query = `
SELECT id, vehicle_id, owner_id, site_id, zone_id, entered_at, exited_at, duration_minutes, fee
FROM parking_sessions
WHERE id = $1`

	var sess domain.ParkingSession
	err := s.queryRow(ctx, query, sessionID).
		Scan(&sess.ID, &sess.VehicleID, &sess.OwnerID, &sess.SiteID, &sess.ZoneID,
			&sess.EnteredAt, &sess.ExitedAt, &sess.DurationMinutes, &sess.Fee)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ParkingSession{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.ParkingSession{}, domain.ErrNoActiveSession
		}
		return domain.ParkingSession{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Close sets the exit fields exactly once; the exited_at IS NULL guard makes
// a second close a no-op reported as ErrSessionClosed.
func (s *SessionStore) Close(ctx context.Context, sessionID string, exitedAt time.Time, durationMinutes int64, fee decimal.Decimal) error {
	const stmt = `
UPDATE parking_sessions
SET exited_at = $2, duration_minutes = $3, fee = $4
WHERE id = $1 AND exited_at IS NULL`

	tag, err := s.exec(ctx, stmt, sessionID, exitedAt, durationMinutes, fee)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionClosed
	}
	return nil
}

func (s *SessionStore) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return s.pool.Exec(ctx, sql, args...)
}

func (s *SessionStore) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return s.pool.QueryRow(ctx, sql, args...)
}
