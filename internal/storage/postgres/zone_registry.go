package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// ZoneRegistry owns the per-zone slot counters. Reserve and release are
// conditional single-row updates; combined with the FOR UPDATE read in
// GetForUpdate, all counter movements on a zone serialize.
type ZoneRegistry struct {
	pool *pgxpool.Pool
}

func NewZoneRegistry(pool *pgxpool.Pool) *ZoneRegistry {
	return &ZoneRegistry{pool: pool}
}

func (r *ZoneRegistry) GetForUpdate(ctx context.Context, siteID, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, site_id, name, capacity, available, hourly_tariff, permitted_categories
FROM zones
WHERE id = $1 AND site_id = $2
FOR UPDATE`

	var z domain.Zone
	var categories []string
	err := r.queryRow(ctx, query, zoneID, siteID).
		Scan(&z.ID, &z.SiteID, &z.Name, &z.Capacity, &z.Available, &z.HourlyTariff, &categories)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	z.PermittedCategories = toCategories(categories)
	return z, nil
}

// ReserveSlot takes one slot if any remain and reports the new count.
// The WHERE guard keeps available from ever going negative even without a
// prior locked read.
func (r *ZoneRegistry) ReserveSlot(ctx context.Context, zoneID string) (int, error) {
	const stmt = `
UPDATE zones
SET available = available - 1
WHERE id = $1 AND available > 0
RETURNING available`

	var remaining int
	err := r.queryRow(ctx, stmt, zoneID).Scan(&remaining)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrCapacityExceeded
		}
		return 0, fmt.Errorf("reserve slot: %w", err)
	}
	return remaining, nil
}

// ReleaseSlot returns one slot, clamped at capacity so a duplicate release
// can never overflow the zone.
func (r *ZoneRegistry) ReleaseSlot(ctx context.Context, zoneID string) (int, error) {
	const stmt = `
UPDATE zones
SET available = LEAST(available + 1, capacity)
WHERE id = $1
RETURNING available`

	var remaining int
	err := r.queryRow(ctx, stmt, zoneID).Scan(&remaining)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrZoneNotFound
		}
		return 0, fmt.Errorf("release slot: %w", err)
	}
	return remaining, nil
}

func (r *ZoneRegistry) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func toCategories(values []string) []domain.VehicleCategory {
	if len(values) == 0 {
		return nil
	}
	out := make([]domain.VehicleCategory, 0, len(values))
	for _, v := range values {
		out = append(out, domain.VehicleCategory(v))
	}
	return out
}

func fromCategories(categories []domain.VehicleCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
