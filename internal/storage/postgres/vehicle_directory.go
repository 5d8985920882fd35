package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// VehicleDirectory is the core's read-only view of the registration
// subsystem's vehicle records.
type VehicleDirectory struct {
	pool *pgxpool.Pool
}

func NewVehicleDirectory(pool *pgxpool.Pool) *VehicleDirectory {
	return &VehicleDirectory{pool: pool}
}

func (d *VehicleDirectory) Get(ctx context.Context, vehicleID string) (domain.Vehicle, error) {
	const query = `
SELECT id, plate, category, owner_id
FROM vehicles
WHERE id = $1`

	var v domain.Vehicle
	var category string

	if err := d.queryRow(ctx, query, vehicleID).Scan(&v.ID, &v.Plate, &category, &v.OwnerID); err != nil {
		if isInvalidUUID(err) {
			return domain.Vehicle{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Vehicle{}, domain.ErrVehicleNotFound
		}
		return domain.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	v.Category = domain.VehicleCategory(category)
	return v, nil
}

func (d *VehicleDirectory) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return d.pool.QueryRow(ctx, sql, args...)
}
