package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// ProvisioningRepository creates and lists sites and zones. It runs outside
// the coordinator's transactions; provisioning happens before traffic.
type ProvisioningRepository struct {
	pool *pgxpool.Pool
}

func NewProvisioningRepository(pool *pgxpool.Pool) *ProvisioningRepository {
	return &ProvisioningRepository{pool: pool}
}

func (r *ProvisioningRepository) CreateSite(ctx context.Context, site domain.Site) error {
	const stmt = `
INSERT INTO sites (id, name, city, address)
VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, stmt, site.ID, site.Name, site.City, site.Address)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

func (r *ProvisioningRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	const query = `
SELECT id, name, city, address
FROM sites
ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		var site domain.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.City, &site.Address); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sites: %w", rows.Err())
	}
	return sites, nil
}

func (r *ProvisioningRepository) CreateZone(ctx context.Context, zone domain.Zone) error {
	const stmt = `
INSERT INTO zones (id, site_id, name, capacity, available, hourly_tariff, permitted_categories)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, stmt,
		zone.ID,
		zone.SiteID,
		zone.Name,
		zone.Capacity,
		zone.Available,
		zone.HourlyTariff,
		fromCategories(zone.PermittedCategories),
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSiteNotFound
		}
		return fmt.Errorf("create zone: %w", err)
	}
	return nil
}

func (r *ProvisioningRepository) ListZonesBySite(ctx context.Context, siteID string) ([]domain.Zone, error) {
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM sites WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, existsQuery, siteID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("check site: %w", err)
	}
	if !exists {
		return nil, domain.ErrSiteNotFound
	}

	const query = `
SELECT id, site_id, name, capacity, available, hourly_tariff, permitted_categories
FROM zones
WHERE site_id = $1
ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, zone)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate zones: %w", rows.Err())
	}
	return zones, nil
}

func (r *ProvisioningRepository) GetZone(ctx context.Context, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, site_id, name, capacity, available, hourly_tariff, permitted_categories
FROM zones
WHERE id = $1`

	zone, err := scanZone(r.pool.QueryRow(ctx, query, zoneID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return zone, nil
}

func scanZone(row pgx.Row) (domain.Zone, error) {
	var z domain.Zone
	var categories []string
	if err := row.Scan(&z.ID, &z.SiteID, &z.Name, &z.Capacity, &z.Available, &z.HourlyTariff, &categories); err != nil {
		return domain.Zone{}, err
	}
	z.PermittedCategories = toCategories(categories)
	return z, nil
}
