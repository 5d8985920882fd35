package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

type ProvisioningRepository interface {
	CreateSite(ctx context.Context, site domain.Site) error
	ListSites(ctx context.Context) ([]domain.Site, error)
	CreateZone(ctx context.Context, zone domain.Zone) error
	ListZonesBySite(ctx context.Context, siteID string) ([]domain.Zone, error)
	GetZone(ctx context.Context, zoneID string) (domain.Zone, error)
}

// ProvisioningService creates and lists sites and zones. The coordinator
// never writes these records; they exist before any session does.
type ProvisioningService struct {
	repo ProvisioningRepository
}

func NewProvisioningService(repo ProvisioningRepository) *ProvisioningService {
	return &ProvisioningService{repo: repo}
}

type CreateSiteInput struct {
	Name    string
	City    string
	Address string
}

func (s *ProvisioningService) CreateSite(ctx context.Context, in CreateSiteInput) (domain.Site, error) {
	if in.Name == "" {
		return domain.Site{}, domain.ErrSiteNameRequired
	}

	site := domain.Site{
		ID:      uuid.NewString(),
		Name:    in.Name,
		City:    in.City,
		Address: in.Address,
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *ProvisioningService) ListSites(ctx context.Context) ([]domain.Site, error) {
	return s.repo.ListSites(ctx)
}

type CreateZoneInput struct {
	SiteID              string
	Name                string
	Capacity            int
	HourlyTariff        decimal.Decimal
	PermittedCategories []domain.VehicleCategory
}

// CreateZone provisions a zone with every slot available.
func (s *ProvisioningService) CreateZone(ctx context.Context, in CreateZoneInput) (domain.Zone, error) {
	if in.SiteID == "" {
		return domain.Zone{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.Zone{}, domain.ErrZoneNameRequired
	}
	if in.Capacity <= 0 {
		return domain.Zone{}, domain.ErrInvalidCapacity
	}
	if in.HourlyTariff.IsNegative() {
		return domain.Zone{}, domain.ErrInvalidTariff
	}

	zone := domain.Zone{
		ID:                  uuid.NewString(),
		SiteID:              in.SiteID,
		Name:                in.Name,
		Capacity:            in.Capacity,
		Available:           in.Capacity,
		HourlyTariff:        in.HourlyTariff,
		PermittedCategories: in.PermittedCategories,
	}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return domain.Zone{}, err
	}
	return zone, nil
}

func (s *ProvisioningService) ListZones(ctx context.Context, siteID string) ([]domain.Zone, error) {
	if siteID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListZonesBySite(ctx, siteID)
}

func (s *ProvisioningService) GetZone(ctx context.Context, zoneID string) (domain.Zone, error) {
	if zoneID == "" {
		return domain.Zone{}, domain.ErrInvalidID
	}
	return s.repo.GetZone(ctx, zoneID)
}
