package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// fakeStore backs the coordinator tests in memory. WithTx snapshots state
// and restores it when fn fails, mirroring the all-or-nothing contract of
// the postgres layer.
type fakeStore struct {
	zones    map[string]domain.Zone
	vehicles map[string]domain.Vehicle
	sessions map[string]domain.ParkingSession
	sites    map[string]domain.Site
}

func newFakeStore(zones []domain.Zone, vehicles []domain.Vehicle) *fakeStore {
	f := &fakeStore{
		zones:    make(map[string]domain.Zone),
		vehicles: make(map[string]domain.Vehicle),
		sessions: make(map[string]domain.ParkingSession),
		sites:    make(map[string]domain.Site),
	}
	for _, z := range zones {
		f.zones[z.ID] = z
	}
	for _, v := range vehicles {
		f.vehicles[v.ID] = v
	}
	return f
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	zones := make(map[string]domain.Zone, len(f.zones))
	for k, v := range f.zones {
		zones[k] = v
	}
	sessions := make(map[string]domain.ParkingSession, len(f.sessions))
	for k, v := range f.sessions {
		sessions[k] = v
	}

	if err := fn(ctx); err != nil {
		f.zones = zones
		f.sessions = sessions
		return err
	}
	return nil
}

func (f *fakeStore) GetForUpdate(_ context.Context, siteID, zoneID string) (domain.Zone, error) {
	zone, ok := f.zones[zoneID]
	if !ok || zone.SiteID != siteID {
		return domain.Zone{}, domain.ErrZoneNotFound
	}
	return zone, nil
}

func (f *fakeStore) ReserveSlot(_ context.Context, zoneID string) (int, error) {
	zone, ok := f.zones[zoneID]
	if !ok {
		return 0, domain.ErrZoneNotFound
	}
	if zone.Available <= 0 {
		return 0, domain.ErrCapacityExceeded
	}
	zone.Available--
	f.zones[zoneID] = zone
	return zone.Available, nil
}

func (f *fakeStore) ReleaseSlot(_ context.Context, zoneID string) (int, error) {
	zone, ok := f.zones[zoneID]
	if !ok {
		return 0, domain.ErrZoneNotFound
	}
	if zone.Available < zone.Capacity {
		zone.Available++
	}
	f.zones[zoneID] = zone
	return zone.Available, nil
}

func (f *fakeStore) CreateOpen(_ context.Context, session domain.ParkingSession) error {
	for _, existing := range f.sessions {
		if existing.VehicleID == session.VehicleID && existing.Open() {
			return domain.ErrAlreadyParked
		}
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) FindOpenByVehicleForUpdate(_ context.Context, vehicleID string) (domain.ParkingSession, error) {
	for _, session := range f.sessions {
		if session.VehicleID == vehicleID && session.Open() {
			return session, nil
		}
	}
	return domain.ParkingSession{}, domain.ErrNoActiveSession
}

func (f *fakeStore) Close(_ context.Context, sessionID string, exitedAt time.Time, durationMinutes int64, amount decimal.Decimal) error {
	session, ok := f.sessions[sessionID]
	if !ok || !session.Open() {
		return domain.ErrSessionClosed
	}
	session.ExitedAt = &exitedAt
	session.DurationMinutes = &durationMinutes
	session.Fee = &amount
	f.sessions[sessionID] = session
	return nil
}

func (f *fakeStore) Get(_ context.Context, vehicleID string) (domain.Vehicle, error) {
	vehicle, ok := f.vehicles[vehicleID]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (f *fakeStore) CreateSite(_ context.Context, site domain.Site) error {
	f.sites[site.ID] = site
	return nil
}

func (f *fakeStore) ListSites(_ context.Context) ([]domain.Site, error) {
	out := make([]domain.Site, 0, len(f.sites))
	for _, s := range f.sites {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) CreateZone(_ context.Context, zone domain.Zone) error {
	f.zones[zone.ID] = zone
	return nil
}

func (f *fakeStore) ListZonesBySite(_ context.Context, siteID string) ([]domain.Zone, error) {
	out := make([]domain.Zone, 0)
	for _, z := range f.zones {
		if z.SiteID == siteID {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeStore) GetZone(_ context.Context, zoneID string) (domain.Zone, error) {
	zone, ok := f.zones[zoneID]
	if !ok {
		return domain.Zone{}, domain.ErrZoneNotFound
	}
	return zone, nil
}
