package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/testutil"
)

func TestZoneRegistry(t *testing.T) {
	pool := testutil.NewTestPool(t)
	registry := NewZoneRegistry(pool)
	tx := NewTransactor(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	tariff := decimal.RequireFromString("2.50")

	t.Run("GetForUpdate returns zone and ErrZoneNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 20, tariff,
			[]domain.VehicleCategory{domain.CategoryCar, domain.CategoryMotorcycle})

		err := tx.WithTx(ctx, func(txCtx context.Context) error {
			zone, err := registry.GetForUpdate(txCtx, siteID, zoneID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if zone.Capacity != 20 || zone.Available != 20 {
				t.Fatalf("unexpected zone: %+v", zone)
			}
			if !zone.HourlyTariff.Equal(tariff) {
				t.Fatalf("expected tariff %s, got %s", tariff, zone.HourlyTariff)
			}
			if len(zone.PermittedCategories) != 2 {
				t.Fatalf("expected 2 permitted categories, got %v", zone.PermittedCategories)
			}

			missing := "00000000-0000-0000-0000-000000000001"
			if _, err := registry.GetForUpdate(txCtx, siteID, missing); err != domain.ErrZoneNotFound {
				t.Fatalf("expected ErrZoneNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		if _, err := registry.GetForUpdate(ctx, siteID, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ReserveSlot stops at zero", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 2, tariff, nil)

		if remaining, err := registry.ReserveSlot(ctx, zoneID); err != nil || remaining != 1 {
			t.Fatalf("expected remaining 1, got %d (%v)", remaining, err)
		}
		if remaining, err := registry.ReserveSlot(ctx, zoneID); err != nil || remaining != 0 {
			t.Fatalf("expected remaining 0, got %d (%v)", remaining, err)
		}
		if _, err := registry.ReserveSlot(ctx, zoneID); err != domain.ErrCapacityExceeded {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 0 {
			t.Fatalf("expected available 0, got %d", got)
		}
	})

	t.Run("ReleaseSlot clamps at capacity", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 3, tariff, nil)

		if remaining, err := registry.ReleaseSlot(ctx, zoneID); err != nil || remaining != 3 {
			t.Fatalf("expected clamp at capacity 3, got %d (%v)", remaining, err)
		}

		missing := "00000000-0000-0000-0000-000000000001"
		if _, err := registry.ReleaseSlot(ctx, missing); err != domain.ErrZoneNotFound {
			t.Fatalf("expected ErrZoneNotFound, got %v", err)
		}
	})

	t.Run("concurrent reserves grant exactly capacity", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 5, tariff, nil)

		const workers = 20
		granted := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tx.WithTx(ctx, func(txCtx context.Context) error {
					zone, err := registry.GetForUpdate(txCtx, siteID, zoneID)
					if err != nil {
						return err
					}
					if zone.Available <= 0 {
						return domain.ErrCapacityExceeded
					}
					_, err = registry.ReserveSlot(txCtx, zoneID)
					return err
				})
				if err == nil {
					granted <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(granted)

		count := 0
		for range granted {
			count++
		}
		if count != 5 {
			t.Fatalf("expected exactly 5 grants, got %d", count)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 0 {
			t.Fatalf("expected available 0, got %d", got)
		}
	})
}
