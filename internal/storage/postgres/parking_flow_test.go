package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/app"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/clock"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/testutil"
)

// Exercises the coordinator against the real storage layer: entry/exit
// lifecycle, capacity gating and the same-vehicle races.
func TestParkingFlow(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)

	tx := NewTransactor(pool)
	registry := NewZoneRegistry(pool)
	sessions := NewSessionStore(pool)
	vehicles := NewVehicleDirectory(pool)

	tariff := decimal.RequireFromString("2.00")
	t0 := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	svcAt := func(ts time.Time) *app.ParkingService {
		return app.NewParkingService(tx, registry, sessions, vehicles, clock.NewFixed(ts))
	}

	t.Run("full cycle over a single slot", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 1, tariff, nil)
		veh1, _ := testutil.InsertVehicle(t, ctx, pool, "AAA111", domain.CategoryCar)
		veh2, _ := testutil.InsertVehicle(t, ctx, pool, "BBB222", domain.CategoryCar)

		res, err := svcAt(t0).Enter(ctx, app.EnterInput{VehicleID: veh1, SiteID: siteID, ZoneID: zoneID})
		if err != nil {
			t.Fatalf("entry for first vehicle failed: %v", err)
		}
		if res.Available != 0 {
			t.Fatalf("expected zone full, got %d available", res.Available)
		}

		if _, err := svcAt(t0.Add(time.Minute)).Enter(ctx, app.EnterInput{VehicleID: veh2, SiteID: siteID, ZoneID: zoneID}); err != domain.ErrCapacityExceeded {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}

		exitRes, err := svcAt(t0.Add(90*time.Minute)).Exit(ctx, app.ExitInput{VehicleID: veh1, ZoneID: zoneID})
		if err != nil {
			t.Fatalf("exit failed: %v", err)
		}
		if exitRes.DurationMinutes != 90 {
			t.Fatalf("expected 90 minutes, got %d", exitRes.DurationMinutes)
		}
		if want := decimal.RequireFromString("3.00"); !exitRes.Fee.Equal(want) {
			t.Fatalf("expected fee %s, got %s", want, exitRes.Fee)
		}
		if exitRes.Available != 1 {
			t.Fatalf("expected slot released, got %d", exitRes.Available)
		}

		if _, err := svcAt(t0.Add(2*time.Hour)).Enter(ctx, app.EnterInput{VehicleID: veh2, SiteID: siteID, ZoneID: zoneID}); err != nil {
			t.Fatalf("entry after release failed: %v", err)
		}
	})

	t.Run("duplicate entry returns the slot", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 10, tariff, nil)
		veh, _ := testutil.InsertVehicle(t, ctx, pool, "AAA111", domain.CategoryCar)

		svc := svcAt(t0)
		if _, err := svc.Enter(ctx, app.EnterInput{VehicleID: veh, SiteID: siteID, ZoneID: zoneID}); err != nil {
			t.Fatalf("first entry failed: %v", err)
		}
		if _, err := svc.Enter(ctx, app.EnterInput{VehicleID: veh, SiteID: siteID, ZoneID: zoneID}); err != domain.ErrAlreadyParked {
			t.Fatalf("expected ErrAlreadyParked, got %v", err)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 9 {
			t.Fatalf("expected available decremented once, got %d", got)
		}
	})

	t.Run("concurrent same-vehicle entries admit exactly one", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 10, tariff, nil)
		veh, _ := testutil.InsertVehicle(t, ctx, pool, "AAA111", domain.CategoryCar)

		svc := svcAt(t0)
		const workers = 8
		results := make(chan error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Enter(ctx, app.EnterInput{VehicleID: veh, SiteID: siteID, ZoneID: zoneID})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		admitted, rejected := 0, 0
		for err := range results {
			switch {
			case err == nil:
				admitted++
			case errors.Is(err, domain.ErrAlreadyParked):
				rejected++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if admitted != 1 || rejected != workers-1 {
			t.Fatalf("expected 1 admission and %d rejections, got %d/%d", workers-1, admitted, rejected)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 9 {
			t.Fatalf("expected exactly one slot consumed, got %d available", got)
		}
	})

	t.Run("concurrent exits release exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 10, tariff, nil)
		veh, _ := testutil.InsertVehicle(t, ctx, pool, "AAA111", domain.CategoryCar)

		if _, err := svcAt(t0).Enter(ctx, app.EnterInput{VehicleID: veh, SiteID: siteID, ZoneID: zoneID}); err != nil {
			t.Fatalf("entry failed: %v", err)
		}

		svc := svcAt(t0.Add(time.Hour))
		const workers = 8
		results := make(chan error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Exit(ctx, app.ExitInput{VehicleID: veh, ZoneID: zoneID})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		closed, misses := 0, 0
		for err := range results {
			switch {
			case err == nil:
				closed++
			case errors.Is(err, domain.ErrNoActiveSession):
				misses++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if closed != 1 || misses != workers-1 {
			t.Fatalf("expected one close and %d misses, got %d/%d", workers-1, closed, misses)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 10 {
			t.Fatalf("expected slot released exactly once, got %d available", got)
		}
	})

	t.Run("exit without entry changes nothing", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 10, tariff, nil)
		veh, _ := testutil.InsertVehicle(t, ctx, pool, "CCC333", domain.CategoryCar)

		if _, err := svcAt(t0).Exit(ctx, app.ExitInput{VehicleID: veh, ZoneID: zoneID}); err != domain.ErrNoActiveSession {
			t.Fatalf("expected ErrNoActiveSession, got %v", err)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 10 {
			t.Fatalf("expected available unchanged, got %d", got)
		}
	})

	t.Run("category restriction enforced", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		siteID, zoneID := testutil.InsertSiteAndZone(t, ctx, pool, "Central Park", 10, tariff,
			[]domain.VehicleCategory{domain.CategoryMotorcycle})
		veh, _ := testutil.InsertVehicle(t, ctx, pool, "DDD444", domain.CategoryTruck)

		if _, err := svcAt(t0).Enter(ctx, app.EnterInput{VehicleID: veh, SiteID: siteID, ZoneID: zoneID}); err != domain.ErrCategoryNotAllowed {
			t.Fatalf("expected ErrCategoryNotAllowed, got %v", err)
		}
		if got := testutil.ZoneAvailable(t, ctx, pool, zoneID); got != 10 {
			t.Fatalf("expected available unchanged, got %d", got)
		}
	})
}
