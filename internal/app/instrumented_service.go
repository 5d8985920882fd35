package app

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// InstrumentedParkingService wraps a ParkingService with prometheus counters
// for admissions, exits and rejections, plus an operation latency histogram.
type InstrumentedParkingService struct {
	*ParkingService

	entries   *prometheus.CounterVec
	exits     *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewInstrumentedParkingService(svc *ParkingService, reg prometheus.Registerer) *InstrumentedParkingService {
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_entries_total",
		Help: "Entry attempts by outcome.",
	}, []string{"outcome"})
	exits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_exits_total",
		Help: "Exit attempts by outcome.",
	}, []string{"outcome"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_operation_duration_seconds",
		Help:    "Latency of entry and exit operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	reg.MustRegister(entries, exits, durations)

	return &InstrumentedParkingService{
		ParkingService: svc,
		entries:        entries,
		exits:          exits,
		durations:      durations,
	}
}

func (s *InstrumentedParkingService) Enter(ctx context.Context, in EnterInput) (EnterResult, error) {
	start := time.Now()
	result, err := s.ParkingService.Enter(ctx, in)
	s.durations.WithLabelValues("enter").Observe(time.Since(start).Seconds())
	s.entries.WithLabelValues(outcomeLabel(err)).Inc()
	return result, err
}

func (s *InstrumentedParkingService) Exit(ctx context.Context, in ExitInput) (ExitResult, error) {
	start := time.Now()
	result, err := s.ParkingService.Exit(ctx, in)
	s.durations.WithLabelValues("exit").Observe(time.Since(start).Seconds())
	s.exits.WithLabelValues(outcomeLabel(err)).Inc()
	return result, err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrAlreadyParked):
		return "already_parked"
	case errors.Is(err, domain.ErrNoActiveSession):
		return "no_active_session"
	case errors.Is(err, domain.ErrCategoryNotAllowed):
		return "category_not_allowed"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
