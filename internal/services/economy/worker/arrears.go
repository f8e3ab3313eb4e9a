// Package worker runs the economy's background jobs.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/rental"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

const defaultSweepInterval = time.Hour

// ArrearsSweeper periodically scans rented properties whose next payment
// due date has lapsed and publishes overdue events. It never evicts;
// eviction policy sits with the operators reading the journal.
type ArrearsSweeper struct {
	rentals  storage.RentalStore
	bus      event.Bus
	policy   rental.Policy
	interval time.Duration
	clock    func() time.Time
	tracer   trace.Tracer
	logf     func(format string, args ...any)
}

// NewArrearsSweeper creates a sweeper over the given rental store and bus.
func NewArrearsSweeper(rentals storage.RentalStore, bus event.Bus, interval time.Duration) *ArrearsSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ArrearsSweeper{
		rentals:  rentals,
		bus:      bus,
		interval: interval,
		clock:    time.Now,
		tracer:   otel.Tracer("economy.worker"),
		logf:     log.Printf,
	}
}

// Run sweeps once immediately, then on every interval tick until the
// context is cancelled.
func (s *ArrearsSweeper) Run(ctx context.Context) error {
	if s == nil || s.rentals == nil {
		return fmt.Errorf("rental store is not configured")
	}

	if err := s.Sweep(ctx); err != nil {
		s.logf("economy worker: arrears sweep: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logf("economy worker: arrears sweep: %v", err)
			}
		}
	}
}

// Sweep runs one pass: list rented properties past due and publish one
// overdue event per property. Publish failures are logged and do not stop
// the pass.
func (s *ArrearsSweeper) Sweep(ctx context.Context) error {
	if s == nil || s.rentals == nil {
		return fmt.Errorf("rental store is not configured")
	}

	ctx, span := s.tracer.Start(ctx, "arrears.sweep")
	defer span.End()

	now := s.clock().UTC()
	overdue, err := s.rentals.ListRentedDueBefore(ctx, now)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("list overdue rentals: %w", err)
	}
	span.SetAttributes(attribute.Int("arrears.overdue_count", len(overdue)))

	for _, record := range overdue {
		months := s.policy.MonthsInArrears(now, record.NextPaymentDue)
		if s.bus == nil {
			continue
		}
		err := s.bus.Publish(ctx, event.Event{
			Type:       event.TypeRentOverdue,
			PropertyID: record.PropertyID,
			Actor:      record.TenantPersona,
			Timestamp:  now,
		})
		if err != nil {
			s.logf("economy worker: publish overdue for %s (%d months): %v", record.PropertyID, months, err)
		}
	}
	return nil
}
