package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

type fakeRentalLister struct {
	records []storage.RentalRecord
	err     error
	cutoffs []time.Time
}

func (s *fakeRentalLister) GetRental(context.Context, string) (storage.RentalRecord, error) {
	return storage.RentalRecord{}, storage.ErrNotFound
}

func (s *fakeRentalLister) SaveRental(context.Context, storage.RentalRecord) error {
	return nil
}

func (s *fakeRentalLister) ListRentedDueBefore(_ context.Context, cutoff time.Time) ([]storage.RentalRecord, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type failingBus struct {
	calls int
}

func (b *failingBus) Publish(context.Context, event.Event) error {
	b.calls++
	return errors.New("bus down")
}

func TestSweepPublishesOverdueEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	store := &fakeRentalLister{records: []storage.RentalRecord{
		{
			PropertyID:     "overdue-house",
			Occupancy:      "rented",
			TenantPersona:  "Character:1b4e28ba-2fa1-11d2-883f-0016d3cca427",
			NextPaymentDue: now.AddDate(0, -2, 0),
		},
		{
			PropertyID:     "overdue-shop",
			Occupancy:      "rented",
			TenantPersona:  "Character:2c5f39cb-3fb2-22e3-994f-1127e4ddb538",
			NextPaymentDue: now.AddDate(0, -1, 0),
		},
	}}
	bus := event.NewMemoryBus()
	sweeper := NewArrearsSweeper(store, bus, time.Hour)
	sweeper.clock = func() time.Time { return now }

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	events := bus.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	for _, evt := range events {
		if evt.Type != event.TypeRentOverdue {
			t.Fatalf("event type = %q, want %q", evt.Type, event.TypeRentOverdue)
		}
		if !evt.Timestamp.Equal(now) {
			t.Fatalf("timestamp = %v, want %v", evt.Timestamp, now)
		}
	}
	if events[0].PropertyID != "overdue-house" || events[1].PropertyID != "overdue-shop" {
		t.Fatalf("unexpected properties: %q, %q", events[0].PropertyID, events[1].PropertyID)
	}
	if len(store.cutoffs) != 1 || !store.cutoffs[0].Equal(now) {
		t.Fatalf("cutoffs = %v, want one at %v", store.cutoffs, now)
	}
}

func TestSweepSurfacesListFailure(t *testing.T) {
	t.Parallel()

	listErr := errors.New("db locked")
	sweeper := NewArrearsSweeper(&fakeRentalLister{err: listErr}, event.NewMemoryBus(), time.Hour)

	err := sweeper.Sweep(context.Background())
	if !errors.Is(err, listErr) {
		t.Fatalf("error = %v, want wrapped %v", err, listErr)
	}
}

func TestSweepToleratesBusFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	store := &fakeRentalLister{records: []storage.RentalRecord{
		{PropertyID: "overdue-house", Occupancy: "rented", NextPaymentDue: now.AddDate(0, -1, 0)},
	}}
	bus := &failingBus{}
	sweeper := NewArrearsSweeper(store, bus, time.Hour)
	sweeper.clock = func() time.Time { return now }
	sweeper.logf = func(string, ...any) {}

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep should tolerate bus failure, got %v", err)
	}
	if bus.calls != 1 {
		t.Fatalf("bus calls = %d, want 1", bus.calls)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	sweeper := NewArrearsSweeper(&fakeRentalLister{}, event.NewMemoryBus(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want %v", err, context.Canceled)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
