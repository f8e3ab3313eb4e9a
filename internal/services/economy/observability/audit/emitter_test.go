package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

type fakeEventStore struct {
	records []storage.AuditEventRecord
	err     error
}

func (s *fakeEventStore) AppendEvent(_ context.Context, record storage.AuditEventRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *fakeEventStore) ListRecentEvents(context.Context, int) ([]storage.AuditEventRecord, error) {
	return append([]storage.AuditEventRecord(nil), s.records...), nil
}

func TestPublishAppendsJournalEntry(t *testing.T) {
	t.Parallel()

	store := &fakeEventStore{}
	emitter := NewEmitter(store)
	emitter.newID = func() (string, error) { return "evt-1", nil }

	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	err := emitter.Publish(context.Background(), event.Event{
		Type:       event.TypeRentPaid,
		PropertyID: "cordor-dock-house-3",
		Actor:      "Character:1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Timestamp:  at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	record := store.records[0]
	if record.ID != "evt-1" {
		t.Fatalf("id = %q, want evt-1", record.ID)
	}
	if record.Type != string(event.TypeRentPaid) {
		t.Fatalf("type = %q, want %q", record.Type, event.TypeRentPaid)
	}
	if !record.OccurredAt.Equal(at) {
		t.Fatalf("occurred_at = %v, want %v", record.OccurredAt, at)
	}
}

func TestPublishStampsMissingTimestamp(t *testing.T) {
	t.Parallel()

	store := &fakeEventStore{}
	emitter := NewEmitter(store)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	emitter.clock = func() time.Time { return now }

	err := emitter.Publish(context.Background(), event.Event{
		Type:      event.TypeAccountHolderRemoved,
		AccountID: "acct-1",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !store.records[0].OccurredAt.Equal(now) {
		t.Fatalf("occurred_at = %v, want %v", store.records[0].OccurredAt, now)
	}
}

func TestPublishRejectsMissingType(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter(&fakeEventStore{})
	if err := emitter.Publish(context.Background(), event.Event{}); err == nil {
		t.Fatal("expected missing type error")
	}
}

func TestPublishSurfacesStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk full")
	emitter := NewEmitter(&fakeEventStore{err: storeErr})
	err := emitter.Publish(context.Background(), event.Event{Type: event.TypeRentPaid})
	if !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want wrapped %v", err, storeErr)
	}
}
