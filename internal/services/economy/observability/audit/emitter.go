// Package audit persists published economy events as journal entries.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/platform/id"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// Emitter is an event.Bus that appends every published event to the audit
// journal. Entries are append-only; nothing in the service rewrites them.
type Emitter struct {
	events storage.AuditEventStore
	newID  func() (string, error)
	clock  func() time.Time
}

// NewEmitter creates a journal-backed bus over the given store.
func NewEmitter(events storage.AuditEventStore) *Emitter {
	return &Emitter{
		events: events,
		newID:  id.NewID,
		clock:  time.Now,
	}
}

// Publish appends the event to the journal. A zero event timestamp is
// stamped with the current time.
func (e *Emitter) Publish(ctx context.Context, evt event.Event) error {
	if e == nil || e.events == nil {
		return fmt.Errorf("audit event store is not configured")
	}
	if !evt.Type.IsValid() {
		return fmt.Errorf("event type is required")
	}
	occurredAt := evt.Timestamp
	if occurredAt.IsZero() {
		occurredAt = e.clock()
	}
	eventID, err := e.newID()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	record := storage.AuditEventRecord{
		ID:         eventID,
		Type:       string(evt.Type),
		AccountID:  evt.AccountID,
		HolderID:   evt.HolderID,
		Actor:      evt.Actor,
		OldRole:    evt.OldRole,
		NewRole:    evt.NewRole,
		PropertyID: evt.PropertyID,
		OccurredAt: occurredAt.UTC(),
	}
	if err := e.events.AppendEvent(ctx, record); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

var _ event.Bus = (*Emitter)(nil)
