// Package storage defines persistence contracts for economy service state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested economy record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write raced a concurrent mutation of the same record.
	ErrConflict = errors.New("record version conflict")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// AccountRecord stores one coinhouse account row. Version increments on
// every successful save and guards optimistic writes.
type AccountRecord struct {
	ID             string
	CoinhouseTag   string
	Debit          int64
	Credit         int64
	OpenedAt       time.Time
	LastAccessedAt time.Time
	Version        int64
	Holders        []HolderRecord
}

// HolderRecord stores one holder membership row for an account.
type HolderRecord struct {
	ID          string
	AccountID   string
	Persona     string
	Role        string
	DisplayName string
}

// RentalRecord stores one rentable property's mutable state. The catalog
// definition itself is configuration, not a row; only occupancy and the
// active agreement live here.
type RentalRecord struct {
	PropertyID       string
	Occupancy        string
	CurrentTenant    string
	CurrentOwner     string
	Residents        []string
	TenantPersona    string
	StartDate        time.Time
	NextPaymentDue   time.Time
	MonthlyRent      int64
	PaymentMethod    string
	LastOccupantSeen *time.Time
	Version          int64
}

// AuditEventRecord stores one journal entry for an economy mutation.
type AuditEventRecord struct {
	ID         string
	Type       string
	AccountID  string
	HolderID   string
	Actor      string
	OldRole    string
	NewRole    string
	PropertyID string
	OccurredAt time.Time
}

// ForeclosureItemRecord stores one object seized during an eviction.
type ForeclosureItemRecord struct {
	ID             string
	PropertyID     string
	Region         string
	ObjectID       string
	ObjectName     string
	Tenant         string
	SerializedJSON string
	SeizedAt       time.Time
}

// PersistentObjectRecord stores one serialized in-world object by area.
type PersistentObjectRecord struct {
	ID             string
	Area           string
	Name           string
	SerializedJSON string
	UpdatedAt      time.Time
}

// PersonaRecord stores one known economic persona for existence checks.
type PersonaRecord struct {
	ID          string
	Kind        string
	DisplayName string
	CreatedAt   time.Time
}

// AccountStore persists coinhouse account records.
type AccountStore interface {
	// GetAccount returns one account with its holder rows, or ErrNotFound.
	GetAccount(ctx context.Context, id string) (AccountRecord, error)
	// SaveAccount writes an account and replaces its holder rows. The write
	// succeeds only when the stored version matches record.Version;
	// otherwise ErrConflict is returned. A zero version inserts.
	SaveAccount(ctx context.Context, record AccountRecord) error
}

// RentalStore persists rental state records.
type RentalStore interface {
	// GetRental returns one property's rental state, or ErrNotFound.
	GetRental(ctx context.Context, propertyID string) (RentalRecord, error)
	// SaveRental writes a rental record guarded by its version; a mismatch
	// returns ErrConflict. A zero version inserts.
	SaveRental(ctx context.Context, record RentalRecord) error
	// ListRentedDueBefore returns rented records whose next payment due
	// date falls strictly before the cutoff.
	ListRentedDueBefore(ctx context.Context, cutoff time.Time) ([]RentalRecord, error)
}

// AuditEventStore persists the append-only economy journal.
type AuditEventStore interface {
	AppendEvent(ctx context.Context, record AuditEventRecord) error
	// ListRecentEvents returns up to limit entries, newest first.
	ListRecentEvents(ctx context.Context, limit int) ([]AuditEventRecord, error)
}

// ForeclosureStore persists seized items awaiting reclamation.
type ForeclosureStore interface {
	PutForeclosureItems(ctx context.Context, records []ForeclosureItemRecord) error
	ListForeclosureItemsForTenant(ctx context.Context, tenant string) ([]ForeclosureItemRecord, error)
}

// PersistentObjectStore persists serialized in-world objects by area.
type PersistentObjectStore interface {
	PutObject(ctx context.Context, record PersistentObjectRecord) error
	ListObjectsByArea(ctx context.Context, area string) ([]PersistentObjectRecord, error)
}

// PersonaStore persists the persona directory rows.
type PersonaStore interface {
	PutPersona(ctx context.Context, record PersonaRecord) error
	// GetPersona returns one persona row, or ErrNotFound.
	GetPersona(ctx context.Context, id string) (PersonaRecord, error)
}
