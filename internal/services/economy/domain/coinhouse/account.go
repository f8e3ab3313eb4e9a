// Package coinhouse defines the coinhouse account aggregate and the
// handlers that manage account holders.
package coinhouse

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/money"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
)

var (
	// ErrNotFound indicates a coinhouse account record was not found.
	ErrNotFound = errors.New("coinhouse account not found")
	// ErrConflict indicates a write conflicted with a concurrent mutation.
	ErrConflict = errors.New("coinhouse account conflict")
	// ErrNoOwner indicates an account left without any owner.
	ErrNoOwner = errors.New("account must retain at least one owner")
)

// Tag names a coinhouse. Tags normalize to lowercase.
type Tag string

// NewTag returns a normalized coinhouse tag.
func NewTag(value string) Tag {
	return Tag(strings.ToLower(strings.TrimSpace(value)))
}

// Holder associates a persona with an account under a permission role.
type Holder struct {
	ID          uuid.UUID
	Persona     persona.ID
	Role        HolderRole
	DisplayName string
}

// Account is the coinhouse account aggregate. It is rehydrated from storage
// per command, mutated in memory, and re-serialized for persistence; the
// Version field is the storage concurrency token and is opaque here.
type Account struct {
	ID             uuid.UUID
	Debit          money.Gold
	Credit         money.Gold
	Coinhouse      Tag
	OpenedAt       time.Time
	LastAccessedAt time.Time
	Holders        []Holder
	Version        int64
}

// HolderByID returns the holder with the given id.
func (a Account) HolderByID(holderID uuid.UUID) (Holder, bool) {
	for _, holder := range a.Holders {
		if holder.ID == holderID {
			return holder, true
		}
	}
	return Holder{}, false
}

// HolderByPersona returns the holder entry for a persona.
func (a Account) HolderByPersona(id persona.ID) (Holder, bool) {
	for _, holder := range a.Holders {
		if holder.Persona.Equal(id) {
			return holder, true
		}
	}
	return Holder{}, false
}

// OwnerCount returns how many holders carry the Owner role.
func (a Account) OwnerCount() int {
	count := 0
	for _, holder := range a.Holders {
		if holder.Role == RoleOwner {
			count++
		}
	}
	return count
}

// RemoveHolder deletes the holder with the given id, reporting whether a
// holder was removed.
func (a *Account) RemoveHolder(holderID uuid.UUID) bool {
	for i, holder := range a.Holders {
		if holder.ID == holderID {
			a.Holders = append(a.Holders[:i], a.Holders[i+1:]...)
			return true
		}
	}
	return false
}

// SetHolderRole assigns a new role to the holder with the given id,
// reporting whether the holder was found.
func (a *Account) SetHolderRole(holderID uuid.UUID, role HolderRole) bool {
	for i := range a.Holders {
		if a.Holders[i].ID == holderID {
			a.Holders[i].Role = role
			return true
		}
	}
	return false
}

// Touch records account access time.
func (a *Account) Touch(now time.Time) {
	a.LastAccessedAt = now.UTC()
}

// Validate enforces the aggregate invariant: at least one Owner must exist
// at all times. Every mutating handler checks this before persistence.
func (a Account) Validate() error {
	if a.OwnerCount() == 0 {
		return ErrNoOwner
	}
	return nil
}
