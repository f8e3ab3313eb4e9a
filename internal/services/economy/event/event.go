// Package event defines economy audit events and the publication port.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of an economy event.
type Type string

// Coinhouse account events.
const (
	// TypeAccountHolderRemoved records the removal of an account holder.
	TypeAccountHolderRemoved Type = "account.holder_removed"
	// TypeAccountHolderRoleChanged records a holder role transition.
	TypeAccountHolderRoleChanged Type = "account.holder_role_changed"
)

// Rental events.
const (
	// TypeRentPaid records a rent payment advancing the due date.
	TypeRentPaid Type = "rental.rent_paid"
	// TypePropertyEvicted records the termination of a rental.
	TypePropertyEvicted Type = "rental.evicted"
	// TypeRentOverdue records a rental whose due date has lapsed.
	TypeRentOverdue Type = "rental.payment_overdue"
)

// Event is one immutable audit record. Fields not relevant to the event
// type stay empty; personas appear in their canonical string form.
type Event struct {
	// Type identifies the kind of event.
	Type Type
	// AccountID is the coinhouse account affected, if any.
	AccountID string
	// HolderID is the account holder affected, if any.
	HolderID string
	// Actor is the persona that triggered the event.
	Actor string
	// OldRole and NewRole bracket a role transition.
	OldRole string
	NewRole string
	// PropertyID is the rentable property affected, if any.
	PropertyID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g. "account").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
