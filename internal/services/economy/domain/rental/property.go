// Package rental defines the rentable-property aggregate and the handlers
// that drive the rental payment and eviction lifecycle.
package rental

import (
	"errors"
	"strings"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/coinhouse"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/money"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
)

var (
	// ErrNotFound indicates a rental record was not found.
	ErrNotFound = errors.New("rental record not found")
	// ErrConflict indicates a write conflicted with a concurrent mutation.
	ErrConflict = errors.New("rental record conflict")
	// ErrOccupancyMismatch indicates a snapshot violating the occupancy invariant.
	ErrOccupancyMismatch = errors.New("occupancy status does not match rental state")
	// ErrDefinitionInvalid indicates an unusable property definition.
	ErrDefinitionInvalid = errors.New("property definition is invalid")
)

// PropertyID identifies one rentable property in the catalog.
type PropertyID string

// SettlementTag names the settlement a property belongs to. Tags normalize
// to lowercase.
type SettlementTag string

// NewSettlementTag returns a normalized settlement tag.
func NewSettlementTag(value string) SettlementTag {
	return SettlementTag(strings.ToLower(strings.TrimSpace(value)))
}

// OccupancyStatus describes whether a property is rented.
type OccupancyStatus int

const (
	// OccupancyVacant means no rental is active.
	OccupancyVacant OccupancyStatus = iota
	// OccupancyRented means a rental agreement is active.
	OccupancyRented
)

// String returns the canonical occupancy label.
func (s OccupancyStatus) String() string {
	if s == OccupancyRented {
		return "rented"
	}
	return "vacant"
}

// ParseOccupancyStatus returns the status for a canonical label.
func ParseOccupancyStatus(label string) (OccupancyStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "vacant":
		return OccupancyVacant, true
	case "rented":
		return OccupancyRented, true
	default:
		return OccupancyVacant, false
	}
}

// PaymentMethod describes how rent is funded.
type PaymentMethod int

const (
	// PaymentUnspecified represents an invalid payment method.
	PaymentUnspecified PaymentMethod = iota
	// PaymentDirect means the tenant pays from carried gold.
	PaymentDirect
	// PaymentCoinhouse means rent draws on a coinhouse account.
	PaymentCoinhouse
)

// String returns the canonical payment method label.
func (m PaymentMethod) String() string {
	switch m {
	case PaymentDirect:
		return "direct"
	case PaymentCoinhouse:
		return "coinhouse"
	default:
		return "unspecified"
	}
}

// ParsePaymentMethod returns the method for a canonical label.
func ParsePaymentMethod(label string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "direct":
		return PaymentDirect, true
	case "coinhouse":
		return PaymentCoinhouse, true
	default:
		return PaymentUnspecified, false
	}
}

// Definition is the immutable catalog description of a rentable property.
type Definition struct {
	ID                     PropertyID
	InternalName           string
	Settlement             SettlementTag
	Category               string
	MonthlyRent            money.Gold
	AllowsCoinhouseRental  bool
	AllowsDirectRental     bool
	SettlementCoinhouseTag coinhouse.Tag
	PurchasePrice          *money.Gold
	MonthlyOwnershipTax    *money.Gold
}

// Validate checks the definition for catalog consistency.
func (d Definition) Validate() error {
	if strings.TrimSpace(string(d.ID)) == "" {
		return errors.New("property id is required")
	}
	if strings.TrimSpace(d.InternalName) == "" {
		return errors.New("property internal name is required")
	}
	if !d.AllowsCoinhouseRental && !d.AllowsDirectRental {
		return errors.New("property must allow at least one rental channel")
	}
	if d.AllowsCoinhouseRental && strings.TrimSpace(string(d.SettlementCoinhouseTag)) == "" {
		return errors.New("coinhouse-rentable property must name a settlement coinhouse")
	}
	return nil
}

// AgreementSnapshot is the point-in-time state of one rental agreement.
type AgreementSnapshot struct {
	Tenant           persona.ID
	StartDate        time.Time
	NextPaymentDue   time.Time
	MonthlyRent      money.Gold
	Method           PaymentMethod
	LastOccupantSeen *time.Time
}

// PropertySnapshot is the point-in-time state of one rentable property. It
// is value-shaped: handlers re-fetch it per command and never share a
// mutable reference across calls. Version is the storage concurrency token.
type PropertySnapshot struct {
	Definition    Definition
	Occupancy     OccupancyStatus
	CurrentTenant *persona.ID
	CurrentOwner  *persona.ID
	Residents     []persona.ID
	ActiveRental  *AgreementSnapshot
	Version       int64
}

// Validate enforces the occupancy invariant: Rented if and only if an
// active rental and a current tenant both exist, Vacant if and only if
// both are absent.
func (p PropertySnapshot) Validate() error {
	rented := p.ActiveRental != nil && p.CurrentTenant != nil
	vacant := p.ActiveRental == nil && p.CurrentTenant == nil
	switch p.Occupancy {
	case OccupancyRented:
		if !rented {
			return ErrOccupancyMismatch
		}
	case OccupancyVacant:
		if !vacant {
			return ErrOccupancyMismatch
		}
	}
	return nil
}
