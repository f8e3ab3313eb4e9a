package rental

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/command"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("rental store is not configured")

// Store is the persistence boundary for rental state. PersistRental writes
// one property snapshot; implementations report concurrent-write conflicts
// as ErrConflict.
type Store interface {
	PersistRental(ctx context.Context, snapshot PropertySnapshot) error
}

// Region describes one world region a property belongs to.
type Region struct {
	Tag        string
	Name       string
	Settlement SettlementTag
}

// RegionIndex resolves the region an in-world area belongs to.
type RegionIndex interface {
	RegionForArea(area string) (Region, bool)
}

// PersistentObject is one serialized in-world object placed in an area.
type PersistentObject struct {
	ID             string
	Area           string
	Name           string
	SerializedJSON string
}

// ObjectSource lists the persistent objects placed in an area.
type ObjectSource interface {
	ObjectsForArea(ctx context.Context, area string) ([]PersistentObject, error)
}

// ForeclosureItem is one seized object handed to foreclosure storage when
// a coinhouse-backed rental ends.
type ForeclosureItem struct {
	PropertyID     PropertyID
	Region         string
	ObjectID       string
	ObjectName     string
	Tenant         persona.ID
	SerializedJSON string
	SeizedAt       time.Time
}

// ForeclosureVault stores seized items for later reclamation.
type ForeclosureVault interface {
	StoreItems(ctx context.Context, items []ForeclosureItem) error
}

// Service orchestrates the rental lifecycle commands. Each command runs one
// load, validate, mutate, persist cycle against a caller-provided snapshot;
// the service holds no cross-call state.
type Service struct {
	store   Store
	regions RegionIndex
	objects ObjectSource
	vault   ForeclosureVault
	bus     event.Bus
	policy  Policy
	clock   func() time.Time
	logf    func(format string, args ...any)
}

// NewService constructs the rental lifecycle use-cases. The region index,
// object source, and foreclosure vault are only consulted when evicting a
// coinhouse-backed rental and may be nil otherwise.
func NewService(store Store, regions RegionIndex, objects ObjectSource, vault ForeclosureVault, bus event.Bus, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:   store,
		regions: regions,
		objects: objects,
		vault:   vault,
		bus:     bus,
		clock:   clock,
		logf:    log.Printf,
	}
}

// PayRentInput carries one rent payment request.
type PayRentInput struct {
	Property PropertySnapshot
	Tenant   persona.ID
	Method   PaymentMethod
}

// EvictInput carries one eviction request.
type EvictInput struct {
	Property PropertySnapshot
}

// EvictOutcome reports an eviction result. EvictedTenant carries the
// resolved persona for the external notifier; only live characters are
// ever notified, and that delivery happens outside this core.
type EvictOutcome struct {
	command.Result
	EvictedTenant *persona.ID
}

// PayRent accepts a tenant's rent payment and advances the next due date
// by exactly one calendar month. The prepayment cap refuses payment while
// the agreement is already paid a month ahead.
func (s *Service) PayRent(ctx context.Context, in PayRentInput) (command.Result, error) {
	if s == nil || s.store == nil {
		return command.Result{}, ErrStoreNotConfigured
	}

	agreement := in.Property.ActiveRental
	if agreement == nil {
		return command.Failf("property %s has no active rental", in.Property.Definition.ID), nil
	}
	if !in.Tenant.Equal(agreement.Tenant) {
		return command.Fail("the paying tenant does not match the rental agreement tenant"), nil
	}

	today := s.clock().UTC()
	if !s.policy.AllowsPayment(today, agreement.NextPaymentDue) {
		return command.Fail("rent is already paid a month in advance; no further advance payment is accepted"), nil
	}

	property := in.Property
	updated := *agreement
	updated.NextPaymentDue = s.policy.NextDueAfterPayment(agreement.NextPaymentDue)
	property.ActiveRental = &updated

	if err := property.Validate(); err != nil {
		return command.Fail(err.Error()), nil
	}
	if err := s.store.PersistRental(ctx, property); err != nil {
		if errors.Is(err, ErrConflict) {
			return command.Fail("the rental was modified concurrently; retry the payment"), nil
		}
		return command.Result{}, err
	}

	s.publish(ctx, event.Event{
		Type:       event.TypeRentPaid,
		PropertyID: string(property.Definition.ID),
		Actor:      in.Tenant.String(),
		Timestamp:  today,
	})
	return command.OK(), nil
}

// Evict terminates a property's rental, leaving it vacant. Coinhouse-backed
// rentals additionally run foreclosure bookkeeping: the property's region
// is resolved, its persistent objects are enumerated, and the lot is handed
// to the foreclosure vault before the vacancy is persisted.
func (s *Service) Evict(ctx context.Context, in EvictInput) (EvictOutcome, error) {
	if s == nil || s.store == nil {
		return EvictOutcome{}, ErrStoreNotConfigured
	}

	if in.Property.CurrentTenant == nil {
		return EvictOutcome{Result: command.Failf("property %s has no current tenant", in.Property.Definition.ID)}, nil
	}
	tenant := *in.Property.CurrentTenant

	if s.requiresForeclosure(in.Property) {
		if err := s.forecloseHoldings(ctx, in.Property, tenant); err != nil {
			return EvictOutcome{}, err
		}
	}

	property := in.Property
	property.CurrentTenant = nil
	property.ActiveRental = nil
	property.Residents = nil
	property.Occupancy = OccupancyVacant

	if err := property.Validate(); err != nil {
		return EvictOutcome{Result: command.Fail(err.Error())}, nil
	}
	if err := s.store.PersistRental(ctx, property); err != nil {
		if errors.Is(err, ErrConflict) {
			return EvictOutcome{Result: command.Fail("the rental was modified concurrently; retry the eviction")}, nil
		}
		return EvictOutcome{}, err
	}

	s.publish(ctx, event.Event{
		Type:       event.TypePropertyEvicted,
		PropertyID: string(property.Definition.ID),
		Actor:      tenant.String(),
		Timestamp:  s.clock().UTC(),
	})
	return EvictOutcome{Result: command.OK(), EvictedTenant: &tenant}, nil
}

// requiresForeclosure reports whether ending this rental must seize the
// tenant's holdings: the property names a settlement coinhouse and the
// rental draws on it.
func (s *Service) requiresForeclosure(property PropertySnapshot) bool {
	if strings.TrimSpace(string(property.Definition.SettlementCoinhouseTag)) == "" {
		return false
	}
	return property.ActiveRental != nil && property.ActiveRental.Method == PaymentCoinhouse
}

func (s *Service) forecloseHoldings(ctx context.Context, property PropertySnapshot, tenant persona.ID) error {
	if s.regions == nil || s.objects == nil || s.vault == nil {
		return errors.New("foreclosure collaborators are not configured")
	}

	area := property.Definition.InternalName
	region, ok := s.regions.RegionForArea(area)
	if !ok {
		return fmt.Errorf("no region covers area %q", area)
	}
	objects, err := s.objects.ObjectsForArea(ctx, area)
	if err != nil {
		return fmt.Errorf("list objects for area %q: %w", area, err)
	}
	if len(objects) == 0 {
		return nil
	}

	seizedAt := s.clock().UTC()
	items := make([]ForeclosureItem, 0, len(objects))
	for _, object := range objects {
		items = append(items, ForeclosureItem{
			PropertyID:     property.Definition.ID,
			Region:         region.Tag,
			ObjectID:       object.ID,
			ObjectName:     object.Name,
			Tenant:         tenant,
			SerializedJSON: object.SerializedJSON,
			SeizedAt:       seizedAt,
		})
	}
	if err := s.vault.StoreItems(ctx, items); err != nil {
		return fmt.Errorf("store foreclosure items: %w", err)
	}
	return nil
}

// publish fires an audit event after a successful persist. Publication is
// best effort: a bus failure never rolls back the mutation.
func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.logf("rental: publish %s event: %v", evt.Type, err)
	}
}
