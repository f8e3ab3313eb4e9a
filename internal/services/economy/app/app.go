// Package app wires the economy service: storage, catalog, domain
// services, audit journal, and the arrears worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	platformerrors "github.com/ravenmoor/ravenmoor/internal/platform/errors"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/catalog"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/command"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/coinhouse"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/rental"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/observability/audit"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage/sqlite"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/worker"
)

// Config controls economy app wiring.
type Config struct {
	StoragePath   string
	CatalogPath   string
	SweepInterval time.Duration
}

// App is the assembled economy service.
type App struct {
	Accounts *coinhouse.Service
	Rentals  *rental.Service
	Sweeper  *worker.ArrearsSweeper
	Catalog  *catalog.Catalog
	Journal  storage.AuditEventStore

	store   *sqlite.Store
	rentals storage.RentalStore
}

// New opens storage, loads the catalog, and wires the domain services.
func New(cfg Config) (*App, error) {
	if strings.TrimSpace(cfg.StoragePath) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(cfg.CatalogPath) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := sqlite.Open(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open economy store: %w", err)
	}

	worldCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		_ = store.Close()
		return nil, platformerrors.Wrap(platformerrors.CodeCatalogInvalid, "load catalog", err)
	}

	bus := audit.NewEmitter(store)
	directory := &personaDirectory{records: store}

	accounts := coinhouse.NewService(
		&accountStoreAdapter{records: store},
		directory,
		bus,
		nil,
	)
	rentals := rental.NewService(
		&rentalStoreAdapter{records: store},
		worldCatalog,
		&objectSource{records: store},
		newForeclosureVault(store),
		bus,
		nil,
	)
	sweeper := worker.NewArrearsSweeper(store, bus, cfg.SweepInterval)

	return &App{
		Accounts: accounts,
		Rentals:  rentals,
		Sweeper:  sweeper,
		Catalog:  worldCatalog,
		Journal:  store,
		store:    store,
		rentals:  store,
	}, nil
}

// Run blocks running the background jobs until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := a.Sweeper.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases storage resources.
func (a *App) Close() {
	if a == nil || a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		log.Printf("close economy store: %v", err)
	}
}

// Property rehydrates one property snapshot from the catalog definition
// and its stored rental state. A property with no stored state yet is
// returned vacant with a zero version.
func (a *App) Property(ctx context.Context, propertyID rental.PropertyID) (rental.PropertySnapshot, error) {
	definition, ok := a.Catalog.Definition(propertyID)
	if !ok {
		return rental.PropertySnapshot{}, platformerrors.New(
			platformerrors.CodeNotFound,
			fmt.Sprintf("property %s is not in the catalog", propertyID),
		)
	}
	record, err := a.rentals.GetRental(ctx, string(propertyID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return rental.PropertySnapshot{
				Definition: definition,
				Occupancy:  rental.OccupancyVacant,
			}, nil
		}
		return rental.PropertySnapshot{}, fmt.Errorf("load rental state: %w", err)
	}
	return snapshotFromRecord(definition, record)
}

// PayRent loads the property's current snapshot and applies one rent
// payment.
func (a *App) PayRent(ctx context.Context, propertyID rental.PropertyID, tenant persona.ID, method rental.PaymentMethod) (command.Result, error) {
	property, err := a.Property(ctx, propertyID)
	if err != nil {
		return command.Result{}, err
	}
	return a.Rentals.PayRent(ctx, rental.PayRentInput{
		Property: property,
		Tenant:   tenant,
		Method:   method,
	})
}

// Evict loads the property's current snapshot and terminates its rental.
func (a *App) Evict(ctx context.Context, propertyID rental.PropertyID) (rental.EvictOutcome, error) {
	property, err := a.Property(ctx, propertyID)
	if err != nil {
		return rental.EvictOutcome{}, err
	}
	return a.Rentals.Evict(ctx, rental.EvictInput{Property: property})
}

// RemoveHolder removes a holder from a coinhouse account.
func (a *App) RemoveHolder(ctx context.Context, in coinhouse.RemoveHolderInput) (command.Result, error) {
	return a.Accounts.RemoveHolder(ctx, in)
}

// UpdateHolderRole changes a holder's permission role.
func (a *App) UpdateHolderRole(ctx context.Context, in coinhouse.UpdateHolderRoleInput) (command.Result, error) {
	return a.Accounts.UpdateHolderRole(ctx, in)
}

// RegisterPersona records a persona in the directory so it can act in
// economy commands.
func (a *App) RegisterPersona(ctx context.Context, identity persona.ID, displayName string) error {
	if identity.IsZero() {
		return fmt.Errorf("persona is required")
	}
	return a.store.PutPersona(ctx, storage.PersonaRecord{
		ID:          identity.String(),
		Kind:        identity.Kind().String(),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	})
}

// SeedRental writes the initial rented state for a property. It backs
// catalog bootstrap and tests; live mutations go through the command
// handlers.
func (a *App) SeedRental(ctx context.Context, snapshot rental.PropertySnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	return a.store.SaveRental(ctx, recordFromSnapshot(snapshot))
}

// SeedAccount writes a coinhouse account directly. It backs bootstrap and
// tests; holder mutations go through the command handlers.
func (a *App) SeedAccount(ctx context.Context, account coinhouse.Account) error {
	if account.ID == uuid.Nil {
		return fmt.Errorf("account id is required")
	}
	if err := account.Validate(); err != nil {
		return err
	}
	return a.store.SaveAccount(ctx, recordFromAccount(account))
}
