package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	platformerrors "github.com/ravenmoor/ravenmoor/internal/platform/errors"
	"github.com/ravenmoor/ravenmoor/internal/platform/id"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/coinhouse"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/money"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/rental"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// accountStoreAdapter bridges the domain account port to storage records.
type accountStoreAdapter struct {
	records storage.AccountStore
}

func (a *accountStoreAdapter) GetAccount(ctx context.Context, accountID uuid.UUID) (coinhouse.Account, error) {
	record, err := a.records.GetAccount(ctx, accountID.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return coinhouse.Account{}, coinhouse.ErrNotFound
		}
		return coinhouse.Account{}, err
	}
	return accountFromRecord(record)
}

func (a *accountStoreAdapter) SaveAccount(ctx context.Context, account coinhouse.Account) error {
	record := recordFromAccount(account)
	if err := a.records.SaveAccount(ctx, record); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return coinhouse.ErrConflict
		}
		return err
	}
	return nil
}

func accountFromRecord(record storage.AccountRecord) (coinhouse.Account, error) {
	accountID, err := uuid.Parse(record.ID)
	if err != nil {
		return coinhouse.Account{}, fmt.Errorf("account id %q: %w", record.ID, err)
	}
	debit, err := money.NewGold(record.Debit)
	if err != nil {
		return coinhouse.Account{}, fmt.Errorf("account %s debit: %w", record.ID, err)
	}
	credit, err := money.NewGold(record.Credit)
	if err != nil {
		return coinhouse.Account{}, fmt.Errorf("account %s credit: %w", record.ID, err)
	}

	account := coinhouse.Account{
		ID:             accountID,
		Debit:          debit,
		Credit:         credit,
		Coinhouse:      coinhouse.NewTag(record.CoinhouseTag),
		OpenedAt:       record.OpenedAt,
		LastAccessedAt: record.LastAccessedAt,
		Version:        record.Version,
	}
	for _, holderRecord := range record.Holders {
		holder, err := holderFromRecord(holderRecord)
		if err != nil {
			return coinhouse.Account{}, fmt.Errorf("account %s: %w", record.ID, err)
		}
		account.Holders = append(account.Holders, holder)
	}
	return account, nil
}

func holderFromRecord(record storage.HolderRecord) (coinhouse.Holder, error) {
	holderID, err := uuid.Parse(record.ID)
	if err != nil {
		return coinhouse.Holder{}, fmt.Errorf("holder id %q: %w", record.ID, err)
	}
	holderPersona, err := persona.Parse(record.Persona)
	if err != nil {
		return coinhouse.Holder{}, platformerrors.Wrap(
			platformerrors.CodePersonaUnresolvable,
			fmt.Sprintf("holder %s persona %q", record.ID, record.Persona),
			err,
		)
	}
	role, ok := coinhouse.ParseHolderRole(record.Role)
	if !ok {
		return coinhouse.Holder{}, fmt.Errorf("holder %s has unknown role %q", record.ID, record.Role)
	}
	return coinhouse.Holder{
		ID:          holderID,
		Persona:     holderPersona,
		Role:        role,
		DisplayName: record.DisplayName,
	}, nil
}

func recordFromAccount(account coinhouse.Account) storage.AccountRecord {
	record := storage.AccountRecord{
		ID:             account.ID.String(),
		CoinhouseTag:   string(account.Coinhouse),
		Debit:          account.Debit.Int64(),
		Credit:         account.Credit.Int64(),
		OpenedAt:       account.OpenedAt,
		LastAccessedAt: account.LastAccessedAt,
		Version:        account.Version,
	}
	for _, holder := range account.Holders {
		record.Holders = append(record.Holders, storage.HolderRecord{
			ID:          holder.ID.String(),
			AccountID:   record.ID,
			Persona:     holder.Persona.String(),
			Role:        holder.Role.String(),
			DisplayName: holder.DisplayName,
		})
	}
	return record
}

// rentalStoreAdapter bridges the domain rental port to storage records.
type rentalStoreAdapter struct {
	records storage.RentalStore
}

func (a *rentalStoreAdapter) PersistRental(ctx context.Context, snapshot rental.PropertySnapshot) error {
	if err := a.records.SaveRental(ctx, recordFromSnapshot(snapshot)); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return rental.ErrConflict
		}
		return err
	}
	return nil
}

func recordFromSnapshot(snapshot rental.PropertySnapshot) storage.RentalRecord {
	record := storage.RentalRecord{
		PropertyID: string(snapshot.Definition.ID),
		Occupancy:  snapshot.Occupancy.String(),
		Version:    snapshot.Version,
	}
	if snapshot.CurrentTenant != nil {
		record.CurrentTenant = snapshot.CurrentTenant.String()
	}
	if snapshot.CurrentOwner != nil {
		record.CurrentOwner = snapshot.CurrentOwner.String()
	}
	for _, resident := range snapshot.Residents {
		record.Residents = append(record.Residents, resident.String())
	}
	if agreement := snapshot.ActiveRental; agreement != nil {
		record.TenantPersona = agreement.Tenant.String()
		record.StartDate = agreement.StartDate
		record.NextPaymentDue = agreement.NextPaymentDue
		record.MonthlyRent = agreement.MonthlyRent.Int64()
		record.PaymentMethod = agreement.Method.String()
		record.LastOccupantSeen = agreement.LastOccupantSeen
	}
	return record
}

// snapshotFromRecord rehydrates a property snapshot from its catalog
// definition and its stored rental state.
func snapshotFromRecord(definition rental.Definition, record storage.RentalRecord) (rental.PropertySnapshot, error) {
	occupancy, ok := rental.ParseOccupancyStatus(record.Occupancy)
	if !ok {
		return rental.PropertySnapshot{}, platformerrors.New(
			platformerrors.CodeRentalInvalidState,
			fmt.Sprintf("property %s has unknown occupancy %q", record.PropertyID, record.Occupancy),
		)
	}
	snapshot := rental.PropertySnapshot{
		Definition: definition,
		Occupancy:  occupancy,
		Version:    record.Version,
	}
	if record.CurrentTenant != "" {
		tenant, err := persona.Parse(record.CurrentTenant)
		if err != nil {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s tenant: %w", record.PropertyID, err)
		}
		snapshot.CurrentTenant = &tenant
	}
	if record.CurrentOwner != "" {
		owner, err := persona.Parse(record.CurrentOwner)
		if err != nil {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s owner: %w", record.PropertyID, err)
		}
		snapshot.CurrentOwner = &owner
	}
	for _, value := range record.Residents {
		resident, err := persona.Parse(value)
		if err != nil {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s resident: %w", record.PropertyID, err)
		}
		snapshot.Residents = append(snapshot.Residents, resident)
	}
	if record.TenantPersona != "" {
		tenant, err := persona.Parse(record.TenantPersona)
		if err != nil {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s agreement tenant: %w", record.PropertyID, err)
		}
		rent, err := money.NewGold(record.MonthlyRent)
		if err != nil {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s agreement rent: %w", record.PropertyID, err)
		}
		method, ok := rental.ParsePaymentMethod(record.PaymentMethod)
		if !ok {
			return rental.PropertySnapshot{}, fmt.Errorf("property %s has unknown payment method %q", record.PropertyID, record.PaymentMethod)
		}
		snapshot.ActiveRental = &rental.AgreementSnapshot{
			Tenant:           tenant,
			StartDate:        record.StartDate,
			NextPaymentDue:   record.NextPaymentDue,
			MonthlyRent:      rent,
			Method:           method,
			LastOccupantSeen: record.LastOccupantSeen,
		}
	}
	if err := snapshot.Validate(); err != nil {
		return rental.PropertySnapshot{}, platformerrors.Wrap(
			platformerrors.CodeRentalInvalidState,
			fmt.Sprintf("property %s", record.PropertyID),
			err,
		)
	}
	return snapshot, nil
}

// personaDirectory answers existence checks from the persona store.
type personaDirectory struct {
	records storage.PersonaStore
}

func (d *personaDirectory) Exists(ctx context.Context, identity persona.ID) (bool, error) {
	_, err := d.records.GetPersona(ctx, identity.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// foreclosureVault persists seized items through the foreclosure store.
type foreclosureVault struct {
	records storage.ForeclosureStore
	newID   func() (string, error)
}

func (v *foreclosureVault) StoreItems(ctx context.Context, items []rental.ForeclosureItem) error {
	records := make([]storage.ForeclosureItemRecord, 0, len(items))
	for _, item := range items {
		itemID, err := v.newID()
		if err != nil {
			return fmt.Errorf("generate foreclosure item id: %w", err)
		}
		records = append(records, storage.ForeclosureItemRecord{
			ID:             itemID,
			PropertyID:     string(item.PropertyID),
			Region:         item.Region,
			ObjectID:       item.ObjectID,
			ObjectName:     item.ObjectName,
			Tenant:         item.Tenant.String(),
			SerializedJSON: item.SerializedJSON,
			SeizedAt:       item.SeizedAt,
		})
	}
	return v.records.PutForeclosureItems(ctx, records)
}

// objectSource lists serialized in-world objects from storage.
type objectSource struct {
	records storage.PersistentObjectStore
}

func (s *objectSource) ObjectsForArea(ctx context.Context, area string) ([]rental.PersistentObject, error) {
	records, err := s.records.ListObjectsByArea(ctx, area)
	if err != nil {
		return nil, err
	}
	objects := make([]rental.PersistentObject, 0, len(records))
	for _, record := range records {
		objects = append(objects, rental.PersistentObject{
			ID:             record.ID,
			Area:           record.Area,
			Name:           record.Name,
			SerializedJSON: record.SerializedJSON,
		})
	}
	return objects, nil
}

func newForeclosureVault(records storage.ForeclosureStore) *foreclosureVault {
	return &foreclosureVault{records: records, newID: id.NewID}
}
