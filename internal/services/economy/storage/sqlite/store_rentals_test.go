package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

func sampleRental(due time.Time) storage.RentalRecord {
	return storage.RentalRecord{
		PropertyID:     "cordor-dock-house-3",
		Occupancy:      "rented",
		CurrentTenant:  "Character:1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		TenantPersona:  "Character:1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		StartDate:      due.AddDate(0, -2, 0),
		NextPaymentDue: due,
		MonthlyRent:    100,
		PaymentMethod:  "coinhouse",
		Residents: []string{
			"Character:1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		},
	}
}

func TestSaveGetRentalRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	input := sampleRental(due)

	if err := store.SaveRental(context.Background(), input); err != nil {
		t.Fatalf("save rental: %v", err)
	}

	got, err := store.GetRental(context.Background(), input.PropertyID)
	if err != nil {
		t.Fatalf("get rental: %v", err)
	}
	if got.Occupancy != "rented" {
		t.Fatalf("occupancy = %q, want rented", got.Occupancy)
	}
	if !got.NextPaymentDue.Equal(due) {
		t.Fatalf("next_payment_due = %v, want %v", got.NextPaymentDue, due)
	}
	if got.MonthlyRent != 100 {
		t.Fatalf("monthly_rent = %d, want 100", got.MonthlyRent)
	}
	if len(got.Residents) != 1 {
		t.Fatalf("residents = %d, want 1", len(got.Residents))
	}
	if got.LastOccupantSeen != nil {
		t.Fatalf("last_occupant_seen = %v, want nil", got.LastOccupantSeen)
	}
	if got.Version != 1 {
		t.Fatalf("version = %d, want 1", got.Version)
	}
}

func TestGetRentalReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetRental(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSaveRentalDetectsStaleVersion(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if err := store.SaveRental(context.Background(), sampleRental(due)); err != nil {
		t.Fatalf("save rental: %v", err)
	}

	first, err := store.GetRental(context.Background(), "cordor-dock-house-3")
	if err != nil {
		t.Fatalf("get rental: %v", err)
	}
	second := first

	first.NextPaymentDue = due.AddDate(0, 1, 0)
	if err := store.SaveRental(context.Background(), first); err != nil {
		t.Fatalf("save first copy: %v", err)
	}
	err = store.SaveRental(context.Background(), second)
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("stale save error = %v, want %v", err, storage.ErrConflict)
	}
}

func TestSaveRentalClearsStateOnVacancy(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if err := store.SaveRental(context.Background(), sampleRental(due)); err != nil {
		t.Fatalf("save rental: %v", err)
	}

	current, err := store.GetRental(context.Background(), "cordor-dock-house-3")
	if err != nil {
		t.Fatalf("get rental: %v", err)
	}
	seen := time.Date(2026, time.March, 28, 9, 0, 0, 0, time.UTC)
	current.Occupancy = "vacant"
	current.CurrentTenant = ""
	current.TenantPersona = ""
	current.Residents = nil
	current.LastOccupantSeen = &seen
	if err := store.SaveRental(context.Background(), current); err != nil {
		t.Fatalf("save vacancy: %v", err)
	}

	got, err := store.GetRental(context.Background(), "cordor-dock-house-3")
	if err != nil {
		t.Fatalf("get vacant rental: %v", err)
	}
	if got.Occupancy != "vacant" || got.CurrentTenant != "" {
		t.Fatalf("expected vacant record, got %+v", got)
	}
	if len(got.Residents) != 0 {
		t.Fatalf("residents = %d, want 0", len(got.Residents))
	}
	if got.LastOccupantSeen == nil || !got.LastOccupantSeen.Equal(seen) {
		t.Fatalf("last_occupant_seen = %v, want %v", got.LastOccupantSeen, seen)
	}
}

func TestListRentedDueBefore(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	cutoff := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	overdue := sampleRental(cutoff.AddDate(0, -1, 0))
	overdue.PropertyID = "overdue-house"
	current := sampleRental(cutoff.AddDate(0, 1, 0))
	current.PropertyID = "current-house"
	vacant := sampleRental(cutoff.AddDate(0, -2, 0))
	vacant.PropertyID = "vacant-house"
	vacant.Occupancy = "vacant"
	vacant.CurrentTenant = ""
	vacant.TenantPersona = ""
	vacant.Residents = nil

	for _, record := range []storage.RentalRecord{overdue, current, vacant} {
		if err := store.SaveRental(context.Background(), record); err != nil {
			t.Fatalf("save rental %s: %v", record.PropertyID, err)
		}
	}

	got, err := store.ListRentedDueBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("list rented due before: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].PropertyID != "overdue-house" {
		t.Fatalf("property = %q, want overdue-house", got[0].PropertyID)
	}
}
