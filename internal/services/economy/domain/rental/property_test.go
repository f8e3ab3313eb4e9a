package rental

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/coinhouse"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/money"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
)

func validDefinition(t *testing.T) Definition {
	t.Helper()
	rent, err := money.NewGold(250)
	if err != nil {
		t.Fatalf("new gold: %v", err)
	}
	return Definition{
		ID:                     PropertyID("cordor-shop-1"),
		InternalName:           "cordor_market",
		Settlement:             NewSettlementTag("Cordor"),
		Category:               "shop",
		MonthlyRent:            rent,
		AllowsCoinhouseRental:  true,
		AllowsDirectRental:     true,
		SettlementCoinhouseTag: coinhouse.NewTag("cordor-exchange"),
	}
}

func TestDefinitionValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Definition)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Definition) {}},
		{name: "missing id", mutate: func(d *Definition) { d.ID = "" }, wantErr: true},
		{name: "missing internal name", mutate: func(d *Definition) { d.InternalName = " " }, wantErr: true},
		{
			name: "no rental channel",
			mutate: func(d *Definition) {
				d.AllowsCoinhouseRental = false
				d.AllowsDirectRental = false
			},
			wantErr: true,
		},
		{
			name: "coinhouse rental without coinhouse tag",
			mutate: func(d *Definition) {
				d.SettlementCoinhouseTag = ""
			},
			wantErr: true,
		},
		{
			name: "direct only needs no coinhouse tag",
			mutate: func(d *Definition) {
				d.AllowsCoinhouseRental = false
				d.SettlementCoinhouseTag = ""
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			def := validDefinition(t)
			tc.mutate(&def)
			err := def.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestPropertySnapshotOccupancyInvariant(t *testing.T) {
	t.Parallel()

	tenant := persona.ForCharacter(uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	agreement := &AgreementSnapshot{Tenant: tenant, NextPaymentDue: date(2026, 4, 1)}

	cases := []struct {
		name     string
		snapshot PropertySnapshot
		wantErr  bool
	}{
		{
			name:     "vacant and empty",
			snapshot: PropertySnapshot{Occupancy: OccupancyVacant},
		},
		{
			name: "rented with tenant and agreement",
			snapshot: PropertySnapshot{
				Occupancy:     OccupancyRented,
				CurrentTenant: &tenant,
				ActiveRental:  agreement,
			},
		},
		{
			name: "rented without agreement",
			snapshot: PropertySnapshot{
				Occupancy:     OccupancyRented,
				CurrentTenant: &tenant,
			},
			wantErr: true,
		},
		{
			name: "rented without tenant",
			snapshot: PropertySnapshot{
				Occupancy:    OccupancyRented,
				ActiveRental: agreement,
			},
			wantErr: true,
		},
		{
			name: "vacant with lingering agreement",
			snapshot: PropertySnapshot{
				Occupancy:    OccupancyVacant,
				ActiveRental: agreement,
			},
			wantErr: true,
		},
		{
			name: "vacant with lingering tenant",
			snapshot: PropertySnapshot{
				Occupancy:     OccupancyVacant,
				CurrentTenant: &tenant,
			},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.snapshot.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrOccupancyMismatch) {
					t.Fatalf("expected occupancy mismatch, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseOccupancyStatus(t *testing.T) {
	t.Parallel()

	if got, ok := ParseOccupancyStatus("Rented"); !ok || got != OccupancyRented {
		t.Fatalf("ParseOccupancyStatus(Rented) = %v, %v", got, ok)
	}
	if got, ok := ParseOccupancyStatus(" vacant "); !ok || got != OccupancyVacant {
		t.Fatalf("ParseOccupancyStatus(vacant) = %v, %v", got, ok)
	}
	if _, ok := ParseOccupancyStatus("condemned"); ok {
		t.Fatal("expected unknown label to be rejected")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	if got, ok := ParsePaymentMethod("coinhouse"); !ok || got != PaymentCoinhouse {
		t.Fatalf("ParsePaymentMethod(coinhouse) = %v, %v", got, ok)
	}
	if got, ok := ParsePaymentMethod("DIRECT"); !ok || got != PaymentDirect {
		t.Fatalf("ParsePaymentMethod(DIRECT) = %v, %v", got, ok)
	}
	if _, ok := ParsePaymentMethod("barter"); ok {
		t.Fatal("expected unknown label to be rejected")
	}
}
