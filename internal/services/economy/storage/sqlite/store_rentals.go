package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// GetRental returns one property's rental state with its resident rows.
func (s *Store) GetRental(ctx context.Context, propertyID string) (storage.RentalRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.RentalRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RentalRecord{}, fmt.Errorf("storage is not configured")
	}
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return storage.RentalRecord{}, fmt.Errorf("property id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT property_id, occupancy, current_tenant, current_owner,
		        tenant_persona, start_date, next_payment_due, monthly_rent,
		        payment_method, last_occupant_seen, version
		   FROM property_rentals
		  WHERE property_id = ?`,
		propertyID,
	)

	record, err := scanRental(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RentalRecord{}, storage.ErrNotFound
		}
		return storage.RentalRecord{}, fmt.Errorf("get rental: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT persona FROM rental_residents WHERE property_id = ? ORDER BY persona ASC`,
		propertyID,
	)
	if err != nil {
		return storage.RentalRecord{}, fmt.Errorf("list rental residents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var persona string
		if err := rows.Scan(&persona); err != nil {
			return storage.RentalRecord{}, fmt.Errorf("list rental residents: %w", err)
		}
		record.Residents = append(record.Residents, persona)
	}
	if err := rows.Err(); err != nil {
		return storage.RentalRecord{}, fmt.Errorf("list rental residents: %w", err)
	}
	return record, nil
}

// SaveRental writes a rental record and replaces its resident rows inside
// one transaction, guarded by an optimistic version check.
func (s *Store) SaveRental(ctx context.Context, record storage.RentalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	propertyID := strings.TrimSpace(record.PropertyID)
	if propertyID == "" {
		return fmt.Errorf("property id is required")
	}
	if strings.TrimSpace(record.Occupancy) == "" {
		return fmt.Errorf("occupancy is required")
	}

	var lastSeen any
	if record.LastOccupantSeen != nil {
		lastSeen = toMillis(*record.LastOccupantSeen)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save rental: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if record.Version == 0 {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO property_rentals (
			   property_id, occupancy, current_tenant, current_owner,
			   tenant_persona, start_date, next_payment_due, monthly_rent,
			   payment_method, last_occupant_seen, version
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			propertyID,
			record.Occupancy,
			record.CurrentTenant,
			record.CurrentOwner,
			record.TenantPersona,
			toMillis(record.StartDate),
			toMillis(record.NextPaymentDue),
			record.MonthlyRent,
			record.PaymentMethod,
			lastSeen,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("insert rental: %w", err)
		}
	} else {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE property_rentals
			    SET occupancy = ?, current_tenant = ?, current_owner = ?,
			        tenant_persona = ?, start_date = ?, next_payment_due = ?,
			        monthly_rent = ?, payment_method = ?, last_occupant_seen = ?,
			        version = version + 1
			  WHERE property_id = ? AND version = ?`,
			record.Occupancy,
			record.CurrentTenant,
			record.CurrentOwner,
			record.TenantPersona,
			toMillis(record.StartDate),
			toMillis(record.NextPaymentDue),
			record.MonthlyRent,
			record.PaymentMethod,
			lastSeen,
			propertyID,
			record.Version,
		)
		if err != nil {
			return fmt.Errorf("update rental: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update rental: %w", err)
		}
		if affected == 0 {
			return storage.ErrConflict
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rental_residents WHERE property_id = ?`, propertyID); err != nil {
		return fmt.Errorf("clear rental residents: %w", err)
	}
	for _, persona := range record.Residents {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO rental_residents (property_id, persona) VALUES (?, ?)`,
			propertyID,
			persona,
		); err != nil {
			return fmt.Errorf("insert rental resident: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save rental: %w", err)
	}
	return nil
}

// ListRentedDueBefore returns rented records whose next payment due date
// falls strictly before the cutoff. Resident rows are not loaded; arrears
// sweeps only need the agreement schedule.
func (s *Store) ListRentedDueBefore(ctx context.Context, cutoff time.Time) ([]storage.RentalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT property_id, occupancy, current_tenant, current_owner,
		        tenant_persona, start_date, next_payment_due, monthly_rent,
		        payment_method, last_occupant_seen, version
		   FROM property_rentals
		  WHERE occupancy = 'rented' AND next_payment_due < ?
		  ORDER BY next_payment_due ASC`,
		toMillis(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("list rented due before: %w", err)
	}
	defer rows.Close()

	var records []storage.RentalRecord
	for rows.Next() {
		record, err := scanRental(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list rented due before: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rented due before: %w", err)
	}
	return records, nil
}

func scanRental(scan func(dest ...any) error) (storage.RentalRecord, error) {
	var record storage.RentalRecord
	var startDate int64
	var nextDue int64
	var lastSeen sql.NullInt64
	err := scan(
		&record.PropertyID,
		&record.Occupancy,
		&record.CurrentTenant,
		&record.CurrentOwner,
		&record.TenantPersona,
		&startDate,
		&nextDue,
		&record.MonthlyRent,
		&record.PaymentMethod,
		&lastSeen,
		&record.Version,
	)
	if err != nil {
		return storage.RentalRecord{}, err
	}
	record.StartDate = fromMillis(startDate)
	record.NextPaymentDue = fromMillis(nextDue)
	if lastSeen.Valid {
		seen := fromMillis(lastSeen.Int64)
		record.LastOccupantSeen = &seen
	}
	return record, nil
}
