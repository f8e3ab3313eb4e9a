package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// PutForeclosureItems inserts one batch of seized items atomically.
func (s *Store) PutForeclosureItems(ctx context.Context, records []storage.ForeclosureItemRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put foreclosure items: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			return fmt.Errorf("foreclosure item id is required")
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO foreclosure_items (
			   id, property_id, region, object_id, object_name, tenant,
			   serialized_json, seized_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			record.PropertyID,
			record.Region,
			record.ObjectID,
			record.ObjectName,
			record.Tenant,
			record.SerializedJSON,
			toMillis(record.SeizedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("insert foreclosure item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put foreclosure items: %w", err)
	}
	return nil
}

// ListForeclosureItemsForTenant returns a tenant's seized items, oldest first.
func (s *Store) ListForeclosureItemsForTenant(ctx context.Context, tenant string) ([]storage.ForeclosureItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		return nil, fmt.Errorf("tenant is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, property_id, region, object_id, object_name, tenant,
		        serialized_json, seized_at
		   FROM foreclosure_items
		  WHERE tenant = ?
		  ORDER BY seized_at ASC, id ASC`,
		tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("list foreclosure items: %w", err)
	}
	defer rows.Close()

	var records []storage.ForeclosureItemRecord
	for rows.Next() {
		var record storage.ForeclosureItemRecord
		var seizedAt int64
		if err := rows.Scan(
			&record.ID,
			&record.PropertyID,
			&record.Region,
			&record.ObjectID,
			&record.ObjectName,
			&record.Tenant,
			&record.SerializedJSON,
			&seizedAt,
		); err != nil {
			return nil, fmt.Errorf("list foreclosure items: %w", err)
		}
		record.SeizedAt = fromMillis(seizedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list foreclosure items: %w", err)
	}
	return records, nil
}

// PutObject upserts one serialized in-world object.
func (s *Store) PutObject(ctx context.Context, record storage.PersistentObjectRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("object id is required")
	}
	if strings.TrimSpace(record.Area) == "" {
		return fmt.Errorf("object area is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO persistent_objects (id, area, name, serialized_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   area = excluded.area,
		   name = excluded.name,
		   serialized_json = excluded.serialized_json,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.Area,
		record.Name,
		record.SerializedJSON,
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put persistent object: %w", err)
	}
	return nil
}

// ListObjectsByArea returns the serialized objects placed in an area.
func (s *Store) ListObjectsByArea(ctx context.Context, area string) ([]storage.PersistentObjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, fmt.Errorf("area is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, area, name, serialized_json, updated_at
		   FROM persistent_objects
		  WHERE area = ?
		  ORDER BY id ASC`,
		area,
	)
	if err != nil {
		return nil, fmt.Errorf("list persistent objects: %w", err)
	}
	defer rows.Close()

	var records []storage.PersistentObjectRecord
	for rows.Next() {
		var record storage.PersistentObjectRecord
		var updatedAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Area,
			&record.Name,
			&record.SerializedJSON,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("list persistent objects: %w", err)
		}
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persistent objects: %w", err)
	}
	return records, nil
}

// PutPersona upserts one persona directory row.
func (s *Store) PutPersona(ctx context.Context, record storage.PersonaRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("persona id is required")
	}
	if strings.TrimSpace(record.Kind) == "" {
		return fmt.Errorf("persona kind is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO personas (id, kind, display_name, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind = excluded.kind,
		   display_name = excluded.display_name`,
		record.ID,
		record.Kind,
		record.DisplayName,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put persona: %w", err)
	}
	return nil
}

// GetPersona returns one persona directory row.
func (s *Store) GetPersona(ctx context.Context, id string) (storage.PersonaRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PersonaRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PersonaRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.PersonaRecord{}, fmt.Errorf("persona id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, kind, display_name, created_at FROM personas WHERE id = ?`,
		id,
	)

	var record storage.PersonaRecord
	var createdAt int64
	err := row.Scan(&record.ID, &record.Kind, &record.DisplayName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PersonaRecord{}, storage.ErrNotFound
		}
		return storage.PersonaRecord{}, fmt.Errorf("get persona: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}
