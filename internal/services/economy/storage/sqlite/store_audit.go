package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// AppendEvent inserts one journal entry.
func (s *Store) AppendEvent(ctx context.Context, record storage.AuditEventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(record.Type) == "" {
		return fmt.Errorf("event type is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO audit_events (
		   id, type, account_id, holder_id, actor, old_role, new_role,
		   property_id, occurred_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Type,
		record.AccountID,
		record.HolderID,
		record.Actor,
		record.OldRole,
		record.NewRole,
		record.PropertyID,
		toMillis(record.OccurredAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListRecentEvents returns up to limit journal entries, newest first.
func (s *Store) ListRecentEvents(ctx context.Context, limit int) ([]storage.AuditEventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, type, account_id, holder_id, actor, old_role, new_role,
		        property_id, occurred_at
		   FROM audit_events
		  ORDER BY occurred_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var records []storage.AuditEventRecord
	for rows.Next() {
		var record storage.AuditEventRecord
		var occurredAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.AccountID,
			&record.HolderID,
			&record.Actor,
			&record.OldRole,
			&record.NewRole,
			&record.PropertyID,
			&occurredAt,
		); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		record.OccurredAt = fromMillis(occurredAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return records, nil
}
