package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/storage"
)

// GetAccount returns one account with its holder rows.
func (s *Store) GetAccount(ctx context.Context, id string) (storage.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AccountRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AccountRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.AccountRecord{}, fmt.Errorf("account id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, coinhouse_tag, debit, credit, opened_at, last_accessed_at, version
		   FROM coinhouse_accounts
		  WHERE id = ?`,
		id,
	)

	var record storage.AccountRecord
	var openedAt int64
	var lastAccessedAt int64
	err := row.Scan(
		&record.ID,
		&record.CoinhouseTag,
		&record.Debit,
		&record.Credit,
		&openedAt,
		&lastAccessedAt,
		&record.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AccountRecord{}, storage.ErrNotFound
		}
		return storage.AccountRecord{}, fmt.Errorf("get account: %w", err)
	}
	record.OpenedAt = fromMillis(openedAt)
	record.LastAccessedAt = fromMillis(lastAccessedAt)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, account_id, persona, role, display_name
		   FROM account_holders
		  WHERE account_id = ?
		  ORDER BY id ASC`,
		id,
	)
	if err != nil {
		return storage.AccountRecord{}, fmt.Errorf("list account holders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var holder storage.HolderRecord
		if err := rows.Scan(
			&holder.ID,
			&holder.AccountID,
			&holder.Persona,
			&holder.Role,
			&holder.DisplayName,
		); err != nil {
			return storage.AccountRecord{}, fmt.Errorf("list account holders: %w", err)
		}
		record.Holders = append(record.Holders, holder)
	}
	if err := rows.Err(); err != nil {
		return storage.AccountRecord{}, fmt.Errorf("list account holders: %w", err)
	}
	return record, nil
}

// SaveAccount writes an account and replaces its holder rows inside one
// transaction. The account row is guarded by an optimistic version check;
// a stale version returns storage.ErrConflict.
func (s *Store) SaveAccount(ctx context.Context, record storage.AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(record.CoinhouseTag) == "" {
		return fmt.Errorf("coinhouse tag is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save account: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if record.Version == 0 {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO coinhouse_accounts (
			   id, coinhouse_tag, debit, credit, opened_at, last_accessed_at, version
			 ) VALUES (?, ?, ?, ?, ?, ?, 1)`,
			id,
			record.CoinhouseTag,
			record.Debit,
			record.Credit,
			toMillis(record.OpenedAt),
			toMillis(record.LastAccessedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("insert account: %w", err)
		}
	} else {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE coinhouse_accounts
			    SET coinhouse_tag = ?, debit = ?, credit = ?,
			        last_accessed_at = ?, version = version + 1
			  WHERE id = ? AND version = ?`,
			record.CoinhouseTag,
			record.Debit,
			record.Credit,
			toMillis(record.LastAccessedAt),
			id,
			record.Version,
		)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		if affected == 0 {
			return storage.ErrConflict
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM account_holders WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("clear account holders: %w", err)
	}
	for _, holder := range record.Holders {
		if strings.TrimSpace(holder.ID) == "" {
			return fmt.Errorf("holder id is required")
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO account_holders (id, account_id, persona, role, display_name)
			 VALUES (?, ?, ?, ?, ?)`,
			holder.ID,
			id,
			holder.Persona,
			holder.Role,
			holder.DisplayName,
		); err != nil {
			return fmt.Errorf("insert account holder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save account: %w", err)
	}
	return nil
}
