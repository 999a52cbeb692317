// relations.go implements relational tag memberships for entries.
//
// Separated from write.go because relations are metadata about entries, not
// entry content. They have their own lifecycle (can be attached and detached
// independently of entry edits).
//
// Design: one generic table with a field discriminator covers people, tags,
// events, cities, and themes. Matching is case-insensitive via the value_norm
// column; the original casing is preserved in value for display.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Attach associates a value with an entry under a relational field.
// Idempotent: attaching a value that differs only in case is a no-op.
func (s *SQLiteStore) Attach(ctx context.Context, id int64, field, value string) error {
	if err := validField(field); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("attach %s to entry %d: empty value", field, id)
	}

	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	rid, err := genID()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO relations (id, entry_id, field, value, value_norm, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rid, id, field, value, strings.ToLower(value), time.Now().Unix())
	if isUniqueViolation(err) {
		return nil // already attached
	}
	if err != nil {
		return fmt.Errorf("attach %s %q to entry %d: %w", field, value, id, err)
	}
	return nil
}

// Detach removes a value from an entry's relational field.
func (s *SQLiteStore) Detach(ctx context.Context, id int64, field, value string) error {
	if err := validField(field); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM relations WHERE entry_id = ? AND field = ? AND value_norm = ?`,
		id, field, strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return fmt.Errorf("detach %s %q from entry %d: %w", field, value, id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("detach %s %q from entry %d: %w", field, value, id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Values returns all distinct values for a relational field across the store,
// for discovery and autocomplete. Distinctness is case-insensitive; the first
// recorded casing wins for display.
func (s *SQLiteStore) Values(ctx context.Context, field string) ([]string, error) {
	if err := validField(field); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM relations WHERE field = ?
		GROUP BY value_norm ORDER BY value_norm`, field)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", field, err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// EntryValues returns the values attached to one entry for a field.
func (s *SQLiteStore) EntryValues(ctx context.Context, id int64, field string) ([]string, error) {
	if err := validField(field); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM relations WHERE entry_id = ? AND field = ?
		ORDER BY value_norm`, id, field)
	if err != nil {
		return nil, fmt.Errorf("list %s for entry %d: %w", field, id, err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Matched on message text; the driver does not export a sentinel.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
