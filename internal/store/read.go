// read.go implements entry retrieval operations for the SQLite store.
//
// Separated from the main store file to isolate read-only query logic. These
// operations never modify data, enabling clearer reasoning about side effects.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ByID returns a single entry by primary key.
func (s *SQLiteStore) ByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	return s.scanOneEntry(row)
}

// ByDate returns all entries recorded on the given ISO date, oldest first.
// The journal allows multiple entries per day, so this returns a slice.
func (s *SQLiteStore) ByDate(ctx context.Context, date string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE date = ? ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("entries for %s: %w", date, err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

// All returns every entry ordered by date then id. This ordering is the
// "arrival order" the search engine's stable sorts preserve on ties.
func (s *SQLiteStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

// ListMeta returns metadata for every entry without loading text content.
// Sizes and counts come straight from the denormalised columns so no entry
// body ever crosses the connection.
func (s *SQLiteStore) ListMeta(ctx context.Context) ([]EntryMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, title, word_count, reading_time, has_manuscript, manuscript_status, updated_at
		FROM entries ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list meta: %w", err)
	}
	defer rows.Close()

	var metas []EntryMeta
	for rows.Next() {
		var m EntryMeta
		var title, status sql.NullString
		var hasMS int
		if err := rows.Scan(&m.ID, &m.Date, &title, &m.WordCount, &m.ReadingTime, &hasMS, &status, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		m.Title = title.String
		m.HasManuscript = hasMS != 0
		m.ManuscriptStatus = status.String
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Count returns the number of entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count)
	return count, err
}

// Exists checks if an entry exists without loading content.
func (s *SQLiteStore) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM entries WHERE id = ? LIMIT 1`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check exists %d: %w", id, err)
	}
	return true, nil
}
