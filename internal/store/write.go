// write.go implements entry creation and modification operations.
//
// Separated from the main store file to isolate mutating operations.
//
// Design: WordCount and ReadingTime are always recomputed from the body on
// write so the denormalised columns can never drift from the text they
// describe. Reading time uses the common 200 words-per-minute estimate.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// readingWPM is the words-per-minute rate used to estimate reading time.
const readingWPM = 200.0

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// countWords returns the whitespace-delimited word count of s.
func countWords(s string) int {
	return len(strings.Fields(s))
}

func validateEntry(e Entry, opts WriteOptions) error {
	if !isoDate.MatchString(e.Date) {
		return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrBadDate, e.Date)
	}
	if opts.MaxContent > 0 {
		total := int64(len(e.Body) + len(e.Epigraph) + len(e.Notes))
		if total > opts.MaxContent {
			return fmt.Errorf("%w: %d bytes (limit %d)", ErrContentTooLarge, total, opts.MaxContent)
		}
	}
	return nil
}

// Add inserts a new entry and returns its id. The id is SQLite's rowid, which
// the full-text index reuses, so the two stay joined by a single key.
func (s *SQLiteStore) Add(ctx context.Context, e Entry, opts WriteOptions) (int64, error) {
	if err := validateEntry(e, opts); err != nil {
		return 0, err
	}

	words := countWords(e.Body)
	now := time.Now().Unix()

	var id int64
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO entries (date, title, body, epigraph, notes, word_count, reading_time,
			                     has_manuscript, manuscript_status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Date, nilIfEmpty(e.Title), e.Body, nilIfEmpty(e.Epigraph), nilIfEmpty(e.Notes),
			words, float64(words)/readingWPM,
			boolToInt(e.HasManuscript), nilIfEmpty(e.ManuscriptStatus), now, now)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the text-bearing and scalar fields of an existing entry.
// Relations are managed separately via Attach/Detach and are untouched here.
func (s *SQLiteStore) Update(ctx context.Context, e Entry, opts WriteOptions) error {
	if err := validateEntry(e, opts); err != nil {
		return err
	}

	words := countWords(e.Body)
	res, err := s.db.ExecContext(ctx, `
		UPDATE entries SET date = ?, title = ?, body = ?, epigraph = ?, notes = ?,
		       word_count = ?, reading_time = ?, has_manuscript = ?, manuscript_status = ?,
		       updated_at = ?
		WHERE id = ?`,
		e.Date, nilIfEmpty(e.Title), e.Body, nilIfEmpty(e.Epigraph), nilIfEmpty(e.Notes),
		words, float64(words)/readingWPM,
		boolToInt(e.HasManuscript), nilIfEmpty(e.ManuscriptStatus),
		time.Now().Unix(), e.ID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry. Relations cascade via the foreign key; the
// full-text index row is removed by the sync triggers when installed.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// nilIfEmpty returns nil for empty strings so optional columns store NULL.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
