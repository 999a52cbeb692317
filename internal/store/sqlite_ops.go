// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration) from business logic. This is the only file in the
// package that imports the SQLite driver.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// WAL allows concurrent readers during writes, which is what lets full-text
// searches proceed while an index rebuild is in flight. The 5-second busy
// timeout prevents "database is locked" errors without waiting forever on
// stuck connections.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite with WAL mode for concurrent
// access. The full-text index lives in the same database file as a derived
// artifact; see the index package.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface compliance check. If a method is missing or has the
// wrong signature the build fails immediately rather than at runtime.
var _ Store = (*SQLiteStore)(nil)

var (
	// ErrNotFound indicates the requested entry or association does not exist.
	// Callers should check for this to distinguish missing data from other errors.
	ErrNotFound = errors.New("entry not found")
	// ErrUnknownField is returned for a relational field name outside RelFields.
	ErrUnknownField = errors.New("unknown relational field")
	// ErrContentTooLarge is returned when entry text exceeds the configured limit.
	ErrContentTooLarge = errors.New("entry content too large")
	// ErrBadDate is returned when an entry date is not an ISO YYYY-MM-DD string.
	ErrBadDate = errors.New("invalid entry date")
)

// Open opens the SQLite database file at `path` and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode: concurrent readers while writing. Without this, a rebuild of
	// the full-text index would block every search for its duration.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Busy timeout: how long to wait when another connection holds a lock.
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Synchronous NORMAL: with WAL, NORMAL is safe against corruption and
	// ~10x faster than FULL. The only risk is losing the last transaction on
	// OS crash - acceptable for a journal where the command can be re-run.
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	// Foreign keys: relations reference entries; enforce cascade deletes in
	// the database rather than in application code.
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist. Safe to call multiple
// times; uses IF NOT EXISTS to avoid errors on existing databases.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection. Call before program exit to ensure
// all pending writes are flushed.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for collaborators that keep derived
// state in the same database. The index manager uses this to create and
// maintain the FTS table; it must not modify canonical tables.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry extracts an Entry from a database row, handling nullable fields.
func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var title, epigraph, notes, status sql.NullString
	var hasMS int

	err := sc.Scan(&e.ID, &e.Date, &title, &e.Body, &epigraph, &notes,
		&e.WordCount, &e.ReadingTime, &hasMS, &status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}

	e.Title = title.String
	e.Epigraph = epigraph.String
	e.Notes = notes.String
	e.HasManuscript = hasMS != 0
	e.ManuscriptStatus = status.String
	return e, nil
}

// entryColumns is the canonical column list matching scanEntry's order.
const entryColumns = `id, date, title, body, epigraph, notes, word_count, reading_time,
	has_manuscript, manuscript_status, created_at, updated_at`

// scanOneEntry converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func (s *SQLiteStore) scanOneEntry(row *sql.Row) (*Entry, error) {
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	return &e, nil
}

// scanEntries iterates over query results, collecting entries into a slice.
func (s *SQLiteStore) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. Rollback is deferred to handle panics and early returns; it
// is a no-op after commit. Context cancellation aborts the transaction at the
// next database call.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// genID creates a unique 8-character identifier using crypto/rand.
// Used for relation row ids to enable direct lookups.
func genID() (string, error) {
	b := make([]byte, 5) // 5 bytes = 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}

// placeholders returns a "?, ?, ?" string for n bind parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// validField checks a relational field name against RelFields.
func validField(field string) error {
	for _, f := range RelFields {
		if f == field {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}
