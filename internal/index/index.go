// Package index manages the derived full-text index over journal entries,
// built on SQLite's FTS5 extension.
//
// The index is a cache, never a source of truth: it maps entry id to a
// searchable text blob (title, body, epigraph, notes - front matter never
// reaches the store's text columns, so it never reaches the index either)
// and is fully reconstructible from the entries table via Rebuild.
//
// Concurrency: all index-mutating operations (Create, Populate, Rebuild,
// InstallSync) serialise on a mutex, and Rebuild runs in a single
// transaction, so concurrent readers see either the old complete index or
// the new one, never a partially-truncated state. Search takes no lock; WAL
// mode gives readers a stable snapshot.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotInitialized is returned by Search when the FTS table has never been
// created. Callers are expected to fall back to relational-only filtering or
// to run Create+Populate.
var ErrNotInitialized = errors.New("full-text index not initialized")

// Hit is one ranked full-text match. Score is the negated bm25 rank, so
// higher means more relevant; only the ordering is contractual, not the
// sign or scale. Snippet is empty unless highlighting was requested.
type Hit struct {
	EntryID int64
	Score   float64
	Snippet string
}

// Status reports index health for diagnostics.
type Status struct {
	Exists  bool  `json:"exists"`
	Entries int64 `json:"entries"`
}

// Manager owns the lifecycle of the FTS table. It shares the store's
// database connection but only ever touches the derived entries_fts table
// and its triggers, never the canonical tables.
type Manager struct {
	db *sql.DB
	mu sync.Mutex // serialises index-mutating operations
}

// New returns a Manager over the store's database connection.
func New(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// searchableSQL is the SQL expression assembling an entry's indexed text,
// matching store.Entry.SearchableText up to separator placement.
const searchableSQL = `COALESCE(%[1]s.title, '') || char(10) || %[1]s.body || char(10) ||
	COALESCE(%[1]s.epigraph, '') || char(10) || COALESCE(%[1]s.notes, '')`

// Exists reports whether the FTS table has been created.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		`SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'entries_fts'`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check index exists: %w", err)
	}
	return true, nil
}

// Create creates the empty FTS table if absent. Idempotent.
// The porter tokenizer folds inflections ("therapy" matches "therapies"),
// which suits diary prose better than exact tokens.
func (m *Manager) Create(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.ExecContext(ctx, `
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts
		USING fts5(text, tokenize = 'porter unicode61')`)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Populate bulk-loads every entry's searchable text into the index and
// returns the count indexed. Safe on a non-empty index: rows are keyed by
// entry id and replaced, so re-populating is an upsert, not a duplication.
// Entries with NULL text fields index whatever remains (possibly an empty
// string) rather than aborting the batch.
func (m *Manager) Populate(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ok, err := m.exists(ctx); err != nil {
		return 0, err
	} else if !ok {
		return 0, ErrNotInitialized
	}
	return m.populate(ctx, m.db)
}

// Rebuild drops all indexed rows and repopulates from the entries table in
// one transaction. This is the authoritative recovery path when the index is
// suspected stale; readers see the old index until the commit lands.
func (m *Manager) Rebuild(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ok, err := m.exists(ctx); err != nil {
		return 0, err
	} else if !ok {
		// Never created: creating then populating is the same recovery.
		if _, err := m.db.ExecContext(ctx, `
			CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts
			USING fts5(text, tokenize = 'porter unicode61')`); err != nil {
			return 0, fmt.Errorf("create index: %w", err)
		}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries_fts`); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	count, err := m.populate(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return count, nil
}

// execer abstracts *sql.DB and *sql.Tx for populate.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (m *Manager) populate(ctx context.Context, db execer) (int, error) {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO entries_fts(rowid, text)
		SELECT e.id, `+searchableSQL+` FROM entries e`, "e"))
	if err != nil {
		return 0, fmt.Errorf("populate index: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("populate index: %w", err)
	}
	return int(n), nil
}

// InstallSync installs the triggers that keep the index current as entries
// are added, edited, or removed, so callers never re-index by hand after a
// write. Idempotent; requires the FTS table to exist.
func (m *Manager) InstallSync(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ok, err := m.exists(ctx); err != nil {
		return err
	} else if !ok {
		return ErrNotInitialized
	}

	newText := fmt.Sprintf(searchableSQL, "new")
	stmts := []string{
		`CREATE TRIGGER IF NOT EXISTS entries_fts_ai AFTER INSERT ON entries BEGIN
			INSERT OR REPLACE INTO entries_fts(rowid, text) VALUES (new.id, ` + newText + `);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entries_fts_au AFTER UPDATE OF title, body, epigraph, notes ON entries BEGIN
			INSERT OR REPLACE INTO entries_fts(rowid, text) VALUES (new.id, ` + newText + `);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entries_fts_ad AFTER DELETE ON entries BEGIN
			DELETE FROM entries_fts WHERE rowid = old.id;
		END`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("install sync trigger: %w", err)
		}
	}
	return nil
}

// Search performs a ranked full-text lookup. The raw text is sanitised into
// quoted FTS5 terms first, so user typos and stray operators can never
// produce a query syntax error. highlight=true requests snippets; false
// skips snippet extraction entirely (performance path).
//
// Returns ErrNotInitialized if the index was never created.
func (m *Manager) Search(ctx context.Context, text string, limit int, highlight bool) ([]Hit, error) {
	if ok, err := m.Exists(ctx); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotInitialized
	}

	match := MatchQuery(text)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	snippetCol := `''`
	if highlight {
		// Column 0 is the text column; 16 tokens of context around matches.
		snippetCol = `snippet(entries_fts, 0, '[', ']', '…', 16)`
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT rowid, bm25(entries_fts), `+snippetCol+`
		FROM entries_fts WHERE entries_fts MATCH ?
		ORDER BY bm25(entries_fts) LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var rank float64
		if err := rows.Scan(&h.EntryID, &rank, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		// bm25() ranks best-first with the smallest (most negative) value;
		// negate so higher score = more relevant for callers.
		h.Score = -rank
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Status reports whether the index exists and how many entries it holds.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	var st Status
	ok, err := m.Exists(ctx)
	if err != nil {
		return st, err
	}
	st.Exists = ok
	if !ok {
		return st, nil
	}
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries_fts`).Scan(&st.Entries); err != nil {
		return st, fmt.Errorf("count indexed entries: %w", err)
	}
	return st, nil
}

// exists is the lock-free variant used internally while m.mu is held.
func (m *Manager) exists(ctx context.Context) (bool, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		`SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'entries_fts'`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check index exists: %w", err)
	}
	return true, nil
}

// MatchQuery converts free text into a safe FTS5 MATCH expression: each
// whitespace-delimited term is double-quoted (embedded quotes doubled), and
// a trailing * survives as a prefix match. Terms join with implicit AND.
// Returns "" when no usable term remains.
func MatchQuery(text string) string {
	var terms []string
	for _, tok := range strings.Fields(text) {
		prefix := strings.HasSuffix(tok, "*")
		tok = strings.Trim(tok, "*")
		// Emptiness must be checked before quote-escaping: a quote-only
		// token would otherwise double into a non-empty term.
		if strings.Trim(tok, `"`) == "" {
			continue
		}
		tok = strings.ReplaceAll(tok, `"`, `""`)
		t := `"` + tok + `"`
		if prefix {
			t += "*"
		}
		terms = append(terms, t)
	}
	return strings.Join(terms, " ")
}
