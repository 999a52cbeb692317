// Package journal provides higher-level journal operations backed by the
// record store, the full-text index, and the search engine. It is the
// programmatic surface consumed in-process by the CLI commands.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/soffiafdz/palimpsest-sub003/internal/config"
	"github.com/soffiafdz/palimpsest-sub003/internal/engine"
	"github.com/soffiafdz/palimpsest-sub003/internal/index"
	"github.com/soffiafdz/palimpsest-sub003/internal/query"
	"github.com/soffiafdz/palimpsest-sub003/internal/repo"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

// Service wires the store, index, and engine together behind one handle.
// Always call Close() when done (use defer).
//
// Example:
//
//	svc, err := journal.New()
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	results, err := svc.Search(ctx, journal.ParseQuery("therapy person:alice"))
type Service struct {
	store  *store.SQLiteStore
	index  *index.Manager
	engine *engine.Engine

	dbPath     string
	author     string
	maxContent int64
	pageLimit  int
}

// New creates a Service, discovering the journal by walking up the
// directory tree. Returns repo.ErrNotInitialised if no journal is found.
func New() (*Service, error) {
	dbPath, err := repo.Discover()
	if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

// Open creates a Service over a specific database path.
func Open(dbPath string) (*Service, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		s.Close()
		return nil, err // config.Load provides detailed, actionable error messages
	}

	m := index.New(s.DB())
	e := engine.New(s, m)
	e.Cap = cfg.CandidateCap()

	return &Service{
		store:      s,
		index:      m,
		engine:     e,
		dbPath:     dbPath,
		author:     cfg.Author.Name,
		maxContent: cfg.MaxContent(),
		pageLimit:  cfg.SearchLimit(),
	}, nil
}

// Init initialises a new palimpsest journal in dir (current directory when
// empty). Schema, full-text index, and sync triggers are all created.
func Init(force bool, dir string) error {
	return repo.Init(force, dir)
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.store.Close()
}

// Dir returns the .palimpsest directory backing this service.
func (s *Service) Dir() string {
	return filepath.Dir(s.dbPath)
}

// Author returns the configured author name.
func (s *Service) Author() string {
	return s.author
}

// DB returns the underlying database connection.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// ParseQuery parses the human-typed search language into a structured
// query. Never fails; see the query package for the grammar.
func ParseQuery(raw string) query.Query {
	return query.Parse(raw)
}

// Search executes a structured query: full-text relevance when text is
// present, relational filters, sort, and pagination. When the query did not
// set an explicit limit, the configured default page size applies.
func (s *Service) Search(ctx context.Context, q query.Query) ([]engine.Result, error) {
	if q.Limit == query.DefaultLimit && s.pageLimit != query.DefaultLimit {
		q.Limit = s.pageLimit
	}
	return s.engine.Search(ctx, q)
}

// IndexStatus reports whether the full-text index exists and how many
// entries it holds.
func (s *Service) IndexStatus(ctx context.Context) (index.Status, error) {
	return s.index.Status(ctx)
}

// CreateIndex creates the full-text index and its sync triggers if absent,
// then populates it from the store. Idempotent.
func (s *Service) CreateIndex(ctx context.Context) (int, error) {
	if err := s.index.Create(ctx); err != nil {
		return 0, err
	}
	if err := s.index.InstallSync(ctx); err != nil {
		return 0, err
	}
	n, err := s.index.Populate(ctx)
	if err != nil {
		return 0, fmt.Errorf("populate index: %w", err)
	}
	return n, nil
}

// RebuildIndex drops and fully repopulates the full-text index, returning
// the count indexed. The authoritative recovery path for a stale index.
func (s *Service) RebuildIndex(ctx context.Context) (int, error) {
	n, err := s.index.Rebuild(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.InstallSync(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// Add inserts a new entry and returns its id.
func (s *Service) Add(ctx context.Context, e store.Entry) (int64, error) {
	return s.store.Add(ctx, e, s.writeOptions())
}

// Update replaces an existing entry's content and scalar fields.
func (s *Service) Update(ctx context.Context, e store.Entry) error {
	return s.store.Update(ctx, e, s.writeOptions())
}

// Delete removes an entry, its relations, and its index row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Entry returns one entry by id. Returns store.ErrNotFound if absent.
func (s *Service) Entry(ctx context.Context, id int64) (*store.Entry, error) {
	return s.store.ByID(ctx, id)
}

// EntriesOn returns the entries written on a given ISO date.
func (s *Service) EntriesOn(ctx context.Context, date string) ([]store.Entry, error) {
	return s.store.ByDate(ctx, date)
}

// List returns entry metadata for every entry, ordered by date.
func (s *Service) List(ctx context.Context) ([]store.EntryMeta, error) {
	return s.store.ListMeta(ctx)
}

// Attach associates a relational value (person, tag, event, city, theme)
// with an entry.
func (s *Service) Attach(ctx context.Context, id int64, field, value string) error {
	return s.store.Attach(ctx, id, field, value)
}

// Detach removes a relational value from an entry.
func (s *Service) Detach(ctx context.Context, id int64, field, value string) error {
	return s.store.Detach(ctx, id, field, value)
}

// Values returns all distinct values recorded for a relational field.
func (s *Service) Values(ctx context.Context, field string) ([]string, error) {
	return s.store.Values(ctx, field)
}

// EntryValues returns the values attached to one entry for a field.
func (s *Service) EntryValues(ctx context.Context, id int64, field string) ([]string, error) {
	return s.store.EntryValues(ctx, id, field)
}

// Stats returns aggregate journal statistics.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) writeOptions() store.WriteOptions {
	return store.WriteOptions{Author: s.author, MaxContent: s.maxContent}
}
