// interfaces.go defines the storage abstraction for journal persistence.
//
// Separated from the SQLite implementation to enable testing and potential
// alternative backends. The interfaces are intentionally granular (Reader,
// Writer, Relater, Filterer) to support interface segregation - consumers
// only depend on the capabilities they need. The search engine, in
// particular, takes only a Filterer and never mutates the store.

package store

import (
	"context"
	"database/sql"
)

// Reader defines read-only operations for retrieving entries and metadata.
type Reader interface {
	// ByID retrieves a single entry. Returns ErrNotFound if absent.
	ByID(ctx context.Context, id int64) (*Entry, error)

	// ByDate returns all entries recorded on the given ISO date,
	// oldest first. Multiple entries per day are allowed.
	ByDate(ctx context.Context, date string) ([]Entry, error)

	// All returns every entry ordered by date then id.
	All(ctx context.Context) ([]Entry, error)

	// ListMeta returns metadata for every entry without loading text,
	// enabling efficient listings and dashboards.
	ListMeta(ctx context.Context) ([]EntryMeta, error)

	// Count returns the number of entries.
	Count(ctx context.Context) (int64, error)

	// Exists checks entry presence without loading content.
	Exists(ctx context.Context, id int64) (bool, error)

	// Stats returns aggregate statistics for operational visibility.
	Stats(ctx context.Context) (*Stats, error)
}

// Writer defines operations that modify entries.
type Writer interface {
	// Add inserts a new entry and returns its id. WordCount and
	// ReadingTime are computed from the body; caller values are ignored.
	Add(ctx context.Context, e Entry, opts WriteOptions) (int64, error)

	// Update replaces the text-bearing and scalar fields of an entry.
	// Returns ErrNotFound if the entry doesn't exist.
	Update(ctx context.Context, e Entry, opts WriteOptions) error

	// Delete removes an entry and its relations.
	// Returns ErrNotFound if the entry doesn't exist.
	Delete(ctx context.Context, id int64) error
}

// Relater defines operations for managing relational tag memberships
// (people, tags, events, cities, themes).
type Relater interface {
	// Attach associates a value with an entry under a relational field.
	// Idempotent; attaching an existing value is a no-op.
	Attach(ctx context.Context, id int64, field, value string) error

	// Detach removes a value from an entry's relational field.
	// Returns ErrNotFound if the association doesn't exist.
	Detach(ctx context.Context, id int64, field, value string) error

	// Values returns all distinct values for a relational field across
	// the store, for discovery and autocomplete.
	Values(ctx context.Context, field string) ([]string, error)

	// EntryValues returns the values attached to one entry for a field.
	EntryValues(ctx context.Context, id int64, field string) ([]string, error)
}

// Filterer executes relational predicate queries. This is the half of the
// store the search engine consumes alongside the full-text index.
type Filterer interface {
	// Filtered returns entries matching the filter, ordered by date then
	// id (the stable "arrival order" later sorts preserve on ties).
	// A zero filter matches everything.
	Filtered(ctx context.Context, f Filter) ([]Entry, error)
}

// Maintainer defines lifecycle operations.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for collaborators that keep
	// derived state in the same database (the full-text index manager).
	DB() *sql.DB
}

// Store defines the persistence interface for journal entries.
type Store interface {
	Reader
	Writer
	Relater
	Filterer
	Maintainer
}
