// Package log provides centralised audit logging for palimpsest operations.
// Logs are stored in ~/.palimpsest/log/palimpsest-log.db and track CLI
// commands across journals.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("journal:search", "search").
//		Author(cmd.Author()).
//		Detail("query", raw).
//		Count(len(results)).
//		Write(err)
//
//	log.Event("journal:add", "write").
//		Author(cmd.Author()).
//		EntryID(id).
//		Write(err)
//
// The source parameter follows the format "journal:{command}".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "journal:search"
	Author string // who performed the action
	Action string // verb: read, write, delete, search, index, etc.

	EntryID int64  // input: journal entry id targeted, 0 if none
	Date    string // input: entry date targeted, empty if none

	Count int // output: rows affected or results returned

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies the command ("journal:search", "journal:index");
// the action describes the verb performed ("read", "write", "search").
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// EntryID sets the journal entry this operation targets.
func (b *Builder) EntryID(id int64) *Builder {
	b.entry.EntryID = id
	return b
}

// Date sets the entry date this operation targets.
func (b *Builder) Date(date string) *Builder {
	b.entry.Date = date
	return b
}

// Count sets the operation's result count (entries indexed, results
// returned, rows removed).
func (b *Builder) Count(n int) *Builder {
	b.entry.Count = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure
// from err. This is the standard way to complete a log entry:
//
//	results, err := svc.Search(ctx, q)
//	log.Event("journal:search", "search").Count(len(results)).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetJournal sets the journal identifier for subsequent log entries.
// The dir should be the absolute path to the .palimpsest directory.
func SetJournal(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.journal = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
