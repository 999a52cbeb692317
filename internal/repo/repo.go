// Package repo provides journal initialisation and discovery for palimpsest.
//
// A palimpsest journal is a .palimpsest directory containing a SQLite
// database. This package handles:
//   - Initialising new journals (creating .palimpsest/ and the database)
//   - Discovering existing journals by walking up the directory tree
//
// The discovery algorithm mirrors git's approach: starting from the current
// directory, walk up until a .palimpsest directory containing the database
// is found, or the filesystem root is reached.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soffiafdz/palimpsest-sub003/internal/index"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

const (
	// Dir is the directory name for the palimpsest journal.
	Dir = ".palimpsest"
	// DBFile is the database filename.
	DBFile = "journal.db"
)

// ErrNotInitialised is returned when no palimpsest journal is found.
var ErrNotInitialised = errors.New("palimpsest not initialised (run 'palimpsest init')")

// Init initialises a new palimpsest journal: the entries schema, the
// full-text index, and the triggers that keep the two in sync.
//
// Parameters:
//   - force: reinitialise an existing journal
//   - dir: target directory (empty for current directory)
func Init(force bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	pDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(pDir, DBFile)

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("journal already exists at %s (use --force to reinitialise)", dbPath)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(pDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	ctx := context.Background()
	m := index.New(s.DB())
	if err := m.Create(ctx); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := m.InstallSync(ctx); err != nil {
		return fmt.Errorf("install index sync: %w", err)
	}
	return nil
}

// Discover walks up the directory tree looking for a .palimpsest database.
// Returns the full path to the database if found, ErrNotInitialised if the
// filesystem root is reached without finding one.
func Discover() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, DBFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}
