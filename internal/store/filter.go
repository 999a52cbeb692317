// filter.go builds and executes relational predicate queries.
//
// Separated from read.go because filtered queries have fundamentally
// different construction: the SQL is assembled dynamically from whichever
// predicates are set, in the same strings.Builder style as the rest of the
// package's dynamic queries.
//
// Design: each relational field contributes one membership subquery (OR over
// its value set via IN); subqueries and scalar conditions join with AND.
// Inverted ranges (min > max) are passed through verbatim - they match
// nothing, which is the contract, so no clamping happens here.

package store

import (
	"context"
	"fmt"
	"strings"
)

// Filtered returns entries matching the filter, ordered by date then id.
// A zero filter matches every entry.
func (s *SQLiteStore) Filtered(ctx context.Context, f Filter) ([]Entry, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + entryColumns + ` FROM entries`)

	var args []any
	var conditions []string

	// Relational membership: AND across fields, OR within a field's values.
	// Iterate RelFields rather than the map to keep the SQL deterministic.
	sets := f.relSets()
	for _, field := range RelFields {
		values, ok := sets[field]
		if !ok {
			continue
		}
		conditions = append(conditions, fmt.Sprintf(
			`id IN (SELECT entry_id FROM relations WHERE field = ? AND value_norm IN (%s))`,
			placeholders(len(values))))
		args = append(args, field)
		for _, v := range values {
			args = append(args, strings.ToLower(strings.TrimSpace(v)))
		}
	}

	// Date bounds: ISO strings compare lexicographically, so plain string
	// comparison gives correct chronological ordering.
	if f.DateFrom != "" {
		conditions = append(conditions, `date >= ?`)
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conditions = append(conditions, `date <= ?`)
		args = append(args, f.DateTo)
	}

	if f.MinWords != nil {
		conditions = append(conditions, `word_count >= ?`)
		args = append(args, *f.MinWords)
	}
	if f.MaxWords != nil {
		conditions = append(conditions, `word_count <= ?`)
		args = append(args, *f.MaxWords)
	}

	if f.MinReadingTime != nil {
		conditions = append(conditions, `reading_time >= ?`)
		args = append(args, *f.MinReadingTime)
	}
	if f.MaxReadingTime != nil {
		conditions = append(conditions, `reading_time <= ?`)
		args = append(args, *f.MaxReadingTime)
	}

	if f.HasManuscript != nil {
		conditions = append(conditions, `has_manuscript = ?`)
		args = append(args, boolToInt(*f.HasManuscript))
	}
	if f.ManuscriptStatus != "" {
		conditions = append(conditions, `manuscript_status = ?`)
		args = append(args, f.ManuscriptStatus)
	}

	// Candidate restriction from the full-text index. An explicitly empty
	// (non-nil, zero-length) set matches nothing; the engine short-circuits
	// before that case, but the store honours it rather than special-casing.
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return nil, nil
		}
		conditions = append(conditions, fmt.Sprintf(`id IN (%s)`, placeholders(len(f.IDs))))
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}

	if len(conditions) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conditions, ` AND `))
	}

	b.WriteString(` ORDER BY date, id`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("filter entries: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}
