// stats.go implements aggregate statistics queries for operational visibility.
//
// Separated to collect "read-only, aggregate" operations distinct from CRUD.
// These queries power the stats command and index diagnostics without loading
// entry text into memory.

package store

import (
	"context"
	"database/sql"
)

// Stats returns aggregate database statistics: entry and word totals,
// distinct relational value counts, and date coverage.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(word_count), 0), COALESCE(AVG(word_count), 0),
		       COALESCE(SUM(reading_time), 0), COALESCE(SUM(has_manuscript), 0)
		FROM entries`).
		Scan(&st.Entries, &st.Words, &st.AvgWordCount, &st.TotalReadTime, &st.Manuscripts)
	if err != nil {
		return nil, err
	}

	var oldest, newest sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT MIN(date), MAX(date) FROM entries`).
		Scan(&oldest, &newest)
	if err != nil {
		return nil, err
	}
	st.OldestDate = oldest.String
	st.NewestDate = newest.String

	counts := map[string]*int64{
		FieldPeople: &st.People,
		FieldTags:   &st.Tags,
		FieldEvents: &st.Events,
		FieldCities: &st.Cities,
		FieldThemes: &st.Themes,
	}
	for _, field := range RelFields {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(DISTINCT value_norm) FROM relations WHERE field = ?`, field).
			Scan(counts[field])
		if err != nil {
			return nil, err
		}
	}

	return &st, nil
}
