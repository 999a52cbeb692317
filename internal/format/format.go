// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and snippet trimming.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soffiafdz/palimpsest-sub003/internal/engine"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

// readingTime formats a reading-time estimate in minutes.
func readingTime(min float64) string {
	if min < 1 {
		return "<1m"
	}
	return fmt.Sprintf("%.0fm", min)
}

// entryTitle returns a display title, falling back to the date for
// untitled entries.
func entryTitle(title, date string) string {
	if title == "" {
		return "(" + date + ")"
	}
	return title
}

// List prints entries in simple list format.
func List(w io.Writer, metas []store.EntryMeta) error {
	for _, m := range metas {
		fmt.Fprintf(w, "%4d  %s  %s\n", m.ID, m.Date, entryTitle(m.Title, m.Date))
	}
	return nil
}

// Long prints entries in long format with id, date, size, and manuscript
// status.
//
// Fixed-width columns come first so they align properly; the
// variable-length title is placed at the end where its varying width does
// not disrupt the alignment of other columns.
func Long(w io.Writer, metas []store.EntryMeta) error {
	if len(metas) == 0 {
		return nil
	}

	fmt.Fprintf(w, "%4s  %-10s  %6s  %5s  %-16s  %s\n",
		"ID", "DATE", "WORDS", "READ", "UPDATED", "TITLE")

	for _, m := range metas {
		updated := time.Unix(m.UpdatedAt, 0).Format("2006-01-02 15:04")
		ms := ""
		if m.HasManuscript {
			ms = " [manuscript"
			if m.ManuscriptStatus != "" {
				ms += ":" + m.ManuscriptStatus
			}
			ms += "]"
		}
		fmt.Fprintf(w, "%4d  %s  %6d  %5s  %s  %s%s\n",
			m.ID, m.Date, m.WordCount, readingTime(m.ReadingTime), updated,
			entryTitle(m.Title, m.Date), ms)
	}
	return nil
}

// SearchResults prints ranked search results. Snippets render indented
// under their entry line; zero scores (relational-only searches) omit the
// score column.
func SearchResults(w io.Writer, results []engine.Result) error {
	for _, r := range results {
		e := r.Entry
		line := fmt.Sprintf("%4d  %s  %s", e.ID, e.Date, entryTitle(e.Title, e.Date))
		if r.Score != 0 {
			line += fmt.Sprintf("  (%.2f)", r.Score)
		}
		fmt.Fprintln(w, line)

		if r.Snippet != "" {
			fmt.Fprintf(w, "      %s\n", oneLine(r.Snippet))
		}
	}
	return nil
}

// oneLine collapses a snippet's internal newlines for single-line display.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Values prints relational field values, one per line.
func Values(w io.Writer, values []string) error {
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
	return nil
}

// Stats prints aggregate journal statistics.
func Stats(w io.Writer, st *store.Stats) error {
	fmt.Fprintf(w, "Entries:       %d\n", st.Entries)
	fmt.Fprintf(w, "Words:         %d\n", st.Words)
	fmt.Fprintf(w, "Avg words:     %.0f\n", st.AvgWordCount)
	fmt.Fprintf(w, "Reading time:  %.0f min\n", st.TotalReadTime)
	fmt.Fprintf(w, "Manuscripts:   %d\n", st.Manuscripts)
	if st.OldestDate != "" {
		fmt.Fprintf(w, "Range:         %s to %s\n", st.OldestDate, st.NewestDate)
	}
	fmt.Fprintf(w, "People:        %d\n", st.People)
	fmt.Fprintf(w, "Tags:          %d\n", st.Tags)
	fmt.Fprintf(w, "Events:        %d\n", st.Events)
	fmt.Fprintf(w, "Cities:        %d\n", st.Cities)
	fmt.Fprintf(w, "Themes:        %d\n", st.Themes)
	return nil
}

// Entry renders a full entry as markdown for display or piping.
func Entry(w io.Writer, e *store.Entry, rels map[string][]string) error {
	fmt.Fprintf(w, "# %s\n\n", entryTitle(e.Title, e.Date))
	fmt.Fprintf(w, "*%s*", e.Date)
	if e.HasManuscript {
		fmt.Fprintf(w, " · manuscript")
		if e.ManuscriptStatus != "" {
			fmt.Fprintf(w, " (%s)", e.ManuscriptStatus)
		}
	}
	fmt.Fprintln(w)

	for _, field := range store.RelFields {
		if vs := rels[field]; len(vs) > 0 {
			fmt.Fprintf(w, "*%s: %s*\n", field, strings.Join(vs, ", "))
		}
	}

	if e.Epigraph != "" {
		fmt.Fprintf(w, "\n> %s\n", strings.ReplaceAll(e.Epigraph, "\n", "\n> "))
	}
	fmt.Fprintf(w, "\n%s\n", e.Body)
	if e.Notes != "" {
		fmt.Fprintf(w, "\n---\n\n%s\n", e.Notes)
	}
	return nil
}
