// Package store defines journal entry persistence types and the Store
// interface. Implementations handle the actual database operations while
// consumers depend only on this interface, enabling testing and alternative
// backends.
package store

import (
	"encoding/json"
	"time"
)

// Relational field names. Each entry may carry any number of values per
// field; membership is what the search engine filters on.
const (
	FieldPeople = "people"
	FieldTags   = "tags"
	FieldEvents = "events"
	FieldCities = "cities"
	FieldThemes = "themes"
)

// RelFields lists every relational field in display order.
var RelFields = []string{FieldPeople, FieldTags, FieldEvents, FieldCities, FieldThemes}

// Entry represents a single journal entry. Body holds the markdown text with
// structured front matter already parsed out at write time; Epigraph and
// Notes carry the remaining free-form text blocks. WordCount and ReadingTime
// are computed on write and denormalised for filtering and sorting.
type Entry struct {
	ID               int64   // Database primary key (doubles as FTS rowid)
	Date             string  // ISO date "YYYY-MM-DD"
	Title            string  // Optional entry title
	Body             string  // Main markdown text, front matter stripped
	Epigraph         string  // Opening quotation or preamble, may be empty
	Notes            string  // Free-form margin notes, may be empty
	WordCount        int     // Body word count, computed on write
	ReadingTime      float64 // Estimated minutes, WordCount / 200
	HasManuscript    bool    // Whether a scanned manuscript page exists
	ManuscriptStatus string  // Transcription state (e.g. "verified"), empty if none
	CreatedAt        int64   // Unix timestamp of creation
	UpdatedAt        int64   // Unix timestamp of last modification
}

// EntryMeta contains entry metadata without text content.
// Use this for efficient listings where the body isn't needed.
type EntryMeta struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	Title            string  `json:"title,omitempty"`
	WordCount        int     `json:"word_count"`
	ReadingTime      float64 `json:"reading_time"`
	HasManuscript    bool    `json:"has_manuscript,omitempty"`
	ManuscriptStatus string  `json:"manuscript_status,omitempty"`
	UpdatedAt        int64   `json:"updated_at"`
}

// EntryJSON is the API-friendly representation of an Entry with formatted
// timestamps and optional body omission for bandwidth efficiency.
type EntryJSON struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	Title            string  `json:"title,omitempty"`
	Body             string  `json:"body,omitempty"`
	Epigraph         string  `json:"epigraph,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	WordCount        int     `json:"word_count"`
	ReadingTime      float64 `json:"reading_time"`
	HasManuscript    bool    `json:"has_manuscript,omitempty"`
	ManuscriptStatus string  `json:"manuscript_status,omitempty"`
	UpdatedAt        string  `json:"updated_at"`
}

// ToJSON converts an Entry to its API representation. The body parameter
// controls whether text content is included, allowing efficient listings.
func (e *Entry) ToJSON(body bool) EntryJSON {
	j := EntryJSON{
		ID:               e.ID,
		Date:             e.Date,
		Title:            e.Title,
		WordCount:        e.WordCount,
		ReadingTime:      e.ReadingTime,
		HasManuscript:    e.HasManuscript,
		ManuscriptStatus: e.ManuscriptStatus,
		UpdatedAt:        time.Unix(e.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
	if body {
		j.Body = e.Body
		j.Epigraph = e.Epigraph
		j.Notes = e.Notes
	}
	return j
}

// SearchableText returns the concatenation of every text-bearing field, the
// exact blob the full-text index stores for this entry. Front matter never
// reaches Body, so the blob is free of structured metadata.
func (e *Entry) SearchableText() string {
	out := e.Title
	for _, part := range []string{e.Body, e.Epigraph, e.Notes} {
		if part == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += part
	}
	return out
}

// Filter describes a relational query against the canonical store: membership
// sets per relational field (OR within a field), scalar ranges, and an
// optional restriction to a candidate id set. Fields combine with AND.
// Pointer-typed bounds distinguish "unset" from zero; an inverted range
// (min > max) passes through to SQL and simply matches nothing.
type Filter struct {
	People []string
	Tags   []string
	Events []string
	Cities []string
	Themes []string

	DateFrom string // inclusive ISO lower bound, "" = open
	DateTo   string // inclusive ISO upper bound, "" = open

	MinWords *int
	MaxWords *int

	MinReadingTime *float64
	MaxReadingTime *float64

	HasManuscript    *bool
	ManuscriptStatus string

	IDs []int64 // restrict to these entry ids; nil = no restriction
}

// IsZero reports whether no predicate is set, i.e. the filter matches
// every entry.
func (f Filter) IsZero() bool {
	return len(f.People) == 0 && len(f.Tags) == 0 && len(f.Events) == 0 &&
		len(f.Cities) == 0 && len(f.Themes) == 0 &&
		f.DateFrom == "" && f.DateTo == "" &&
		f.MinWords == nil && f.MaxWords == nil &&
		f.MinReadingTime == nil && f.MaxReadingTime == nil &&
		f.HasManuscript == nil && f.ManuscriptStatus == "" &&
		f.IDs == nil
}

// relSets returns the relational membership sets keyed by field name,
// omitting empty ones.
func (f Filter) relSets() map[string][]string {
	all := map[string][]string{
		FieldPeople: f.People,
		FieldTags:   f.Tags,
		FieldEvents: f.Events,
		FieldCities: f.Cities,
		FieldThemes: f.Themes,
	}
	sets := make(map[string][]string, len(all))
	for field, values := range all {
		if len(values) > 0 {
			sets[field] = values
		}
	}
	return sets
}

// WriteOptions configures an entry write.
type WriteOptions struct {
	Author     string // who recorded the entry, for the audit trail
	MaxContent int64  // 0 means no limit (not recommended for writes)
}

// Stats provides aggregate database statistics for operational visibility.
type Stats struct {
	Entries       int64   `json:"entries"`        // Entry count
	Words         int64   `json:"words"`          // Sum of all entry word counts
	People        int64   `json:"people"`         // Distinct people referenced
	Tags          int64   `json:"tags"`           // Distinct tags
	Events        int64   `json:"events"`         // Distinct events
	Cities        int64   `json:"cities"`         // Distinct cities
	Themes        int64   `json:"themes"`         // Distinct themes
	Manuscripts   int64   `json:"manuscripts"`    // Entries with a manuscript page
	OldestDate    string  `json:"oldest_date,omitempty"` // Earliest entry date, "" if empty store
	NewestDate    string  `json:"newest_date,omitempty"` // Latest entry date, "" if empty store
	AvgWordCount  float64 `json:"avg_word_count"` // Mean words per entry
	TotalReadTime float64 `json:"total_read_time"` // Sum of reading times in minutes
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
