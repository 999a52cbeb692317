// Package query parses the human-typed search language into a structured
// Query.
//
// The grammar is a flat sequence of whitespace-separated tokens. A token
// with no colon is free text; key:value tokens with a recognized key become
// typed filters; everything else falls back to free text verbatim. Parsing
// is deliberately lenient and never fails - a typo in a filter should
// narrow or widen a search, not reject it.
package query

import (
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// Defaults applied when the query string does not set them.
const (
	DefaultLimit = 50

	SortRelevance = "relevance"
	SortDate      = "date"
	SortWordCount = "word_count"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query is the structured form of a search request. Pointer fields are
// unset filters; slice fields OR their values together, while distinct
// fields AND against each other.
type Query struct {
	Text string `json:"text,omitempty"`

	People []string `json:"people,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Events []string `json:"events,omitempty"`
	Cities []string `json:"cities,omitempty"`
	Themes []string `json:"themes,omitempty"`

	DateFrom string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo   string `json:"date_to,omitempty"`
	Year     *int   `json:"year,omitempty"`
	Month    *int   `json:"month,omitempty"` // 1-12, meaningful only with Year

	MinWords       *int     `json:"min_words,omitempty"`
	MaxWords       *int     `json:"max_words,omitempty"`
	MinReadingTime *float64 `json:"min_reading_time,omitempty"`
	MaxReadingTime *float64 `json:"max_reading_time,omitempty"`

	HasManuscript    *bool  `json:"has_manuscript,omitempty"`
	ManuscriptStatus string `json:"manuscript_status,omitempty"`

	// SortBy carries the user's value verbatim; the engine treats anything
	// it does not recognize as relevance.
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// IsZero reports whether the query has no text and no filters, i.e. the
// browse-all case.
func (q Query) IsZero() bool {
	return q.Text == "" &&
		len(q.People) == 0 && len(q.Tags) == 0 && len(q.Events) == 0 &&
		len(q.Cities) == 0 && len(q.Themes) == 0 &&
		q.DateFrom == "" && q.DateTo == "" && q.Year == nil && q.Month == nil &&
		q.MinWords == nil && q.MaxWords == nil &&
		q.MinReadingTime == nil && q.MaxReadingTime == nil &&
		q.HasManuscript == nil && q.ManuscriptStatus == ""
}

// filterFns dispatches a recognized key to the mutation it performs on the
// query under construction. A handler returns false to drop the token
// (bad literal); dropped tokens never reach free text.
var filterFns = map[string]func(q *Query, v string) bool{
	"person": func(q *Query, v string) bool { q.People = append(q.People, v); return true },
	"people": func(q *Query, v string) bool { q.People = append(q.People, v); return true },
	"tag":    func(q *Query, v string) bool { q.Tags = append(q.Tags, v); return true },
	"event":  func(q *Query, v string) bool { q.Events = append(q.Events, v); return true },
	"city":   func(q *Query, v string) bool { q.Cities = append(q.Cities, v); return true },
	"theme":  func(q *Query, v string) bool { q.Themes = append(q.Themes, v); return true },

	"in":   setYear,
	"year": setYear,
	"month": func(q *Query, v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return false
		}
		q.Month = &n
		return true
	},

	"from": func(q *Query, v string) bool { return setDate(&q.DateFrom, v) },
	"to":   func(q *Query, v string) bool { return setDate(&q.DateTo, v) },

	"words": func(q *Query, v string) bool {
		lo, hi, ok := parseIntRange(v)
		if !ok {
			return false
		}
		q.MinWords, q.MaxWords = lo, hi
		return true
	},
	"time": func(q *Query, v string) bool {
		lo, hi, ok := parseFloatRange(v)
		if !ok {
			return false
		}
		q.MinReadingTime, q.MaxReadingTime = lo, hi
		return true
	},

	"has": func(q *Query, v string) bool {
		if !strings.EqualFold(v, "manuscript") {
			return false
		}
		t := true
		q.HasManuscript = &t
		return true
	},
	"status": func(q *Query, v string) bool { q.ManuscriptStatus = v; return true },

	"sort": func(q *Query, v string) bool { q.SortBy = v; return true },
	"order": func(q *Query, v string) bool {
		switch strings.ToLower(v) {
		case OrderAsc, OrderDesc:
			q.SortOrder = strings.ToLower(v)
			return true
		}
		return false
	},
	"limit": func(q *Query, v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return false
		}
		q.Limit = n
		return true
	},
	"offset": func(q *Query, v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return false
		}
		q.Offset = n
		return true
	},
}

// Parse turns a raw query string into a Query. It never fails: recognized
// filters with bad literals are dropped, unrecognized keys fold into free
// text verbatim, colon included.
func Parse(raw string) Query {
	q := Query{
		SortBy:    SortRelevance,
		SortOrder: OrderDesc,
		Limit:     DefaultLimit,
	}

	var text []string
	for _, tok := range strings.Fields(raw) {
		key, value, found := strings.Cut(tok, ":")
		if !found {
			text = append(text, tok)
			continue
		}
		fn, ok := filterFns[strings.ToLower(key)]
		if !ok {
			text = append(text, tok)
			continue
		}
		if value == "" {
			continue // recognized key, nothing to apply
		}
		fn(&q, value)
	}
	q.Text = strings.Join(text, " ")
	return q
}

func setYear(q *Query, v string) bool {
	n, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	q.Year = &n
	return true
}

// setDate accepts anything dateparse understands ("2024-03-01", "March 1
// 2024", "2024/03/01") and normalizes to ISO.
func setDate(dst *string, v string) bool {
	t, err := dateparse.ParseAny(v)
	if err != nil {
		return false
	}
	*dst = t.Format("2006-01-02")
	return true
}

// parseIntRange parses the shared range grammar: "N" (min only), "N-M",
// "N-" (open max), "-M" (open min).
func parseIntRange(v string) (lo, hi *int, ok bool) {
	los, his, ranged := strings.Cut(v, "-")
	if !ranged {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, false
		}
		return &n, nil, true
	}
	if los != "" {
		n, err := strconv.Atoi(los)
		if err != nil {
			return nil, nil, false
		}
		lo = &n
	}
	if his != "" {
		n, err := strconv.Atoi(his)
		if err != nil {
			return nil, nil, false
		}
		hi = &n
	}
	if lo == nil && hi == nil {
		return nil, nil, false
	}
	return lo, hi, true
}

func parseFloatRange(v string) (lo, hi *float64, ok bool) {
	los, his, ranged := strings.Cut(v, "-")
	if !ranged {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, false
		}
		return &f, nil, true
	}
	if los != "" {
		f, err := strconv.ParseFloat(los, 64)
		if err != nil {
			return nil, nil, false
		}
		lo = &f
	}
	if his != "" {
		f, err := strconv.ParseFloat(his, 64)
		if err != nil {
			return nil, nil, false
		}
		hi = &f
	}
	if lo == nil && hi == nil {
		return nil, nil, false
	}
	return lo, hi, true
}
