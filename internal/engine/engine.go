// Package engine executes structured queries by combining full-text
// relevance ranking with relational filtering against the record store.
//
// The engine is stateless per call: it holds no cross-call state and is
// safe for concurrent use as long as its store and index support
// concurrent readers.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/soffiafdz/palimpsest-sub003/internal/index"
	"github.com/soffiafdz/palimpsest-sub003/internal/query"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

// DefaultCandidateCap bounds how many full-text candidates are fetched
// before relational filters apply. Deliberately much larger than any page
// size: filters run after ranking, and under-fetching would silently drop
// qualifying entries. Tunable via Engine.Cap.
const DefaultCandidateCap = 1000

// Result is one ranked search hit. Score is 0 and Snippet empty when the
// query had no free-text component (or the index was unavailable).
type Result struct {
	Entry   store.Entry
	Score   float64
	Snippet string
}

// MarshalJSON encodes the result with the entry in its API representation.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Entry   store.EntryJSON `json:"entry"`
		Score   float64         `json:"score"`
		Snippet string          `json:"snippet,omitempty"`
	}{r.Entry.ToJSON(true), r.Score, r.Snippet})
}

// Texter is the slice of the index manager the engine needs.
type Texter interface {
	Search(ctx context.Context, text string, limit int, highlight bool) ([]index.Hit, error)
}

// Engine runs queries against a filterable store and a full-text index.
type Engine struct {
	store store.Filterer
	index Texter

	// Cap is the full-text candidate cap; zero means DefaultCandidateCap.
	Cap int
}

// New returns an Engine over the given store and index.
func New(st store.Filterer, ix Texter) *Engine {
	return &Engine{store: st, index: ix, Cap: DefaultCandidateCap}
}

// Search executes a structured query: full-text candidates first (when text
// is present), relational filters second, then sort and paginate. It never
// fails on index staleness - an uninitialized index degrades to
// relational-only filtering with zero scores. An empty query browses
// everything under the default sort and pagination.
func (e *Engine) Search(ctx context.Context, q query.Query) ([]Result, error) {
	textCap := e.Cap
	if textCap <= 0 {
		textCap = DefaultCandidateCap
	}

	// Full-text pass. Hits arrive relevance-ranked with snippets.
	var hits []index.Hit
	textSearched := false
	if q.Text != "" {
		var err error
		hits, err = e.index.Search(ctx, q.Text, textCap, true)
		switch {
		case errors.Is(err, index.ErrNotInitialized):
			// Degrade to relational-only; scores stay zero.
		case err != nil:
			return nil, fmt.Errorf("text search: %w", err)
		default:
			textSearched = true
			if len(hits) == 0 {
				// Text with no hits means no results, whatever the filters.
				return []Result{}, nil
			}
		}
	}

	f := buildFilter(q)
	if textSearched {
		ids := make([]int64, len(hits))
		for i, h := range hits {
			ids[i] = h.EntryID
		}
		f.IDs = ids
	}

	entries, err := e.store.Filtered(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("filter entries: %w", err)
	}

	byID := make(map[int64]index.Hit, len(hits))
	for _, h := range hits {
		byID[h.EntryID] = h
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		r := Result{Entry: entry}
		if h, ok := byID[entry.ID]; ok {
			r.Score = h.Score
			r.Snippet = h.Snippet
		}
		results = append(results, r)
	}

	sortResults(results, q.SortBy, q.SortOrder)
	return paginate(results, q.Offset, q.Limit), nil
}

// buildFilter translates query filters into the store's relational
// predicate. Year/month derive date bounds and combine with explicit
// from/to by tightening: the later lower bound and the earlier upper bound
// win. A month without a year is ignored.
func buildFilter(q query.Query) store.Filter {
	f := store.Filter{
		People: q.People,
		Tags:   q.Tags,
		Events: q.Events,
		Cities: q.Cities,
		Themes: q.Themes,

		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,

		MinWords:       q.MinWords,
		MaxWords:       q.MaxWords,
		MinReadingTime: q.MinReadingTime,
		MaxReadingTime: q.MaxReadingTime,

		HasManuscript:    q.HasManuscript,
		ManuscriptStatus: q.ManuscriptStatus,
	}

	if q.Year != nil {
		from := fmt.Sprintf("%04d-01-01", *q.Year)
		to := fmt.Sprintf("%04d-12-31", *q.Year)
		if q.Month != nil {
			first := time.Date(*q.Year, time.Month(*q.Month), 1, 0, 0, 0, 0, time.UTC)
			last := first.AddDate(0, 1, -1)
			from = first.Format("2006-01-02")
			to = last.Format("2006-01-02")
		}
		// ISO strings compare lexicographically, so max/min is string compare.
		if f.DateFrom == "" || from > f.DateFrom {
			f.DateFrom = from
		}
		if f.DateTo == "" || to < f.DateTo {
			f.DateTo = to
		}
	}

	return f
}

// sortResults orders results in place. Unknown sort keys mean relevance.
// Sorting is always ascending and stable, then reversed for descending
// order, so flipping the order yields the exact reverse sequence.
func sortResults(rs []Result, sortBy, order string) {
	var less func(a, b Result) bool
	switch sortBy {
	case query.SortDate:
		less = func(a, b Result) bool { return a.Entry.Date < b.Entry.Date }
	case query.SortWordCount:
		less = func(a, b Result) bool { return a.Entry.WordCount < b.Entry.WordCount }
	default:
		less = func(a, b Result) bool { return a.Score < b.Score }
	}
	sort.SliceStable(rs, func(i, j int) bool { return less(rs[i], rs[j]) })
	if order != query.OrderAsc {
		for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
			rs[i], rs[j] = rs[j], rs[i]
		}
	}
}

func paginate(rs []Result, offset, limit int) []Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rs) {
		return []Result{}
	}
	rs = rs[offset:]
	if limit > 0 && limit < len(rs) {
		rs = rs[:limit]
	}
	return rs
}
