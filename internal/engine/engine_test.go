package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soffiafdz/palimpsest-sub003/internal/index"
	"github.com/soffiafdz/palimpsest-sub003/internal/query"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

type env struct {
	store  *store.SQLiteStore
	index  *index.Manager
	engine *Engine
}

func newEnv(t *testing.T, withIndex bool) *env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, st.Init())
	t.Cleanup(func() { _ = st.Close() })

	m := index.New(st.DB())
	if withIndex {
		ctx := context.Background()
		require.NoError(t, m.Create(ctx))
		require.NoError(t, m.InstallSync(ctx))
	}
	return &env{store: st, index: m, engine: New(st, m)}
}

func (e *env) add(t *testing.T, date, body string, rels map[string][]string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := e.store.Add(ctx, store.Entry{Date: date, Body: body}, store.WriteOptions{})
	require.NoError(t, err)
	for field, values := range rels {
		for _, v := range values {
			require.NoError(t, e.store.Attach(ctx, id, field, v))
		}
	}
	return id
}

func ids(rs []Result) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.Entry.ID
	}
	return out
}

func TestEmptyQueryBrowsesAll(t *testing.T) {
	e := newEnv(t, true)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		e.add(t, d, "entry text", nil)
	}

	rs, err := e.engine.Search(context.Background(), query.Parse(""))
	require.NoError(t, err)
	assert.Len(t, rs, 3)
	for _, r := range rs {
		assert.Zero(t, r.Score)
		assert.Empty(t, r.Snippet)
	}
}

func TestEmptyQueryHonorsLimitOffset(t *testing.T) {
	e := newEnv(t, true)
	var all []int64
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		all = append(all, e.add(t, d, "entry", nil))
	}

	q := query.Parse("sort:date order:asc limit:2 offset:2")
	rs, err := e.engine.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []int64{all[2], all[3]}, ids(rs))
}

func TestTextSearchRanksAndSnippets(t *testing.T) {
	e := newEnv(t, true)
	e.add(t, "2024-01-01", "alice went to therapy", map[string][]string{store.FieldPeople: {"Alice"}})
	e.add(t, "2024-01-02", "bob went shopping", map[string][]string{store.FieldPeople: {"Bob"}})
	e.add(t, "2024-01-03", "alice had a great therapy session", map[string][]string{store.FieldPeople: {"Alice"}})

	rs, err := e.engine.Search(context.Background(), query.Parse("therapy person:Alice"))
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.GreaterOrEqual(t, rs[0].Score, rs[1].Score)
	for _, r := range rs {
		assert.Greater(t, r.Score, 0.0)
		assert.Contains(t, r.Snippet, "therapy")
	}
}

func TestTextMissShortCircuits(t *testing.T) {
	e := newEnv(t, true)
	e.add(t, "2024-01-01", "a quiet day", map[string][]string{store.FieldTags: {"calm"}})

	// Permissive filter, but the text has no hits: no results.
	rs, err := e.engine.Search(context.Background(), query.Parse("zeppelin tag:calm"))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestIndexUnavailableFallsBackRelational(t *testing.T) {
	e := newEnv(t, false) // index never created
	e.add(t, "2024-01-01", "therapy notes", map[string][]string{store.FieldTags: {"health"}})
	e.add(t, "2024-01-02", "garden notes", nil)

	rs, err := e.engine.Search(context.Background(), query.Parse("therapy tag:health"))
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Zero(t, rs[0].Score)
	assert.Empty(t, rs[0].Snippet)
}

func TestFilterSemantics(t *testing.T) {
	e := newEnv(t, true)
	a := e.add(t, "2024-01-01", "one", map[string][]string{store.FieldPeople: {"A"}})
	b := e.add(t, "2024-01-02", "two", map[string][]string{store.FieldPeople: {"B"}})
	ab := e.add(t, "2024-01-03", "three", map[string][]string{
		store.FieldPeople: {"A", "B"},
		store.FieldTags:   {"X"},
	})

	ctx := context.Background()

	// OR within a field: person:A person:B matches all three.
	rs, err := e.engine.Search(ctx, query.Parse("person:A person:B sort:date order:asc"))
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b, ab}, ids(rs))

	// AND across fields: person:A tag:X matches only the entry with both.
	rs, err = e.engine.Search(ctx, query.Parse("person:A tag:X"))
	require.NoError(t, err)
	assert.Equal(t, []int64{ab}, ids(rs))
}

func TestFilterCaseInsensitive(t *testing.T) {
	e := newEnv(t, true)
	id := e.add(t, "2024-01-01", "entry", map[string][]string{store.FieldCities: {"Montreal"}})

	rs, err := e.engine.Search(context.Background(), query.Parse("city:montreal"))
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(rs))
}

func TestYearMonthBounds(t *testing.T) {
	e := newEnv(t, true)
	in := e.add(t, "2024-03-15", "entry", nil)
	e.add(t, "2024-04-01", "entry", nil)
	e.add(t, "2023-03-15", "entry", nil)

	ctx := context.Background()

	rs, err := e.engine.Search(ctx, query.Parse("in:2024 month:3"))
	require.NoError(t, err)
	assert.Equal(t, []int64{in}, ids(rs))

	rs, err = e.engine.Search(ctx, query.Parse("in:2024"))
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	// A month without a year is ignored, not an error.
	rs, err = e.engine.Search(ctx, query.Parse("month:3"))
	require.NoError(t, err)
	assert.Len(t, rs, 3)
}

func TestInvertedRangeMatchesNothing(t *testing.T) {
	e := newEnv(t, true)
	e.add(t, "2024-01-01", "some words here", nil)

	rs, err := e.engine.Search(context.Background(), query.Parse("words:500-100"))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestSortDateReversalIsExact(t *testing.T) {
	e := newEnv(t, true)
	// Two entries share a date: the tie must reverse along with the rest.
	e.add(t, "2024-01-02", "b1", nil)
	e.add(t, "2024-01-02", "b2", nil)
	e.add(t, "2024-01-01", "a", nil)
	e.add(t, "2024-01-03", "c", nil)

	ctx := context.Background()
	asc, err := e.engine.Search(ctx, query.Parse("sort:date order:asc"))
	require.NoError(t, err)
	desc, err := e.engine.Search(ctx, query.Parse("sort:date order:desc"))
	require.NoError(t, err)

	require.Len(t, asc, 4)
	ascIDs, descIDs := ids(asc), ids(desc)
	for i := range ascIDs {
		assert.Equal(t, ascIDs[i], descIDs[len(descIDs)-1-i])
	}
}

func TestSortWordCount(t *testing.T) {
	e := newEnv(t, true)
	long := e.add(t, "2024-01-01", "one two three four five", nil)
	short := e.add(t, "2024-01-02", "one", nil)

	rs, err := e.engine.Search(context.Background(), query.Parse("sort:word_count"))
	require.NoError(t, err)
	assert.Equal(t, []int64{long, short}, ids(rs))

	rs, err = e.engine.Search(context.Background(), query.Parse("sort:word_count order:asc"))
	require.NoError(t, err)
	assert.Equal(t, []int64{short, long}, ids(rs))
}

func TestUnknownSortMeansRelevance(t *testing.T) {
	e := newEnv(t, true)
	e.add(t, "2024-01-01", "therapy therapy therapy", nil)
	e.add(t, "2024-01-02", "therapy and a lot of other words besides about the day", nil)

	rs, err := e.engine.Search(context.Background(), query.Parse("therapy sort:mood"))
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.GreaterOrEqual(t, rs[0].Score, rs[1].Score)
}

func TestPagination(t *testing.T) {
	e := newEnv(t, true)
	var all []int64
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		all = append(all, e.add(t, d, "entry", nil))
	}

	rs, err := e.engine.Search(context.Background(),
		query.Parse("sort:date order:asc limit:2 offset:2"))
	require.NoError(t, err)
	assert.Equal(t, []int64{all[2], all[3]}, ids(rs))

	// Offset past the end is an empty page, not an error.
	rs, err = e.engine.Search(context.Background(), query.Parse("offset:99"))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestScalarFilters(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	id, err := e.store.Add(ctx, store.Entry{
		Date: "2024-01-01", Body: "one two three",
		HasManuscript: true, ManuscriptStatus: "draft",
	}, store.WriteOptions{})
	require.NoError(t, err)
	_, err = e.store.Add(ctx, store.Entry{Date: "2024-01-02", Body: "one"}, store.WriteOptions{})
	require.NoError(t, err)

	rs, err := e.engine.Search(ctx, query.Parse("has:manuscript"))
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(rs))

	rs, err = e.engine.Search(ctx, query.Parse("status:draft"))
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(rs))

	rs, err = e.engine.Search(ctx, query.Parse("words:2-"))
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(rs))
}

func TestCandidateCapRestrictsTextCandidates(t *testing.T) {
	e := newEnv(t, true)
	for i := 0; i < 4; i++ {
		e.add(t, "2024-01-01", "evening walk by the canal", nil)
	}
	e.engine.Cap = 2

	rs, err := e.engine.Search(context.Background(), query.Parse("canal"))
	require.NoError(t, err)
	assert.Len(t, rs, 2)
}

func TestEndToEnd(t *testing.T) {
	e := newEnv(t, true)
	e.add(t, "2024-01-01", "alice went to therapy", map[string][]string{store.FieldPeople: {"Alice"}})
	e.add(t, "2024-01-02", "bob went shopping", map[string][]string{store.FieldPeople: {"Bob"}})
	e.add(t, "2024-01-03", "alice had a great therapy session", map[string][]string{store.FieldPeople: {"Alice"}})

	rs, err := e.engine.Search(context.Background(), query.Parse("therapy person:Alice"))
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.True(t, rs[0].Score >= rs[1].Score)
	for _, r := range rs {
		assert.NotEmpty(t, r.Snippet)
		assert.Contains(t, r.Snippet, "therapy")
		assert.Contains(t, r.Entry.Body, "alice")
	}
}
