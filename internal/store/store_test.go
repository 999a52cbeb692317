package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustAdd(t *testing.T, s *SQLiteStore, e Entry) int64 {
	t.Helper()
	id, err := s.Add(context.Background(), e, WriteOptions{})
	require.NoError(t, err)
	return id
}

func TestAddComputesDerivedFields(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{
		Date:  "2024-03-01",
		Title: "Hard day",
		Body:  "one two three four",
	})

	e, err := s.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, e.WordCount)
	assert.InDelta(t, 4.0/200.0, e.ReadingTime, 1e-9)
	assert.Equal(t, "Hard day", e.Title)
	assert.NotZero(t, e.CreatedAt)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestAddRejectsBadDate(t *testing.T) {
	s := testStore(t)

	_, err := s.Add(context.Background(), Entry{Date: "March 1st", Body: "x"}, WriteOptions{})
	assert.ErrorIs(t, err, ErrBadDate)

	_, err = s.Add(context.Background(), Entry{Date: "", Body: "x"}, WriteOptions{})
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestAddRejectsOversizedContent(t *testing.T) {
	s := testStore(t)

	_, err := s.Add(context.Background(),
		Entry{Date: "2024-01-01", Body: "0123456789"},
		WriteOptions{MaxContent: 5})
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestByIDNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.ByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByDate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "morning"})
	second := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "evening"})
	mustAdd(t, s, Entry{Date: "2024-03-02", Body: "next day"})

	entries, err := s.ByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].ID)
	assert.Equal(t, second, entries[1].ID)
}

func TestAllOrderedByDate(t *testing.T) {
	s := testStore(t)

	late := mustAdd(t, s, Entry{Date: "2024-06-01", Body: "later"})
	early := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "earlier"})

	entries, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, early, entries[0].ID)
	assert.Equal(t, late, entries[1].ID)
}

func TestUpdate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "draft text"})
	e, err := s.ByID(ctx, id)
	require.NoError(t, err)

	e.Body = "rewritten with five words now"
	e.Title = "Rewrite"
	require.NoError(t, s.Update(ctx, *e, WriteOptions{}))

	got, err := s.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rewrite", got.Title)
	assert.Equal(t, 5, got.WordCount)

	missing := Entry{ID: 999, Date: "2024-01-01", Body: "x"}
	assert.ErrorIs(t, s.Update(ctx, missing, WriteOptions{}), ErrNotFound)
}

func TestDeleteCascadesRelations(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "x"})
	require.NoError(t, s.Attach(ctx, id, FieldPeople, "Alice"))

	require.NoError(t, s.Delete(ctx, id))

	people, err := s.Values(ctx, FieldPeople)
	require.NoError(t, err)
	assert.Empty(t, people)

	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestAttachIdempotentCaseInsensitive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "x"})
	require.NoError(t, s.Attach(ctx, id, FieldTags, "Therapy"))
	require.NoError(t, s.Attach(ctx, id, FieldTags, "therapy"))
	require.NoError(t, s.Attach(ctx, id, FieldTags, "THERAPY"))

	tags, err := s.EntryValues(ctx, id, FieldTags)
	require.NoError(t, err)
	// First recorded casing wins for display.
	assert.Equal(t, []string{"Therapy"}, tags)
}

func TestAttachValidation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "x"})

	assert.ErrorIs(t, s.Attach(ctx, id, "moods", "happy"), ErrUnknownField)
	assert.Error(t, s.Attach(ctx, id, FieldTags, "  "))
	assert.ErrorIs(t, s.Attach(ctx, 999, FieldTags, "x"), ErrNotFound)
}

func TestDetach(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "x"})
	require.NoError(t, s.Attach(ctx, id, FieldCities, "Montreal"))

	require.NoError(t, s.Detach(ctx, id, FieldCities, "montreal"))
	assert.ErrorIs(t, s.Detach(ctx, id, FieldCities, "montreal"), ErrNotFound)
}

func TestValuesDistinctSorted(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := mustAdd(t, s, Entry{Date: "2024-03-01", Body: "x"})
	b := mustAdd(t, s, Entry{Date: "2024-03-02", Body: "y"})
	require.NoError(t, s.Attach(ctx, a, FieldThemes, "Grief"))
	require.NoError(t, s.Attach(ctx, b, FieldThemes, "grief"))
	require.NoError(t, s.Attach(ctx, b, FieldThemes, "Belonging"))

	themes, err := s.Values(ctx, FieldThemes)
	require.NoError(t, err)
	assert.Equal(t, []string{"Belonging", "Grief"}, themes)
}

func TestFilteredRelational(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "x"})
	b := mustAdd(t, s, Entry{Date: "2024-01-02", Body: "y"})
	ab := mustAdd(t, s, Entry{Date: "2024-01-03", Body: "z"})
	require.NoError(t, s.Attach(ctx, a, FieldPeople, "A"))
	require.NoError(t, s.Attach(ctx, b, FieldPeople, "B"))
	require.NoError(t, s.Attach(ctx, ab, FieldPeople, "A"))
	require.NoError(t, s.Attach(ctx, ab, FieldPeople, "B"))
	require.NoError(t, s.Attach(ctx, ab, FieldTags, "X"))

	// OR within a field.
	entries, err := s.Filtered(ctx, Filter{People: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// AND across fields.
	entries, err = s.Filtered(ctx, Filter{People: []string{"A"}, Tags: []string{"X"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ab, entries[0].ID)
}

func TestFilteredScalarRanges(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	short := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "one two"})
	long := mustAdd(t, s, Entry{Date: "2024-02-01", Body: "one two three four five six"})

	lo := 3
	entries, err := s.Filtered(ctx, Filter{MinWords: &lo})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, long, entries[0].ID)

	entries, err = s.Filtered(ctx, Filter{DateTo: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, short, entries[0].ID)

	// Inverted range matches nothing, no clamping.
	minW, maxW := 10, 2
	entries, err = s.Filtered(ctx, Filter{MinWords: &minW, MaxWords: &maxW})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFilteredIDRestriction(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "x"})
	mustAdd(t, s, Entry{Date: "2024-01-02", Body: "y"})

	entries, err := s.Filtered(ctx, Filter{IDs: []int64{a}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a, entries[0].ID)

	// Explicitly empty set matches nothing; nil set matches everything.
	entries, err = s.Filtered(ctx, Filter{IDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = s.Filtered(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFilteredManuscript(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ms := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "x", HasManuscript: true, ManuscriptStatus: "draft"})
	mustAdd(t, s, Entry{Date: "2024-01-02", Body: "y"})

	yes := true
	entries, err := s.Filtered(ctx, Filter{HasManuscript: &yes})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ms, entries[0].ID)

	entries, err = s.Filtered(ctx, Filter{ManuscriptStatus: "draft"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListMetaAndCount(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustAdd(t, s, Entry{Date: "2024-01-01", Title: "First", Body: "one two"})
	mustAdd(t, s, Entry{Date: "2024-01-02", Body: "three"})

	metas, err := s.ListMeta(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "First", metas[0].Title)
	assert.Equal(t, 2, metas[0].WordCount)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := mustAdd(t, s, Entry{Date: "2024-01-01", Body: "one two three", HasManuscript: true})
	b := mustAdd(t, s, Entry{Date: "2024-02-01", Body: "four five"})
	require.NoError(t, s.Attach(ctx, a, FieldPeople, "Alice"))
	require.NoError(t, s.Attach(ctx, b, FieldPeople, "alice"))
	require.NoError(t, s.Attach(ctx, b, FieldCities, "Montreal"))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Entries)
	assert.Equal(t, int64(5), st.Words)
	assert.Equal(t, int64(1), st.People) // case-insensitive distinct
	assert.Equal(t, int64(1), st.Cities)
	assert.Equal(t, int64(1), st.Manuscripts)
	assert.Equal(t, "2024-01-01", st.OldestDate)
	assert.Equal(t, "2024-02-01", st.NewestDate)
	assert.InDelta(t, 2.5, st.AvgWordCount, 1e-9)
}

func TestSearchableText(t *testing.T) {
	e := Entry{Title: "T", Body: "B", Notes: "N"}
	assert.Equal(t, "T\nB\nN", e.SearchableText())

	e = Entry{Body: "only body"}
	assert.Equal(t, "only body", e.SearchableText())
}
