package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchEntries(env *testEnv) {
	env.runStdin(`---
date: 2024-01-01
people: [Alice]
---

alice went to therapy
`, "add")
	env.runStdin(`---
date: 2024-01-02
people: [Bob]
---

bob went shopping
`, "add")
	env.runStdin(`---
date: 2024-01-03
people: [Alice]
---

alice had a great therapy session
`, "add")
}

func TestSearchTextAndFilter(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	out := env.run("search", "therapy", "person:Alice")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Two entries, each with an entry line and a snippet line.
	assert.Len(t, lines, 4)
	assert.Contains(t, out, "therapy")
	assert.NotContains(t, out, "2024-01-02") // bob's entry excluded
}

func TestSearchTextMiss(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	out := env.run("search", "zeppelin", "person:Alice")
	assert.Contains(t, out, "No results")
}

func TestSearchBrowseAll(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	out := env.run("search")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-01-02")
	assert.Contains(t, out, "2024-01-03")
}

func TestSearchSortAndLimit(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	out := env.run("search", "sort:date", "order:asc", "limit:2")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-01-02")
	assert.NotContains(t, out, "2024-01-03")
}

func TestSearchJSON(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	out := env.run("search", "therapy", "-o", "json")
	var results []struct {
		Entry struct {
			ID   int64  `json:"id"`
			Date string `json:"date"`
		} `json:"entry"`
		Score   float64 `json:"score"`
		Snippet string  `json:"snippet"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0)
		assert.Contains(t, r.Snippet, "therapy")
	}
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchMalformedTokens(t *testing.T) {
	env := newTestEnv(t)
	seedSearchEntries(env)

	// Bad literals drop, unknown keys become free text; never an error.
	out := env.run("search", "therapy", "in:soon", "mood:happy")
	assert.Contains(t, out, "No results") // "mood:happy" is free text with no match
}
