package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditReplacesContent(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("walked to the harbour\n", "add", "--date", "2024-01-01")

	out := env.runStdin("---\ntitle: Revised\n---\nrode the ferry instead\n", "edit", "1")
	assert.Contains(t, out, "Updated entry 1 (2024-01-01)")

	out = env.run("show", "1", "--raw")
	assert.Contains(t, out, "rode the ferry instead")
	assert.NotContains(t, out, "harbour")

	// Sync triggers keep the index current through updates.
	out = env.run("search", "ferry")
	assert.Contains(t, out, "2024-01-01")
	out = env.run("search", "harbour")
	assert.Contains(t, out, "No results")
}

func TestEditKeepsDateWithoutFrontMatter(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin("first draft\n", "add", "--date", "2024-05-10")

	env.runStdin("second draft\n", "edit", "1")
	out := env.run("ls")
	assert.Contains(t, out, "2024-05-10")
}

func TestEditReplacesRelations(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin(sampleEntry, "add")

	env.runStdin("---\npeople: [Bob]\n---\nnew body\n", "edit", "1")

	out := env.run("meta", "ls", "people", "1")
	assert.Contains(t, out, "Bob")
	assert.NotContains(t, out, "Alice")
}

func TestEditMissingEntryFails(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runStdinErr("body\n", "edit", "42")
	require.Error(t, err)
	assert.Contains(t, out, "entry not found")
}

func TestExportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.runStdin(sampleEntry, "add")

	out := env.run("export", "1")
	assert.Contains(t, out, "date:")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "Hard day")
	assert.Contains(t, out, "- Alice")
	assert.Contains(t, out, "talked about mother")

	// The exported document feeds straight back through edit.
	env.runStdin(out, "edit", "1")

	show := env.run("show", "1", "--raw")
	assert.Contains(t, show, "Hard day")
	assert.Contains(t, show, "talked about mother")
	meta := env.run("meta", "ls", "people", "1")
	assert.Contains(t, meta, "Alice")
}
