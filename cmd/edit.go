package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/frontmatter"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> [file]",
	Short: "Replace an entry's content",
	Long: `Replaces an entry with a new markdown document, read from a file or
stdin when no file is given. The document has the same shape 'add' accepts:
YAML front matter for metadata, body below. Relational values are replaced
by the front matter's; the entry keeps its date unless the front matter
sets one. 'export' produces a document this command accepts unchanged.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid entry id %q", args[0]))
		}

		defer func() {
			log.Event("journal:edit", "write").Author(Author()).EntryID(id).Write(err)
		}()

		content, err := readInput(args[1:])
		if err != nil {
			return PrintJSONError(err)
		}
		meta, body, err := frontmatter.Parse(content)
		if err != nil {
			return PrintJSONError(err)
		}

		ctx := cmd.Context()
		existing, err := svc.Entry(ctx, id)
		if err != nil {
			return PrintJSONError(fmt.Errorf("edit %d: %w", id, err))
		}

		date := existing.Date
		if meta.Date != "" {
			date = meta.Date
		}

		err = svc.Update(ctx, store.Entry{
			ID:               id,
			Date:             date,
			Title:            meta.Title,
			Body:             body,
			Epigraph:         meta.Epigraph,
			Notes:            meta.Notes,
			HasManuscript:    meta.Manuscript,
			ManuscriptStatus: meta.Status,
		})
		if err != nil {
			return PrintJSONError(fmt.Errorf("edit %d: %w", id, err))
		}

		// The document replaces the entry wholesale, relations included.
		rels := map[string][]string{
			store.FieldPeople: meta.People,
			store.FieldTags:   meta.Tags,
			store.FieldEvents: meta.Events,
			store.FieldCities: meta.Cities,
			store.FieldThemes: meta.Themes,
		}
		for _, field := range store.RelFields {
			current, err2 := svc.EntryValues(ctx, id, field)
			if err2 != nil {
				err = err2
				return PrintJSONError(err)
			}
			for _, v := range current {
				if err = svc.Detach(ctx, id, field, v); err != nil {
					return PrintJSONError(fmt.Errorf("detach %s %q: %w", field, v, err))
				}
			}
			for _, v := range rels[field] {
				if err = svc.Attach(ctx, id, field, v); err != nil {
					return PrintJSONError(fmt.Errorf("attach %s %q: %w", field, v, err))
				}
			}
		}

		if JSON() {
			return PrintJSON(map[string]any{"id": id, "date": date})
		}
		fmt.Fprintf(out, "Updated entry %d (%s)\n", id, date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
