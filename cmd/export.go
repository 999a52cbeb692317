package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/frontmatter"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export an entry as markdown",
	Long: `Writes an entry as a markdown document with YAML front matter, the
same shape 'add' and 'edit' accept. Useful for editing an entry in an
external editor and feeding it back through 'edit'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid entry id %q", args[0]))
		}

		defer func() {
			log.Event("journal:export", "read").Author(Author()).EntryID(id).Write(err)
		}()

		ctx := cmd.Context()
		e, err := svc.Entry(ctx, id)
		if err != nil {
			return PrintJSONError(fmt.Errorf("export %d: %w", id, err))
		}

		rels := make(map[string][]string)
		for _, field := range store.RelFields {
			vs, err2 := svc.EntryValues(ctx, id, field)
			if err2 != nil {
				err = err2
				return PrintJSONError(err)
			}
			rels[field] = vs
		}

		doc, err := frontmatter.Render(frontmatter.Meta{
			Date:       e.Date,
			Title:      e.Title,
			Epigraph:   e.Epigraph,
			Notes:      e.Notes,
			People:     rels[store.FieldPeople],
			Tags:       rels[store.FieldTags],
			Events:     rels[store.FieldEvents],
			Cities:     rels[store.FieldCities],
			Themes:     rels[store.FieldThemes],
			Manuscript: e.HasManuscript,
			Status:     e.ManuscriptStatus,
		}, e.Body)
		if err != nil {
			return PrintJSONError(fmt.Errorf("export %d: %w", id, err))
		}

		if JSON() {
			return PrintJSON(map[string]any{"id": id, "content": doc})
		}
		fmt.Fprint(out, doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
