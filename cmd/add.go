package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/frontmatter"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

var (
	addDate  string
	addTitle string
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a journal entry",
	Long: `Adds an entry from a markdown file, or from stdin when no file is given.

YAML front matter supplies metadata (date, title, epigraph, people, tags,
events, cities, themes, manuscript, status) and is stripped before storage,
so it never pollutes full-text search. The entry date comes from front
matter, the --date flag, or defaults to today.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var id int64
		defer func() {
			log.Event("journal:add", "write").Author(Author()).EntryID(id).Write(err)
		}()

		content, err := readInput(args)
		if err != nil {
			return PrintJSONError(err)
		}

		meta, body, err := frontmatter.Parse(content)
		if err != nil {
			return PrintJSONError(err)
		}

		date := meta.Date
		if addDate != "" {
			date = addDate
		}
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		title := meta.Title
		if addTitle != "" {
			title = addTitle
		}

		ctx := cmd.Context()
		id, err = svc.Add(ctx, store.Entry{
			Date:             date,
			Title:            title,
			Body:             body,
			Epigraph:         meta.Epigraph,
			Notes:            meta.Notes,
			HasManuscript:    meta.Manuscript,
			ManuscriptStatus: meta.Status,
		})
		if err != nil {
			return PrintJSONError(fmt.Errorf("add entry: %w", err))
		}

		rels := map[string][]string{
			store.FieldPeople: meta.People,
			store.FieldTags:   meta.Tags,
			store.FieldEvents: meta.Events,
			store.FieldCities: meta.Cities,
			store.FieldThemes: meta.Themes,
		}
		for _, field := range store.RelFields {
			for _, v := range rels[field] {
				if err = svc.Attach(ctx, id, field, v); err != nil {
					return PrintJSONError(fmt.Errorf("attach %s %q: %w", field, v, err))
				}
			}
		}

		if JSON() {
			return PrintJSON(map[string]any{"id": id, "date": date})
		}
		fmt.Fprintf(out, "Added entry %d (%s)\n", id, date)
		return nil
	},
}

// readInput reads entry content from the named file, or stdin when no file
// (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Entry date (YYYY-MM-DD, overrides front matter)")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Entry title (overrides front matter)")
	rootCmd.AddCommand(addCmd)
}
