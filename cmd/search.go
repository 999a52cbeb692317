package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/format"
	"github.com/soffiafdz/palimpsest-sub003/internal/journal"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search entries",
	Long: `Searches entries with a hybrid query language: free text is ranked by
relevance against the full-text index, key:value tokens filter relationally.

Recognised filters: person:/people:, tag:, event:, city:, theme:, in:/year:,
month:, from:, to:, words:N[-M], time:N[-M], has:manuscript, status:,
sort:relevance|date|word_count, order:asc|desc, limit:, offset:.

Examples:
  palimpsest search therapy in:2024 words:100-500
  palimpsest search person:alice tag:reflection sort:date
  palimpsest search "alice city:montreal limit:20"`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		raw := strings.Join(args, " ")
		q := journal.ParseQuery(raw)

		results, err := svc.Search(cmd.Context(), q)
		log.Event("journal:search", "search").
			Author(Author()).
			Detail("query", raw).
			Count(len(results)).
			Write(err)
		if err != nil {
			return PrintJSONError(fmt.Errorf("search: %w", err))
		}

		if JSON() {
			return PrintJSON(results)
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No results")
			return nil
		}
		return format.SearchResults(out, results)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
