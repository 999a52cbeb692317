package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the full-text index",
	Long: `The full-text index is a derived cache over entry text. It is normally
kept current by database triggers; these commands inspect it, create it for
journals that predate indexing, and rebuild it when it is suspected stale.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report index health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := svc.IndexStatus(cmd.Context())
		if err != nil {
			return PrintJSONError(fmt.Errorf("index status: %w", err))
		}

		if JSON() {
			return PrintJSON(st)
		}
		if !st.Exists {
			fmt.Fprintln(out, "Index: missing (run 'palimpsest index create')")
			return nil
		}
		fmt.Fprintf(out, "Index: ok, %d entries\n", st.Entries)
		return nil
	},
}

var indexCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and populate the index",
	Long:  `Creates the full-text index and its sync triggers if absent, then populates it from the journal. Idempotent.`,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		var n int
		defer func() {
			log.Event("journal:index", "index").Author(Author()).Count(n).Write(err)
		}()

		n, err = svc.CreateIndex(cmd.Context())
		if err != nil {
			return PrintJSONError(fmt.Errorf("create index: %w", err))
		}

		if JSON() {
			return PrintJSON(map[string]int{"indexed": n})
		}
		fmt.Fprintf(out, "Indexed %d entries\n", n)
		return nil
	},
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Drop and fully repopulate the index",
	Long:  `The authoritative recovery path when the index is suspected stale. The rebuild is transactional: readers see the old index until it completes.`,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		var n int
		defer func() {
			log.Event("journal:index", "rebuild").Author(Author()).Count(n).Write(err)
		}()

		n, err = svc.RebuildIndex(cmd.Context())
		if err != nil {
			return PrintJSONError(fmt.Errorf("rebuild index: %w", err))
		}

		if JSON() {
			return PrintJSON(map[string]int{"indexed": n})
		}
		fmt.Fprintf(out, "Rebuilt index with %d entries\n", n)
		return nil
	},
}

func init() {
	indexCmd.AddCommand(indexStatusCmd, indexCreateCmd, indexRebuildCmd)
	rootCmd.AddCommand(indexCmd)
}
