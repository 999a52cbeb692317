package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/journal"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialise a new journal",
	Long:  `Creates a .palimpsest directory with the journal database, the full-text index, and the triggers that keep them in sync.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}

		err := journal.Init(Force(), target)
		log.Event("journal:init", "init").Author(Author()).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}

		if JSON() {
			return PrintJSON(map[string]string{"status": "initialised"})
		}
		fmt.Fprintln(out, "Initialised empty journal in .palimpsest")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
