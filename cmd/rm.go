package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an entry",
	Long:  `Deletes an entry permanently, along with its relational metadata and its full-text index row.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid entry id %q", args[0]))
		}

		defer func() {
			log.Event("journal:rm", "delete").Author(Author()).EntryID(id).Write(err)
		}()

		if err = svc.Delete(cmd.Context(), id); err != nil {
			return PrintJSONError(fmt.Errorf("rm %d: %w", id, err))
		}

		if JSON() {
			return PrintJSON(map[string]any{"deleted": id})
		}
		fmt.Fprintf(out, "Deleted entry %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
