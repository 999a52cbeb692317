package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/format"
)

var lsLong bool

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		metas, err := svc.List(cmd.Context())
		if err != nil {
			return PrintJSONError(fmt.Errorf("list entries: %w", err))
		}

		if JSON() {
			return PrintJSON(metas)
		}
		if lsLong {
			return format.Long(out, metas)
		}
		return format.List(out, metas)
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "Long format with word counts and dates")
	rootCmd.AddCommand(lsCmd)
}
