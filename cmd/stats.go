package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/format"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := svc.Stats(cmd.Context())
		if err != nil {
			return PrintJSONError(fmt.Errorf("stats: %w", err))
		}

		if JSON() {
			return PrintJSON(st)
		}
		return format.Stats(out, st)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
