package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/format"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Manage relational metadata",
	Long: `Attaches, detaches, and lists relational values on entries. Fields:
people, tags, events, cities, themes. Matching is case-insensitive.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var metaAddCmd = &cobra.Command{
	Use:   "add <id> <field> <value>",
	Short: "Attach a value to an entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid entry id %q", args[0]))
		}

		defer func() {
			log.Event("journal:meta", "write").Author(Author()).EntryID(id).
				Detail("field", args[1]).Detail("value", args[2]).Write(err)
		}()

		if err = svc.Attach(cmd.Context(), id, args[1], args[2]); err != nil {
			return PrintJSONError(fmt.Errorf("meta add: %w", err))
		}

		if JSON() {
			return PrintJSON(map[string]any{"id": id, "field": args[1], "value": args[2]})
		}
		fmt.Fprintf(out, "Attached %s %q to entry %d\n", args[1], args[2], id)
		return nil
	},
}

var metaRmCmd = &cobra.Command{
	Use:   "rm <id> <field> <value>",
	Short: "Detach a value from an entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid entry id %q", args[0]))
		}

		defer func() {
			log.Event("journal:meta", "delete").Author(Author()).EntryID(id).
				Detail("field", args[1]).Detail("value", args[2]).Write(err)
		}()

		if err = svc.Detach(cmd.Context(), id, args[1], args[2]); err != nil {
			return PrintJSONError(fmt.Errorf("meta rm: %w", err))
		}

		if JSON() {
			return PrintJSON(map[string]any{"id": id, "field": args[1], "value": args[2]})
		}
		fmt.Fprintf(out, "Detached %s %q from entry %d\n", args[1], args[2], id)
		return nil
	},
}

var metaLsCmd = &cobra.Command{
	Use:   "ls <field> [id]",
	Short: "List values for a field",
	Long:  `Lists every distinct value recorded for a field across the journal, or the values attached to one entry when an id is given.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var values []string
		var err error
		if len(args) == 2 {
			id, convErr := strconv.ParseInt(args[1], 10, 64)
			if convErr != nil {
				return PrintJSONError(fmt.Errorf("invalid entry id %q", args[1]))
			}
			values, err = svc.EntryValues(ctx, id, args[0])
		} else {
			values, err = svc.Values(ctx, args[0])
		}
		if err != nil {
			return PrintJSONError(fmt.Errorf("meta ls: %w", err))
		}

		if JSON() {
			return PrintJSON(values)
		}
		return format.Values(out, values)
	},
}

func init() {
	metaCmd.AddCommand(metaAddCmd, metaRmCmd, metaLsCmd)
	rootCmd.AddCommand(metaCmd)
}
