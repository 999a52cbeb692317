package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/soffiafdz/palimpsest-sub003/internal/format"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
	"github.com/soffiafdz/palimpsest-sub003/internal/store"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <id|date>",
	Short: "Show an entry",
	Long:  `Shows an entry by id, or every entry written on an ISO date (YYYY-MM-DD). Output renders as styled markdown on a terminal; use --raw to disable.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		defer func() {
			log.Event("journal:show", "read").Author(Author()).Write(err)
		}()

		var entries []store.Entry
		if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
			e, err2 := svc.Entry(ctx, id)
			if err2 != nil {
				err = err2
				return PrintJSONError(fmt.Errorf("show %d: %w", id, err))
			}
			entries = []store.Entry{*e}
		} else {
			entries, err = svc.EntriesOn(ctx, args[0])
			if err != nil {
				return PrintJSONError(fmt.Errorf("show %s: %w", args[0], err))
			}
			if len(entries) == 0 {
				err = store.ErrNotFound
				return PrintJSONError(fmt.Errorf("show %s: %w", args[0], err))
			}
		}

		if JSON() {
			js := make([]store.EntryJSON, len(entries))
			for i := range entries {
				js[i] = entries[i].ToJSON(true)
			}
			return PrintJSON(js)
		}

		var buf bytes.Buffer
		for i := range entries {
			rels := make(map[string][]string)
			for _, field := range store.RelFields {
				vs, err2 := svc.EntryValues(ctx, entries[i].ID, field)
				if err2 != nil {
					err = err2
					return err
				}
				rels[field] = vs
			}
			if err = format.Entry(&buf, &entries[i], rels); err != nil {
				return err
			}
		}

		// Render with glamour if TTY and not --raw
		if !showRaw && term.IsTerminal(int(os.Stdout.Fd())) {
			if rendered, renderErr := glamour.Render(buf.String(), "dark"); renderErr == nil {
				fmt.Fprint(out, rendered)
				return nil
			}
		}
		fmt.Fprint(out, buf.String())
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Plain markdown output (no terminal styling)")
	rootCmd.AddCommand(showCmd)
}
