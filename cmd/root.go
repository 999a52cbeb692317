// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE handles service creation lazily - only commands
// that need the journal open it. This enables bootstrap commands (init,
// config) to work without a journal existing. The noJournalCommands map
// controls which commands skip discovery.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/journal"
	"github.com/soffiafdz/palimpsest-sub003/internal/log"
)

// noJournalCommands can run without a discovered journal.
var noJournalCommands = map[string]bool{
	"init":       true,
	"config":     true,
	"help":       true,
	"completion": true,
}

// svc is the shared service handle, created lazily in PersistentPreRunE
// and closed by Execute.
var svc *journal.Service

var rootCmd = &cobra.Command{
	Use:   "palimpsest",
	Short: "Personal journal with full-text and relational search",
	Long:  `A personal journal store with markdown entries, relational metadata (people, tags, events, cities, themes), and a hybrid search language combining full-text relevance with typed filters.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if author == "" {
			author = detectAuthor()
		}

		if noJournalCommands[topLevelCmdName(cmd)] {
			return nil
		}

		var err error
		svc, err = openService()
		if err != nil {
			if JSON() {
				_ = PrintJSON(map[string]string{"error": err.Error()})
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
			}
			return err
		}
		log.SetJournal(svc.Dir())
		return nil
	},
}

// openService resolves the journal: explicit --dir first, discovery
// otherwise.
func openService() (*journal.Service, error) {
	if d := Dir(); d != "" {
		return journal.Open(d)
	}
	return journal.New()
}

// topLevelCmdName returns the name of the top-level command (direct child
// of root). For "palimpsest meta add 3 tag x", returns "meta".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and ensures the journal
// service is closed before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	err := rootCmd.Execute()

	if svc != nil {
		if closeErr := svc.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing journal: %v\n", closeErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}
