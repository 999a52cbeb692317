package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soffiafdz/palimpsest-sub003/internal/config"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration",
	Long: `With no arguments, lists all configuration values. With a key, prints its
value. With a key and value, sets it.

Config is read from .palimpsest/config.yaml when present, otherwise from
~/.palimpsest/config.yaml. Writes go to the global file unless --local is
given.

Keys: author.name, author.email, search.default_limit,
search.candidate_cap, limits.max_content.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		scope := config.ScopeGlobal
		if configLocal {
			scope = config.ScopeLocal
		}

		// List everything
		if len(args) == 0 {
			cfg, err := config.Load()
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				values := make(map[string]string)
				for _, key := range config.ValidKeys() {
					values[key], _ = cfg.Get(key)
				}
				return PrintJSON(values)
			}
			for _, key := range config.ValidKeys() {
				v, _ := cfg.Get(key)
				fmt.Fprintf(out, "%s = %s\n", key, v)
			}
			return nil
		}

		key := args[0]
		if !config.IsValidKey(key) {
			return PrintJSONError(fmt.Errorf("%w: %s (valid: %v)",
				config.ErrUnknownKey, key, config.ValidKeys()))
		}

		// Get one key
		if len(args) == 1 {
			cfg, err := config.Load()
			if err != nil {
				return PrintJSONError(err)
			}
			v, err := cfg.Get(key)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(map[string]string{key: v})
			}
			fmt.Fprintln(out, v)
			return nil
		}

		// Set
		cfg, err := config.LoadScope(scope)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := cfg.Set(key, args[1]); err != nil {
			return PrintJSONError(err)
		}
		if err := cfg.SaveScope(scope); err != nil {
			return PrintJSONError(err)
		}

		if JSON() {
			return PrintJSON(map[string]string{key: args[1]})
		}
		fmt.Fprintf(out, "%s = %s\n", key, args[1])
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configLocal, "local", false, "Use journal-local config (.palimpsest/config.yaml)")
	rootCmd.AddCommand(configCmd)
}
