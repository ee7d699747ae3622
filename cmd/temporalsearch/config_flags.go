package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Fredrikaaa/temporalsearch/internal/config"
)

// storeFlags holds the --indexes/--db overrides common to every subcommand
// that opens the corpus.
type storeFlags struct {
	indexes string
	db      string
}

// registerStoreFlags adds --indexes/--db to cmd.
func registerStoreFlags(cmd *cobra.Command, f *storeFlags) {
	cmd.Flags().StringVar(&f.indexes, "indexes", "", "path to the positional index (default: config's index_path)")
	cmd.Flags().StringVar(&f.db, "db", "", "path to the relational database (default: config's relational_db_path)")
}

// resolveConfig loads configuration from --config, layering any flags the
// caller actually set as sparse overrides on top.
func resolveConfig(cmd *cobra.Command, f *storeFlags) (config.Config, error) {
	path := configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	overrides := map[string]any{}
	if f != nil {
		if cmd.Flags().Changed("indexes") {
			overrides["index_path"] = f.indexes
		}
		if cmd.Flags().Changed("db") {
			overrides["relational_db_path"] = f.db
		}
	}

	// A missing default config file is not an error: Defaults() alone is a
	// valid configuration. An explicitly named --config file that's missing
	// still surfaces the I/O error.
	if path != "" && configPath == "" {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	return config.Load(path, overrides)
}
