package main

import (
	"github.com/spf13/cobra"
)

// configPath holds the --config flag shared by every subcommand.
var configPath string

// NewRootCmd builds the temporalsearch command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "temporalsearch",
		Short: "Query a temporal text corpus with a SQL-flavored grammar",
		Long: `temporalsearch searches a corpus of annotated documents for terms,
named entities, part-of-speech tags, dependency relations and dates,
using a small SQL-flavored query language.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/temporalsearch/config.yaml)")

	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newReplCmd())
	cmd.AddCommand(newDescribeCmd())

	return cmd
}
