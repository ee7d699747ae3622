package main

import (
	"github.com/spf13/cobra"
)

// queryCmdOptions holds every flag the query subcommand accepts.
type queryCmdOptions struct {
	storeFlags
	limit   int
	format  string
	explain bool
}

func newQueryCmd() *cobra.Command {
	opts := &queryCmdOptions{}

	cmd := &cobra.Command{
		Use:   "query <queryText>",
		Short: "Run a single query and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryCmd(cmd, args[0], opts)
		},
	}

	registerStoreFlags(cmd, &opts.storeFlags)
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "override the result limit (0: use the query's own LIMIT or the configured default)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or csv")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print a trace of parsing, execution and projection to stderr")

	return cmd
}

func runQueryCmd(cmd *cobra.Command, queryText string, opts *queryCmdOptions) error {
	cfg, err := resolveConfig(cmd, &opts.storeFlags)
	if err != nil {
		return err
	}

	eng, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	qopts := queryOptions{format: opts.format, explain: opts.explain}
	if opts.limit > 0 {
		qopts.limit = &opts.limit
	}

	out, _, err := eng.runQuery(cmd.Context(), queryText, qopts)
	if err != nil {
		return err
	}

	cmd.Println(out)
	return nil
}
