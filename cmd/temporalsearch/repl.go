package main

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

type replCmdOptions struct {
	storeFlags
	format  string
	explain bool
}

func newReplCmd() *cobra.Command {
	opts := &replCmdOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive query session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, opts)
		},
	}

	registerStoreFlags(cmd, &opts.storeFlags)
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or csv")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print a trace of parsing, execution and projection to stderr")

	return cmd
}

func runRepl(cmd *cobra.Command, opts *replCmdOptions) error {
	cfg, err := resolveConfig(cmd, &opts.storeFlags)
	if err != nil {
		return err
	}

	eng, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	cmd.Println("temporalsearch interactive mode. Enter a query, or .exit to quit.")
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ".exit":
			return nil
		case line == ".help":
			cmd.Println("Enter a SELECT ... FROM ... query, or .exit to quit.")
		default:
			out, _, err := eng.runQuery(cmd.Context(), line, queryOptions{format: opts.format, explain: opts.explain})
			if err != nil {
				cmd.PrintErrln("Error:", err)
				continue
			}
			cmd.Println(out)
		}
	}
}
