package main

import (
	"github.com/spf13/cobra"

	"github.com/Fredrikaaa/temporalsearch/internal/corpus"
)

func newDescribeCmd() *cobra.Command {
	opts := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "describe <source>",
		Short: "Report document/sentence counts and date range for a corpus",
		Long: `describe is a CLI-only convenience: it reports the document count,
sentence count, and timestamp range of the relational collaborator's
corpus. It never touches the query grammar or AST.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribeCmd(cmd, args[0], opts)
		},
	}

	registerStoreFlags(cmd, opts)
	return cmd
}

func runDescribeCmd(cmd *cobra.Command, source string, opts *storeFlags) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	store, err := corpus.Open(cfg.RelationalDBPath, false)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	cmd.Printf("Source: %s\n", source)
	cmd.Printf("Documents: %d\n", stats.DocumentCount)
	cmd.Printf("Sentences: %d\n", stats.SentenceCount)
	if stats.DocumentCount > 0 {
		cmd.Printf("Date range: %s to %s\n",
			stats.Earliest.Format("2006-01-02"), stats.Latest.Format("2006-01-02"))
	} else {
		cmd.Println("Date range: (no documents)")
	}
	return nil
}
