// Command buildcorpus generates a synthetic corpus and positional index
// for benchmarking and load-testing the query engine, without requiring a
// real annotated text collection.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Fredrikaaa/temporalsearch/internal/fixtures"
)

func main() {
	size := flag.String("size", "small", "dataset size: small, medium, or large")
	corpusPath := flag.String("corpus", "", "override the corpus database path")
	indexPath := flag.String("index", "", "override the positional index path")
	flag.Parse()

	var cfg fixtures.Config
	switch *size {
	case "small":
		cfg = fixtures.SmallConfig()
	case "medium":
		cfg = fixtures.MediumConfig()
	case "large":
		cfg = fixtures.LargeConfig()
	default:
		fmt.Fprintf(os.Stderr, "unknown size %q (use small, medium, or large)\n", *size)
		os.Exit(1)
	}
	if *corpusPath != "" {
		cfg.CorpusPath = *corpusPath
	}
	if *indexPath != "" {
		cfg.IndexPath = *indexPath
	}

	fmt.Printf("Building synthetic corpus: %s\n", cfg.CorpusPath)
	fmt.Printf("  Documents: %d\n", cfg.Documents)
	fmt.Printf("  Sentences/doc: %d\n", cfg.SentencesPerDoc)
	fmt.Printf("  Tokens/sentence: %d\n", cfg.TokensPerSentence)
	fmt.Printf("  Vocabulary: %d\n\n", cfg.VocabularySize)

	summary, err := fixtures.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build corpus: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d documents, %d annotations, %d index keys.\n",
		summary.DocumentCount, summary.AnnotationCount, summary.IndexKeyCount)
	fmt.Printf("Query it with: temporalsearch query --db %s --indexes %s \"...\"\n",
		cfg.CorpusPath, cfg.IndexPath)
}
