package fixtures

import (
	"path/filepath"
	"testing"

	"github.com/Fredrikaaa/temporalsearch/internal/corpus"
	"github.com/Fredrikaaa/temporalsearch/internal/index/badger"
)

func tinyConfig(dir string) Config {
	cfg := SmallConfig()
	cfg.Documents = 3
	cfg.SentencesPerDoc = 2
	cfg.TokensPerSentence = 4
	cfg.VocabularySize = 10
	cfg.CorpusPath = filepath.Join(dir, "corpus.db")
	cfg.IndexPath = filepath.Join(dir, "index")
	return cfg
}

func TestBuildWritesCorpusAndIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := tinyConfig(dir)

	summary, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if summary.DocumentCount != 3 {
		t.Errorf("DocumentCount = %d, want 3", summary.DocumentCount)
	}
	wantAnnotations := 3 * cfg.SentencesPerDoc * cfg.TokensPerSentence
	if summary.AnnotationCount != wantAnnotations {
		t.Errorf("AnnotationCount = %d, want %d", summary.AnnotationCount, wantAnnotations)
	}
	if summary.IndexKeyCount == 0 {
		t.Error("expected a non-zero number of index keys written")
	}

	cs, err := corpus.Open(cfg.CorpusPath, false)
	if err != nil {
		t.Fatalf("corpus.Open: %v", err)
	}
	defer cs.Close()

	doc, err := cs.Document(1)
	if err != nil || doc == nil {
		t.Fatalf("Document(1): %+v, %v", doc, err)
	}
	if doc.Text == "" {
		t.Error("expected document 1 to have non-empty text")
	}

	idx, err := badger.Open(cfg.IndexPath)
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	defer idx.Close()

	it, err := idx.Iterator()
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}
	defer it.Close()
	if !it.Next() {
		t.Fatal("expected at least one key in the index")
	}
}

func TestBuildOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	cfg := tinyConfig(dir)

	if _, err := Build(cfg); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	summary, err := Build(cfg)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if summary.DocumentCount != 3 {
		t.Errorf("DocumentCount after rebuild = %d, want 3", summary.DocumentCount)
	}
}
