// Package fixtures generates synthetic corpora for benchmarking and load
// testing: a relational store of documents/annotations paired with a
// matching positional index, sized by a small set of named configs the way
// a profiling dataset generator picks dataset tiers.
package fixtures

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/Fredrikaaa/temporalsearch/internal/corpus"
	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/index/badger"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Config describes the shape of a synthetic corpus: how many documents,
// how dense their annotations are, and where to write the two stores a
// query engine needs (the relational corpus and the positional index).
type Config struct {
	Documents         int
	SentencesPerDoc   int
	TokensPerSentence int
	VocabularySize    int
	StartDate         time.Time
	CorpusPath        string
	IndexPath         string
}

// SmallConfig is a small realistic dataset for local profiling: roughly
// 300 documents, 3,000 sentences, 30,000 tokens.
func SmallConfig() Config {
	return Config{
		Documents:         300,
		SentencesPerDoc:   10,
		TokensPerSentence: 10,
		VocabularySize:    500,
		StartDate:         time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		CorpusPath:        "testdata/synthetic_small.db",
		IndexPath:         "testdata/synthetic_small.idx",
	}
}

// MediumConfig is a mid-sized dataset for profiling the join and
// projection paths under realistic fan-out.
func MediumConfig() Config {
	return Config{
		Documents:         5000,
		SentencesPerDoc:   15,
		TokensPerSentence: 12,
		VocabularySize:    2000,
		StartDate:         time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		CorpusPath:        "testdata/synthetic_medium.db",
		IndexPath:         "testdata/synthetic_medium.idx",
	}
}

// LargeConfig is a stress-test dataset, large enough to exercise batched
// index writes and multi-worker execution.
func LargeConfig() Config {
	return Config{
		Documents:         50000,
		SentencesPerDoc:   20,
		TokensPerSentence: 15,
		VocabularySize:    8000,
		StartDate:         time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		CorpusPath:        "testdata/synthetic_large.db",
		IndexPath:         "testdata/synthetic_large.idx",
	}
}

// Summary reports what Build wrote.
type Summary struct {
	DocumentCount   int
	AnnotationCount int
	IndexKeyCount   int
}

// posTags and entityTypes give the generator a small, realistic set of
// labels to scatter across the generated tokens so term/pos/ner/date
// conditions all have something to match against.
var posTags = []string{"NN", "NNP", "VB", "JJ", "IN", "DT"}
var entityTypes = []string{"PERSON", "ORG", "LOCATION", "DATE"}

// documentBatchSize caps how many documents' worth of index entries
// accumulate in memory before flushing a WriteBatch, mirroring the
// profiling dataset generator's batched-commit approach for large runs.
const documentBatchSize = 500

// Build writes a fresh corpus and positional index at cfg.CorpusPath and
// cfg.IndexPath, overwriting any existing files there.
func Build(cfg Config) (Summary, error) {
	if err := os.RemoveAll(cfg.CorpusPath); err != nil && !os.IsNotExist(err) {
		return Summary{}, xerrors.ResourceError("fixtures.build", err)
	}
	if err := os.RemoveAll(cfg.IndexPath); err != nil && !os.IsNotExist(err) {
		return Summary{}, xerrors.ResourceError("fixtures.build", err)
	}

	cs, err := corpus.Open(cfg.CorpusPath, false)
	if err != nil {
		return Summary{}, err
	}
	defer cs.Close()
	if err := cs.Migrate(); err != nil {
		return Summary{}, err
	}

	idx, err := badger.Open(cfg.IndexPath)
	if err != nil {
		return Summary{}, err
	}
	defer idx.Close()

	rng := rand.New(rand.NewSource(1))
	vocab := make([]string, cfg.VocabularySize)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("term%d", i)
	}

	summary := Summary{}
	pending := map[string]model.PositionList{}

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		for k, pl := range pending {
			existing, err := idx.Get([]byte(k))
			if err != nil {
				return err
			}
			if existing == nil {
				summary.IndexKeyCount++
			} else {
				pending[k] = existing.Merge(pl)
			}
		}
		if err := idx.WriteBatch(pending); err != nil {
			return xerrors.ResourceError("fixtures.flush", err)
		}
		pending = map[string]model.PositionList{}
		return nil
	}

	add := func(key []byte, pos model.Position) {
		pending[string(key)] = append(pending[string(key)], pos)
	}

	var docBatch []corpus.Document
	var annBatch []corpus.Annotation

	for docID := 1; docID <= cfg.Documents; docID++ {
		docDate := cfg.StartDate.AddDate(0, 0, docID)
		date := model.DateFromTime(docDate)

		var text string
		offset := uint32(0)
		for s := 0; s < cfg.SentencesPerDoc; s++ {
			for t := 0; t < cfg.TokensPerSentence; t++ {
				term := vocab[rng.Intn(len(vocab))]
				begin := offset
				end := begin + uint32(len(term))
				text += term + " "
				offset = end + 1

				pos := model.Position{DocID: uint32(docID), SentenceID: int32(s), BeginChar: begin, EndChar: end, DocDate: date}
				add(index.TermKey(term), pos)

				tag := posTags[rng.Intn(len(posTags))]
				add(index.PosKey(tag, term), pos)
				annBatch = append(annBatch, corpus.Annotation{
					DocumentID: uint32(docID), SentenceID: int32(s),
					BeginChar: begin, EndChar: end, Token: term, Lemma: term, POS: tag,
				})

				if rng.Intn(8) == 0 {
					entity := entityTypes[rng.Intn(len(entityTypes))]
					add(index.NerKey(entity), pos)
				}
			}
		}
		add(index.DateKey(date), model.Position{DocID: uint32(docID), SentenceID: model.WholeDocument, BeginChar: 0, EndChar: offset, DocDate: date})

		docBatch = append(docBatch, corpus.Document{
			DocumentID: uint32(docID),
			Title:      fmt.Sprintf("Synthetic document %d", docID),
			Text:       text,
			Timestamp:  docDate,
		})
		summary.DocumentCount++

		if docID%documentBatchSize == 0 || docID == cfg.Documents {
			if err := cs.InsertDocuments(docBatch); err != nil {
				return Summary{}, err
			}
			if err := cs.InsertAnnotations(annBatch); err != nil {
				return Summary{}, err
			}
			summary.AnnotationCount += len(annBatch)
			docBatch, annBatch = nil, nil

			if err := flush(); err != nil {
				return Summary{}, err
			}
		}
	}

	return summary, nil
}
