package project

import (
	"time"

	"github.com/Fredrikaaa/temporalsearch/internal/corpus"
)

// CorpusAdapter wraps an *corpus.Store to satisfy SentenceSource and
// TextSource, converting corpus.SentenceSpan to this package's own
// SentenceSpan so project stays buildable and testable without a
// database dependency.
type CorpusAdapter struct {
	Store *corpus.Store
}

func (a CorpusAdapter) SentenceRange(docID uint32, fromSentence, toSentence int32) ([]SentenceSpan, error) {
	spans, err := a.Store.SentenceRange(docID, fromSentence, toSentence)
	if err != nil {
		return nil, err
	}
	out := make([]SentenceSpan, len(spans))
	for i, s := range spans {
		out[i] = SentenceSpan{SentenceID: s.SentenceID, BeginChar: s.BeginChar, EndChar: s.EndChar}
	}
	return out, nil
}

func (a CorpusAdapter) DocumentText(docID uint32) (string, bool, error) {
	return a.Store.DocumentText(docID)
}

func (a CorpusAdapter) Document(docID uint32) (string, time.Time, bool, error) {
	doc, err := a.Store.Document(docID)
	if err != nil {
		return "", time.Time{}, false, err
	}
	if doc == nil {
		return "", time.Time{}, false, nil
	}
	return doc.Title, doc.Timestamp, true, nil
}
