package project

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Sentence is one entry of a SnippetExpander.Expand result, carrying its
// id, text, and whether it's the sentence containing the match.
type Sentence struct {
	ID      int32
	Text    string
	IsMatch bool
}

// SentenceSource resolves a document's sentence boundaries as MIN(begin)/
// MAX(end) per-sentence ranges. internal/corpus.Store satisfies this.
type SentenceSource interface {
	SentenceRange(docID uint32, fromSentence, toSentence int32) (spans []SentenceSpan, err error)
}

// TextSource resolves a document's full raw text by id.
// internal/corpus.Store satisfies this.
type TextSource interface {
	DocumentText(docID uint32) (text string, ok bool, err error)
}

// SentenceSpan mirrors corpus.SentenceSpan so this package does not import
// internal/corpus directly (keeping the projector testable without a
// database).
type SentenceSpan struct {
	SentenceID int32
	BeginChar  uint32
	EndChar    uint32
}

// SnippetExpander expands the sentence containing an anchor by window
// sentences on each side, fetching raw text once per document via an LRU
// cache shared across expansions.
type SnippetExpander struct {
	sentences SentenceSource
	text      TextSource
	highlight Highlighter

	textCache    *ristretto.Cache
	snippetCache *ristretto.Cache
}

// NewSnippetExpander builds an expander with its own ristretto LRU caches.
// Callers construct one SnippetExpander per process and share it across
// queries; it holds no per-query state.
func NewSnippetExpander(sentences SentenceSource, text TextSource, style Style) (*SnippetExpander, error) {
	textCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 27, // 128MiB of cached document text
		BufferItems: 64,
	})
	if err != nil {
		return nil, xerrors.Internal("project", fmt.Sprintf("failed to build text cache: %v", err))
	}
	snippetCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 25, // 32MiB of cached rendered snippets
		BufferItems: 64,
	})
	if err != nil {
		return nil, xerrors.Internal("project", fmt.Sprintf("failed to build snippet cache: %v", err))
	}
	return &SnippetExpander{
		sentences:    sentences,
		text:         text,
		highlight:    NewHighlighter(style),
		textCache:    textCache,
		snippetCache: snippetCache,
	}, nil
}

// Close releases the expander's caches.
func (e *SnippetExpander) Close() {
	e.textCache.Close()
	e.snippetCache.Close()
}

func (e *SnippetExpander) docText(docID uint32) (string, error) {
	cacheKey := fmt.Sprintf("doc:%d", docID)
	if v, ok := e.textCache.Get(cacheKey); ok {
		return v.(string), nil
	}
	text, ok, err := e.text.DocumentText(docID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	e.textCache.Set(cacheKey, text, int64(len(text)))
	return text, nil
}

// Expand returns the sentence containing anchor, extended by window
// sentences on each side (0-5, truncating at document boundaries), with
// the anchor's own span highlighted.
func (e *SnippetExpander) Expand(anchor ContextAnchor, matchBegin, matchEnd uint32, window int) ([]Sentence, error) {
	if err := anchor.Validate(); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("snip:%d:%d:%d:%d:%d", anchor.DocID, anchor.SentenceID, matchBegin, matchEnd, window)
	if v, ok := e.snippetCache.Get(cacheKey); ok {
		return v.([]Sentence), nil
	}

	from := anchor.SentenceID - int32(window)
	if from < 0 {
		from = 0
	}
	to := anchor.SentenceID + int32(window)

	spans, err := e.sentences.SentenceRange(anchor.DocID, from, to)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}

	text, err := e.docText(anchor.DocID)
	if err != nil {
		return nil, err
	}

	out := make([]Sentence, 0, len(spans))
	for _, span := range spans {
		if int(span.EndChar) > len(text) || span.BeginChar > span.EndChar {
			return nil, xerrors.Internal("project", "sentence span out of bounds of document text")
		}
		raw := text[span.BeginChar:span.EndChar]
		isMatch := span.SentenceID == anchor.SentenceID
		if isMatch && matchEnd >= span.BeginChar && matchBegin <= span.EndChar {
			begin := int(matchBegin) - int(span.BeginChar)
			end := int(matchEnd) - int(span.BeginChar)
			if begin < 0 {
				begin = 0
			}
			if end > len(raw) {
				end = len(raw)
			}
			highlighted, err := e.highlight.Highlight(raw, begin, end)
			if err == nil {
				raw = highlighted
			}
		}
		out = append(out, Sentence{ID: span.SentenceID, Text: raw, IsMatch: isMatch})
	}

	e.snippetCache.Set(cacheKey, out, int64(len(out)))
	return out, nil
}

// Compose assembles a "prev|match|next" string, joining sentences with
// sep (the empty string is a valid separator).
func Compose(sentences []Sentence, sep string) string {
	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	return strings.Join(texts, sep)
}
