package project

import "testing"

type fakeSentences struct {
	docText string
	spans   []SentenceSpan
}

func (f fakeSentences) SentenceRange(docID uint32, from, to int32) ([]SentenceSpan, error) {
	var out []SentenceSpan
	for _, s := range f.spans {
		if s.SentenceID >= from && s.SentenceID <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeSentences) DocumentText(docID uint32) (string, bool, error) {
	return f.docText, true, nil
}

func TestSnippetExpandWindow(t *testing.T) {
	src := fakeSentences{
		docText: "First sentence. Second sentence. Third sentence.",
		spans: []SentenceSpan{
			{SentenceID: 0, BeginChar: 0, EndChar: 15},
			{SentenceID: 1, BeginChar: 16, EndChar: 32},
			{SentenceID: 2, BeginChar: 33, EndChar: 48},
		},
	}
	exp, err := NewSnippetExpander(src, src, Style{})
	if err != nil {
		t.Fatalf("NewSnippetExpander: %v", err)
	}
	defer exp.Close()

	anchor := ContextAnchor{DocID: 1, SentenceID: 1, CharPosition: 16}
	sentences, err := exp.Expand(anchor, 16, 22, 1)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(sentences) != 3 {
		t.Fatalf("got %d sentences, want 3 (window=1 on each side)", len(sentences))
	}
	if !sentences[1].IsMatch {
		t.Error("middle sentence should be the match")
	}
	if sentences[0].IsMatch || sentences[2].IsMatch {
		t.Error("only the anchor sentence should be marked as match")
	}
}

func TestSnippetExpandTruncatesAtDocumentStart(t *testing.T) {
	src := fakeSentences{
		docText: "Only sentence.",
		spans:   []SentenceSpan{{SentenceID: 0, BeginChar: 0, EndChar: 14}},
	}
	exp, err := NewSnippetExpander(src, src, Style{})
	if err != nil {
		t.Fatalf("NewSnippetExpander: %v", err)
	}
	defer exp.Close()

	anchor := ContextAnchor{DocID: 1, SentenceID: 0}
	sentences, err := exp.Expand(anchor, 0, 4, 3)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(sentences) != 1 {
		t.Fatalf("got %d sentences, want 1 (truncated at document bounds)", len(sentences))
	}
}

func TestContextAnchorRejectsNegativeSentence(t *testing.T) {
	a := ContextAnchor{DocID: 1, SentenceID: -1}
	if err := a.Validate(); err == nil {
		t.Error("expected validation error for negative sentenceId")
	}
}
