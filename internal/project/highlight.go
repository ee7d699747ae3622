package project

import (
	"strings"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Style is a configurable highlight affix pair inserted around a matched
// span (default "**...**").
type Style struct {
	Before string
	After  string
}

// DefaultStyle is the default highlight affix.
var DefaultStyle = Style{Before: "**", After: "**"}

// Highlighter inserts a style's affixes around a character span of text.
type Highlighter struct {
	Style Style
}

// NewHighlighter builds a Highlighter using the given style, or
// DefaultStyle if style is the zero value.
func NewHighlighter(style Style) Highlighter {
	if style.Before == "" && style.After == "" {
		style = DefaultStyle
	}
	return Highlighter{Style: style}
}

// Highlight inserts h.Style.Before immediately before begin and
// h.Style.After immediately after end. Positions are byte offsets into
// text; begin <= end <= len(text) is required.
func (h Highlighter) Highlight(text string, begin, end int) (string, error) {
	if begin < 0 || end > len(text) || begin > end {
		return "", xerrors.Internal("project", "highlight span out of range")
	}
	var b strings.Builder
	b.Grow(len(text) + len(h.Style.Before) + len(h.Style.After))
	b.WriteString(text[:begin])
	b.WriteString(h.Style.Before)
	b.WriteString(text[begin:end])
	b.WriteString(h.Style.After)
	b.WriteString(text[end:])
	return b.String(), nil
}
