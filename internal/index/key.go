package index

import (
	"strings"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// Namespace prefixes for the five condition kinds.
const (
	namespaceTerm = "term:"
	namespaceNer  = "ner:"
	namespacePos  = "pos:"
	namespaceDep  = "dep:"
	namespaceDate = "date:"
)

// TermKey builds the key for a normalized CONTAINS term.
func TermKey(term string) []byte {
	return []byte(namespaceTerm + normalize(term))
}

// NerKey builds the key for an NER entity type, e.g. "ner:PERSON".
func NerKey(entityType string) []byte {
	return []byte(namespaceNer + entityType)
}

// NerPrefix returns the prefix that a wildcard NER("*") scan iterates over.
func NerPrefix() []byte {
	return []byte(namespaceNer)
}

// PosKey builds the key for a (tag, term) pair, e.g. "pos:NN:dog".
func PosKey(tag, term string) []byte {
	return []byte(namespacePos + tag + ":" + normalize(term))
}

// PosTagPrefix returns the prefix for a "pos:<TAG>:*" scan.
func PosTagPrefix(tag string) []byte {
	return []byte(namespacePos + tag + ":")
}

// DepKey builds the key for a literal dependency triple, e.g.
// "dep:invest|nsubj|company". Variable-bound components are encoded by
// the caller as a shorter prefix via DepPrefix.
func DepKey(governor, relation, dependent string) []byte {
	return []byte(namespaceDep + governor + "|" + relation + "|" + dependent)
}

// DepPrefix builds a scan prefix from the literal components supplied; a
// variable component is omitted along with everything after it, since the
// triple is pipe-delimited left to right.
func DepPrefix(governor, relation, dependent string, govVar, relVar, depVar bool) []byte {
	var b strings.Builder
	b.WriteString(namespaceDep)
	if govVar {
		return []byte(b.String())
	}
	b.WriteString(governor)
	b.WriteByte('|')
	if relVar {
		return []byte(b.String())
	}
	b.WriteString(relation)
	b.WriteByte('|')
	if depVar {
		return []byte(b.String())
	}
	b.WriteString(dependent)
	return []byte(b.String())
}

// DateKey builds the key for a calendar day, e.g. "date:2020-01-01".
func DateKey(d model.Date) []byte {
	return []byte(namespaceDate + d.String())
}

// DatePrefix returns the prefix for a "date:*" scan over every indexed day.
func DatePrefix() []byte {
	return []byte(namespaceDate)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PrefixUpperBound returns the smallest key strictly greater than every key
// sharing prefix, for use as an exclusive range end in a prefix scan:
// prefix cut after its last byte below 0xFF, with that byte incremented, or
// nil (no upper bound) if every byte is 0xFF.
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
