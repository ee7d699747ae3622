// Package index defines the positional inverted-index access layer: an
// ordered byte-keyed store of PositionLists, namespaced by condition kind
// (term, ner, pos, dep, date).
package index

import (
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// Store is the ordered key-value store a condition executor reads from.
// Writers (Put/Delete/WriteBatch) exist for the out-of-core indexing stage
// that fills the store; the query core only calls Get/GetRaw/Iterator.
type Store interface {
	// Get returns the decoded PositionList for key, or nil if absent.
	Get(key []byte) (model.PositionList, error)
	// GetRaw returns the raw bytes stored under key, or nil if absent.
	GetRaw(key []byte) ([]byte, error)
	// Iterator returns an Iterator over the whole keyspace.
	Iterator() (Iterator, error)
	// IteratorOptions returns an Iterator honoring opts (e.g. a key prefix).
	IteratorOptions(opts ReadOptions) (Iterator, error)
	Put(key []byte, value model.PositionList) error
	Delete(key []byte) error
	WriteBatch(entries map[string]model.PositionList) error
	Close() error
}

// ReadOptions configures a prefix/range scan.
type ReadOptions struct {
	Prefix []byte
	Start  []byte
	End    []byte
}

// Iterator walks a range of keys in ascending order.
type Iterator interface {
	// Next advances the iterator, returning false when exhausted.
	Next() bool
	// Key returns the current key. Valid only after a true Next().
	Key() []byte
	// Value returns the current decoded PositionList.
	Value() (model.PositionList, error)
	// Close releases resources held by the iterator.
	Close() error
}
