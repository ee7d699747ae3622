// Package badger adapts github.com/dgraph-io/badger/v4 to the
// internal/index.Store interface: options tuning, a transaction-scoped
// iterator, and Seek/Next/Close lifecycle management.
package badger

import (
	"bytes"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Store implements index.Store over a BadgerDB database.
type Store struct {
	db     *badgerdb.DB
	closed bool
}

// Open opens (creating if needed) a BadgerDB-backed positional index at
// path, tuned for the query core's read-heavy workload.
func Open(path string) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil
	opts.MemTableSize = 128 << 20
	opts.BlockCacheSize = 256 << 20
	opts.IndexCacheSize = 100 << 20
	opts.DetectConflicts = false
	opts.NumCompactors = 4
	opts.ValueThreshold = 1 << 10

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, xerrors.ResourceError("open", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) checkOpen(op string) error {
	if s.closed {
		return xerrors.ResourceError(op, nil)
	}
	return nil
}

// Get returns the decoded PositionList for key, or nil if absent.
func (s *Store) Get(key []byte) (model.PositionList, error) {
	if err := s.checkOpen("get"); err != nil {
		return nil, err
	}
	raw, err := s.GetRaw(key)
	if err != nil || raw == nil {
		return nil, err
	}
	pl, decodeErr := model.DecodePositionList(raw)
	if decodeErr != nil {
		return nil, xerrors.ReadError("index", string(key), decodeErr)
	}
	return pl, nil
}

// GetRaw returns the raw bytes stored under key, or nil if absent.
func (s *Store) GetRaw(key []byte) ([]byte, error) {
	if err := s.checkOpen("getRaw"); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.ResourceError("getRaw", err)
	}
	return out, nil
}

// Iterator returns an Iterator over the whole keyspace.
func (s *Store) Iterator() (index.Iterator, error) {
	return s.IteratorOptions(index.ReadOptions{})
}

// IteratorOptions returns an Iterator scoped to opts.Prefix or
// [opts.Start, opts.End).
func (s *Store) IteratorOptions(opts index.ReadOptions) (index.Iterator, error) {
	if err := s.checkOpen("iterator"); err != nil {
		return nil, err
	}
	txn := s.db.NewTransaction(false)

	badgerOpts := badgerdb.DefaultIteratorOptions
	badgerOpts.PrefetchSize = 1000
	badgerOpts.PrefetchValues = true
	if opts.Prefix != nil {
		badgerOpts.Prefix = opts.Prefix
	}

	it := txn.NewIterator(badgerOpts)

	start := opts.Start
	if start == nil {
		start = opts.Prefix
	}

	return &Iterator{txn: txn, it: it, start: start, end: opts.End}, nil
}

// Put stores value under key.
func (s *Store) Put(key []byte, value model.PositionList) error {
	if err := s.checkOpen("put"); err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value.Encode())
	})
}

// Delete removes key.
func (s *Store) Delete(key []byte) error {
	if err := s.checkOpen("delete"); err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// WriteBatch writes every entry in a single transaction.
func (s *Store) WriteBatch(entries map[string]model.PositionList) error {
	if err := s.checkOpen("writeBatch"); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for key, pl := range entries {
		if err := wb.Set([]byte(key), pl.Encode()); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Iterator implements index.Iterator over a BadgerDB range.
type Iterator struct {
	txn     *badgerdb.Txn
	it      *badgerdb.Iterator
	start   []byte
	end     []byte
	started bool
}

// Next advances the iterator, returning false when exhausted or out of range.
func (i *Iterator) Next() bool {
	if !i.started {
		i.it.Seek(i.start)
		i.started = true
	} else {
		i.it.Next()
	}
	if !i.it.Valid() {
		return false
	}
	if i.end != nil && bytes.Compare(i.it.Item().Key(), i.end) >= 0 {
		return false
	}
	return true
}

// Key returns the current key.
func (i *Iterator) Key() []byte {
	return append([]byte(nil), i.it.Item().KeyCopy(nil)...)
}

// Value decodes the current value as a PositionList.
func (i *Iterator) Value() (model.PositionList, error) {
	var pl model.PositionList
	var decodeErr error
	err := i.it.Item().Value(func(val []byte) error {
		pl, decodeErr = model.DecodePositionList(val)
		return nil
	})
	if err != nil {
		return nil, xerrors.ResourceError("value", err)
	}
	if decodeErr != nil {
		return nil, xerrors.ReadError("index", string(i.it.Item().Key()), decodeErr)
	}
	return pl, nil
}

// Close releases the iterator and its transaction.
func (i *Iterator) Close() error {
	i.it.Close()
	i.txn.Discard()
	return nil
}
