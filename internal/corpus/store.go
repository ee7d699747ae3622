package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Store is the read-only relational collaborator, one *gorm.DB shared by
// all queries. Every method opens its own Session() off the shared
// *gorm.DB rather than holding a single long-lived prepared query, so each
// call gets its own connection.
type Store struct {
	db *gorm.DB
}

// Open connects to a SQLite database at dsn (a file path, or ":memory:"
// for tests).
func Open(dsn string, debug bool) (*Store, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, xerrors.ResourceError("corpus.open", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, xerrors.ResourceError("corpus.open", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return xerrors.ResourceError("corpus.close", err)
	}
	return sqlDB.Close()
}

// Document fetches a document's metadata and full text by id.
func (s *Store) Document(docID uint32) (*Document, error) {
	var doc Document
	err := s.db.Session(&gorm.Session{}).
		Where("document_id = ?", docID).
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, xerrors.ReadError("corpus.document", fmt.Sprintf("doc:%d", docID), err)
	}
	return &doc, nil
}

// DocumentText returns only the raw text of a document, for the snippet
// expander's per-document text cache.
func (s *Store) DocumentText(docID uint32) (string, bool, error) {
	var doc Document
	err := s.db.Session(&gorm.Session{}).
		Select("text").
		Where("document_id = ?", docID).
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, xerrors.ReadError("corpus.text", fmt.Sprintf("doc:%d", docID), err)
	}
	return doc.Text, true, nil
}

// SentenceSpan fetches the MIN(begin_char)/MAX(end_char) range for one
// sentence of a document.
func (s *Store) SentenceSpan(docID uint32, sentenceID int32) (*SentenceSpan, error) {
	var row struct {
		Begin uint32
		End   uint32
	}
	err := s.db.Session(&gorm.Session{}).
		Model(&Annotation{}).
		Select("MIN(begin_char) as begin, MAX(end_char) as end").
		Where("document_id = ? AND sentence_id = ?", docID, sentenceID).
		Scan(&row).Error
	if err != nil {
		return nil, xerrors.ReadError("corpus.sentence_span", fmt.Sprintf("doc:%d/sent:%d", docID, sentenceID), err)
	}
	if row.Begin == 0 && row.End == 0 {
		return nil, nil
	}
	return &SentenceSpan{SentenceID: sentenceID, BeginChar: row.Begin, EndChar: row.End}, nil
}

// SentenceRange fetches the ordered sentence spans of a document from
// fromSentence to toSentence inclusive, truncating at either end of the
// document; used by the snippet expander's window logic.
func (s *Store) SentenceRange(docID uint32, fromSentence, toSentence int32) ([]SentenceSpan, error) {
	var rows []struct {
		SentenceID int32
		Begin      uint32
		End        uint32
	}
	err := s.db.Session(&gorm.Session{}).
		Model(&Annotation{}).
		Select("sentence_id as sentence_id, MIN(begin_char) as begin, MAX(end_char) as end").
		Where("document_id = ? AND sentence_id BETWEEN ? AND ?", docID, fromSentence, toSentence).
		Group("sentence_id").
		Order("sentence_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, xerrors.ReadError("corpus.sentence_range", fmt.Sprintf("doc:%d", docID), err)
	}
	spans := make([]SentenceSpan, len(rows))
	for i, r := range rows {
		spans[i] = SentenceSpan{SentenceID: r.SentenceID, BeginChar: r.Begin, EndChar: r.End}
	}
	return spans, nil
}

// MaxSentenceID returns the highest sentence id in a document, or -1 if
// the document has no annotations.
func (s *Store) MaxSentenceID(docID uint32) (int32, error) {
	var max *int32
	err := s.db.Session(&gorm.Session{}).
		Model(&Annotation{}).
		Select("MAX(sentence_id)").
		Where("document_id = ?", docID).
		Scan(&max).Error
	if err != nil {
		return -1, xerrors.ReadError("corpus.max_sentence", fmt.Sprintf("doc:%d", docID), err)
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// Dependencies fetches every dependency triple for a sentence, used when
// serving a Dependency condition's variable-bound value text directly
// from the relational store rather than the positional index.
func (s *Store) Dependencies(docID uint32, sentenceID int32) ([]Dependency, error) {
	var deps []Dependency
	err := s.db.Session(&gorm.Session{}).
		Where("document_id = ? AND sentence_id = ?", docID, sentenceID).
		Find(&deps).Error
	if err != nil {
		return nil, xerrors.ReadError("corpus.dependencies", fmt.Sprintf("doc:%d/sent:%d", docID, sentenceID), err)
	}
	return deps, nil
}

// Migrate creates the schema; used by test setup and corpus-loading
// tooling that opens an empty database from scratch.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Document{}, &Annotation{}, &Dependency{})
}

// InsertDocuments bulk-loads documents, batching writes the way corpus
// fixture generation and any future ingestion tooling needs for datasets
// too large for a single transaction.
func (s *Store) InsertDocuments(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := s.db.Session(&gorm.Session{}).CreateInBatches(docs, 500).Error; err != nil {
		return xerrors.ResourceError("corpus.insert_documents", err)
	}
	return nil
}

// InsertAnnotations bulk-loads annotation rows.
func (s *Store) InsertAnnotations(anns []Annotation) error {
	if len(anns) == 0 {
		return nil
	}
	if err := s.db.Session(&gorm.Session{}).CreateInBatches(anns, 500).Error; err != nil {
		return xerrors.ResourceError("corpus.insert_annotations", err)
	}
	return nil
}

// Stats is the corpus-wide summary the describe CLI helper reports:
// document and sentence counts plus the timestamp range of the documents
// table.
type Stats struct {
	DocumentCount int64
	SentenceCount int64
	Earliest      time.Time
	Latest        time.Time
}

// Stats computes a corpus-wide summary by aggregate queries over the
// documents and annotations tables.
func (s *Store) Stats() (Stats, error) {
	var stats Stats

	if err := s.db.Session(&gorm.Session{}).Model(&Document{}).Count(&stats.DocumentCount).Error; err != nil {
		return Stats{}, xerrors.ReadError("corpus.stats", "document_count", err)
	}

	var sentenceCount int64
	err := s.db.Session(&gorm.Session{}).Model(&Annotation{}).
		Select("COUNT(DISTINCT document_id || ':' || sentence_id)").
		Scan(&sentenceCount).Error
	if err != nil {
		return Stats{}, xerrors.ReadError("corpus.stats", "sentence_count", err)
	}
	stats.SentenceCount = sentenceCount

	var dateRange struct {
		Earliest *time.Time
		Latest   *time.Time
	}
	err = s.db.Session(&gorm.Session{}).Model(&Document{}).
		Select("MIN(timestamp) as earliest, MAX(timestamp) as latest").
		Scan(&dateRange).Error
	if err != nil {
		return Stats{}, xerrors.ReadError("corpus.stats", "date_range", err)
	}
	if dateRange.Earliest != nil {
		stats.Earliest = *dateRange.Earliest
	}
	if dateRange.Latest != nil {
		stats.Latest = *dateRange.Latest
	}

	return stats, nil
}
