// Package corpus is the relational collaborator: a read-only GORM/SQLite
// store for document metadata, sentence boundaries, and dependency
// triples, queried by docId to support projection and snippet expansion.
// The positional index (internal/index) remains the source of truth for
// search; this package only serves lookups the index itself does not
// carry (titles, raw text, timestamps, per-sentence character ranges).
package corpus

import "time"

// Document is the documents table.
type Document struct {
	DocumentID uint32    `gorm:"column:document_id;primaryKey"`
	Title      string    `gorm:"column:title"`
	Text       string    `gorm:"column:text"`
	Timestamp  time.Time `gorm:"column:timestamp"`
}

func (Document) TableName() string { return "documents" }

// Annotation is one token's row in the annotations table.
type Annotation struct {
	ID            uint64 `gorm:"column:id;primaryKey"`
	DocumentID    uint32 `gorm:"column:document_id;index"`
	SentenceID    int32  `gorm:"column:sentence_id;index"`
	BeginChar     uint32 `gorm:"column:begin_char"`
	EndChar       uint32 `gorm:"column:end_char"`
	Token         string `gorm:"column:token"`
	Lemma         string `gorm:"column:lemma"`
	POS           string `gorm:"column:pos"`
	NER           string `gorm:"column:ner"`
	NormalizedNER string `gorm:"column:normalized_ner"`
}

func (Annotation) TableName() string { return "annotations" }

// Dependency is one row of the dependencies table.
type Dependency struct {
	ID         uint64 `gorm:"column:id;primaryKey"`
	DocumentID uint32 `gorm:"column:document_id;index"`
	SentenceID int32  `gorm:"column:sentence_id;index"`
	Governor   string `gorm:"column:governor"`
	Relation   string `gorm:"column:relation"`
	Dependent  string `gorm:"column:dependent"`
}

func (Dependency) TableName() string { return "dependencies" }

// SentenceSpan is the MIN(begin_char)/MAX(end_char) range the snippet
// expander needs to slice a document's raw text per sentence.
type SentenceSpan struct {
	SentenceID int32
	BeginChar  uint32
	EndChar    uint32
}
