package project

import "time"

// Metadata resolves document-level fields the positional index does not
// carry (title, timestamp), for TitleColumn/TimestampColumn projection.
type Metadata interface {
	Document(docID uint32) (title string, timestamp time.Time, ok bool, err error)
}
