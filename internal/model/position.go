// Package model holds the data model shared across the query pipeline:
// positions into the corpus, matches produced by condition executors,
// variables, conditions, and the query AST itself.
package model

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"
)

// Date is a calendar day expressed as the number of days since the Unix
// epoch ("date-as-epoch-day").
type Date int64

// epochDay is the reference point used to convert to/from time.Time.
var epochDay = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// DateFromTime truncates t to a calendar day and returns the epoch-day form.
func DateFromTime(t time.Time) Date {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date(day.Sub(epochDay).Hours() / 24)
}

// Time returns the Date as midnight UTC on that calendar day.
func (d Date) Time() time.Time {
	return epochDay.AddDate(0, 0, int(d))
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// AddDays returns the date shifted by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// DiffDays returns the number of days between d and other (d - other).
func (d Date) DiffDays(other Date) int64 {
	return int64(d) - int64(other)
}

// ParseDate parses a YYYY-MM-DD literal.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// Position identifies a character span inside the corpus. SentenceID is -1
// for a whole-document span. Position is immutable once constructed.
type Position struct {
	DocID      uint32
	SentenceID int32
	BeginChar  uint32
	EndChar    uint32
	DocDate    Date
}

// WholeDocument is the sentinel SentenceID for document-scoped positions.
const WholeDocument int32 = -1

// Valid reports whether the position satisfies its invariant:
// BeginChar <= EndChar.
func (p Position) Valid() bool {
	return p.BeginChar <= p.EndChar
}

// Less orders positions by (docId, sentenceId, beginChar), the stable sort
// key used throughout the pipeline.
func (p Position) Less(o Position) bool {
	if p.DocID != o.DocID {
		return p.DocID < o.DocID
	}
	if p.SentenceID != o.SentenceID {
		return p.SentenceID < o.SentenceID
	}
	return p.BeginChar < o.BeginChar
}

// GranularityKey returns the grouping key for the given granularity:
// docId alone for DOCUMENT, (docId, sentenceId) for SENTENCE.
func (p Position) GranularityKey(g Granularity) GroupKey {
	if g == GranularityDocument {
		return GroupKey{DocID: p.DocID, SentenceID: WholeDocument}
	}
	return GroupKey{DocID: p.DocID, SentenceID: p.SentenceID}
}

// GroupKey is the grouping identity used by combinators and the projector.
type GroupKey struct {
	DocID      uint32
	SentenceID int32
}

func (k GroupKey) String() string {
	if k.SentenceID == WholeDocument {
		return fmt.Sprintf("doc:%d", k.DocID)
	}
	return fmt.Sprintf("doc:%d/sent:%d", k.DocID, k.SentenceID)
}

// PositionList is an ordered, duplicate-tolerant sequence of positions.
type PositionList []Position

// positionRecordSize is the fixed wire size of one Position record:
// u32 docId, i32 sentenceId, u32 begin, u32 end, i64 date.
const positionRecordSize = 4 + 4 + 4 + 4 + 8

// Encode serializes the list as a length-prefixed array of fixed-size
// records.
func (pl PositionList) Encode() []byte {
	buf := make([]byte, 4+len(pl)*positionRecordSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(pl)))
	off := 4
	for _, p := range pl {
		binary.BigEndian.PutUint32(buf[off:off+4], p.DocID)
		binary.BigEndian.PutUint32(buf[off+4:off+8], uint32(p.SentenceID))
		binary.BigEndian.PutUint32(buf[off+8:off+12], p.BeginChar)
		binary.BigEndian.PutUint32(buf[off+12:off+16], p.EndChar)
		binary.BigEndian.PutUint64(buf[off+16:off+24], uint64(p.DocDate))
		off += positionRecordSize
	}
	return buf
}

// DecodePositionList deserializes a position list previously produced by
// Encode. A corrupted value (short or misaligned) is reported as an error
// so the caller can raise a READ_ERROR.
func DecodePositionList(data []byte) (PositionList, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("position list too short: %d bytes", len(data))
	}
	count := binary.BigEndian.Uint32(data[0:4])
	want := 4 + int(count)*positionRecordSize
	if len(data) != want {
		return nil, fmt.Errorf("position list size mismatch: want %d bytes for %d records, got %d", want, count, len(data))
	}
	out := make(PositionList, count)
	off := 4
	for i := range out {
		out[i] = Position{
			DocID:      binary.BigEndian.Uint32(data[off : off+4]),
			SentenceID: int32(binary.BigEndian.Uint32(data[off+4 : off+8])),
			BeginChar:  binary.BigEndian.Uint32(data[off+8 : off+12]),
			EndChar:    binary.BigEndian.Uint32(data[off+12 : off+16]),
			DocDate:    Date(binary.BigEndian.Uint64(data[off+16 : off+24])),
		}
		off += positionRecordSize
	}
	return out, nil
}

// Merge appends other to pl and stable-sorts by (docId, sentenceId,
// beginChar), the append-time merge policy for combining position lists
// from repeated scans.
func (pl PositionList) Merge(other PositionList) PositionList {
	merged := make(PositionList, 0, len(pl)+len(other))
	merged = append(merged, pl...)
	merged = append(merged, other...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Less(merged[j]) })
	return merged
}
