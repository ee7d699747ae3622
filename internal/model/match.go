package model

import "fmt"

// ValueType tags the kind of value a MatchDetail carries.
type ValueType int

const (
	ValueTerm ValueType = iota
	ValueDate
	ValueEntity
	ValueDependency
	ValuePOSTerm
)

func (t ValueType) String() string {
	switch t {
	case ValueTerm:
		return "TERM"
	case ValueDate:
		return "DATE"
	case ValueEntity:
		return "ENTITY"
	case ValueDependency:
		return "DEPENDENCY"
	case ValuePOSTerm:
		return "POS_TERM"
	default:
		return "UNKNOWN"
	}
}

// MatchDetail is a single match produced by a condition executor. A detail
// is either single-sided (no Right* fields set) or a join result (all
// Right* fields set); HasRight discriminates.
type MatchDetail struct {
	Value        string
	ValueType    ValueType
	Position     Position
	ConditionID  string
	VariableName string // empty if this detail does not bind a variable

	HasRight          bool
	RightDocID        uint32
	RightSentenceID   int32
	RightValue        string
	RightValueType    ValueType
	RightVariableName string
}

// String renders a compact representation for logging and trace output.
func (m MatchDetail) String() string {
	base := fmt.Sprintf("[%s %s %s]", m.ValueType, m.Value, m.Position.GranularityKey(GranularitySentence))
	if !m.HasRight {
		return base
	}
	return fmt.Sprintf("%s <-> [%s %s doc:%d/sent:%d]", base, m.RightValueType, m.RightValue, m.RightDocID, m.RightSentenceID)
}

// WithVariable returns a copy of m bound to the given variable name.
func (m MatchDetail) WithVariable(name string) MatchDetail {
	m.VariableName = name
	return m
}

// MatchSet groups MatchDetails by their granularity key for a single
// condition's output, and tracks which variable (if any) each key's
// bindings belong to.
type MatchSet struct {
	Granularity Granularity
	// Keys are ordered as encountered for deterministic iteration; stable
	// ordering by (docId, sentenceId, beginChar, conditionId) is
	// re-established by the caller when it matters.
	byKey map[GroupKey][]MatchDetail
	order []GroupKey
}

// NewMatchSet creates an empty match set for the given granularity.
func NewMatchSet(g Granularity) *MatchSet {
	return &MatchSet{Granularity: g, byKey: make(map[GroupKey][]MatchDetail)}
}

// Add records a match detail under its granularity key.
func (ms *MatchSet) Add(m MatchDetail) {
	key := m.Position.GranularityKey(ms.Granularity)
	if _, ok := ms.byKey[key]; !ok {
		ms.order = append(ms.order, key)
	}
	ms.byKey[key] = append(ms.byKey[key], m)
}

// Keys returns the set's group keys in first-seen order.
func (ms *MatchSet) Keys() []GroupKey {
	return ms.order
}

// Has reports whether key is present in the set.
func (ms *MatchSet) Has(key GroupKey) bool {
	_, ok := ms.byKey[key]
	return ok
}

// Get returns the match details for a key.
func (ms *MatchSet) Get(key GroupKey) []MatchDetail {
	return ms.byKey[key]
}

// Len returns the number of distinct group keys.
func (ms *MatchSet) Len() int {
	return len(ms.order)
}

// All returns every match detail across all keys, in key-insertion order.
func (ms *MatchSet) All() []MatchDetail {
	out := make([]MatchDetail, 0, len(ms.order))
	for _, k := range ms.order {
		out = append(out, ms.byKey[k]...)
	}
	return out
}
