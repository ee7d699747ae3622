package model

// VariableKind is the type lattice for query variables. ANY is the lattice
// top: it is compatible with every other kind, and two
// conflicting concrete kinds collapse to ANY.
type VariableKind int

const (
	KindAny VariableKind = iota
	KindEntity
	KindTextSpan
	KindTemporal
	KindPOSTag
	KindDependency
)

func (k VariableKind) String() string {
	switch k {
	case KindEntity:
		return "ENTITY"
	case KindTextSpan:
		return "TEXT_SPAN"
	case KindTemporal:
		return "TEMPORAL"
	case KindPOSTag:
		return "POS_TAG"
	case KindDependency:
		return "DEPENDENCY"
	default:
		return "ANY"
	}
}

// CompatibleWith reports whether two concrete kinds can coexist on the same
// variable name. ANY is compatible with everything; two distinct concrete
// kinds are not.
func (k VariableKind) CompatibleWith(other VariableKind) bool {
	if k == KindAny || other == KindAny {
		return true
	}
	return k == other
}

// Merge combines two kinds seen for the same variable name, collapsing to
// ANY on conflict.
func (k VariableKind) Merge(other VariableKind) VariableKind {
	if k == other {
		return k
	}
	if k == KindAny {
		return other
	}
	if other == KindAny {
		return k
	}
	return KindAny
}

// Granularity is the grouping level of result rows.
type Granularity int

const (
	GranularityDocument Granularity = iota
	GranularitySentence
)

func (g Granularity) String() string {
	if g == GranularityDocument {
		return "DOCUMENT"
	}
	return "SENTENCE"
}
