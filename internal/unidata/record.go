package unidata

import "unicode/utf8"

// Kind classifies why a code point is flagged.
type Kind uint8

const (
	// KindInvisible marks code points with no visible glyph: zero-width
	// characters, bidi controls, non-breaking spaces, and similar.
	KindInvisible Kind = iota

	// KindAmbiguous marks code points that render nearly identically to a
	// common ASCII or Latin character.
	KindAmbiguous
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvisible:
		return "invisible"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Record describes a single flagged code point.
type Record struct {
	// Kind is the classification of the code point.
	Kind Kind

	// Codepoint is the Unicode scalar value being flagged.
	Codepoint rune

	// Replacement is the ASCII/Latin character this code point is easily
	// confused with. Only meaningful for KindAmbiguous, and may be empty
	// even then.
	Replacement string
}

// Valid reports whether the record's code point is a valid Unicode scalar
// value (not a surrogate, not past U+10FFFF).
func (r Record) Valid() bool {
	return utf8.ValidRune(r.Codepoint)
}

// Set holds an ordered collection of classification records.
type Set struct {
	records []Record
}

// NewSet creates a set from the given records, dropping invalid ones.
func NewSet(records ...Record) *Set {
	s := &Set{}
	s.Append(records...)
	return s
}

// Append adds records to the set, dropping any with invalid code points.
func (s *Set) Append(records ...Record) {
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		s.records = append(s.records, r)
	}
}

// Records returns a copy of the records in insertion order.
func (s *Set) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records in the set.
func (s *Set) Len() int {
	return len(s.records)
}
