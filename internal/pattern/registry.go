// Package pattern compiles classification records into matchable byte
// patterns and indexes them for fast candidate lookup during scanning.
package pattern

import (
	"unicode/utf8"

	"github.com/dshills/glyphstorm/internal/unidata"
)

// Pattern is the compiled, matchable form of a classification record.
type Pattern struct {
	// Bytes is the exact UTF-8 encoding of Codepoint (1-4 bytes).
	Bytes []byte

	// Kind is the classification of the code point.
	Kind unidata.Kind

	// Codepoint is the Unicode scalar value this pattern matches.
	Codepoint rune

	// Replacement is the suggested look-alike, if any.
	Replacement string

	// Style is the display style tag resolved at build time.
	Style string
}

// Options controls which kinds are compiled and which style tags they get.
type Options struct {
	// Ambiguous enables compilation of ambiguous records.
	Ambiguous bool

	// Invisible enables compilation of invisible records.
	Invisible bool

	// AmbiguousStyle is the style tag applied to ambiguous patterns.
	AmbiguousStyle string

	// InvisibleStyle is the style tag applied to invisible patterns.
	InvisibleStyle string
}

// DefaultOptions returns build options with both kinds enabled and the
// default style tags.
func DefaultOptions() Options {
	return Options{
		Ambiguous:      true,
		Invisible:      true,
		AmbiguousStyle: "GlyphstormAmbiguous",
		InvisibleStyle: "GlyphstormInvisible",
	}
}

// Registry owns a compiled pattern set plus a first-byte index. It is
// immutable once built; configuration changes rebuild a fresh registry and
// swap it in rather than patching the old one.
type Registry struct {
	patterns    []Pattern
	index       [256][]*Pattern
	byCodepoint map[rune]*Pattern
}

// Build compiles the enabled records into a new registry.
//
// Records are processed in input order and deduplicated per code point with
// a last-write-wins rule. This is the documented policy for code points that
// appear in both classification tables, not an accident of iteration.
// Records whose code point cannot be UTF-8 encoded are skipped.
func Build(records []unidata.Record, opts Options) *Registry {
	byCp := make(map[rune]int)
	var patterns []Pattern

	for _, rec := range records {
		switch rec.Kind {
		case unidata.KindInvisible:
			if !opts.Invisible {
				continue
			}
		case unidata.KindAmbiguous:
			if !opts.Ambiguous {
				continue
			}
		default:
			continue
		}

		if !utf8.ValidRune(rec.Codepoint) {
			continue
		}

		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], rec.Codepoint)

		p := Pattern{
			Bytes:       append([]byte(nil), buf[:n]...),
			Kind:        rec.Kind,
			Codepoint:   rec.Codepoint,
			Replacement: rec.Replacement,
		}
		switch rec.Kind {
		case unidata.KindInvisible:
			p.Style = opts.InvisibleStyle
		case unidata.KindAmbiguous:
			p.Style = opts.AmbiguousStyle
		}

		if i, ok := byCp[rec.Codepoint]; ok {
			patterns[i] = p
		} else {
			byCp[rec.Codepoint] = len(patterns)
			patterns = append(patterns, p)
		}
	}

	r := &Registry{
		patterns:    patterns,
		byCodepoint: make(map[rune]*Pattern, len(patterns)),
	}
	for i := range r.patterns {
		p := &r.patterns[i]
		r.index[p.Bytes[0]] = append(r.index[p.Bytes[0]], p)
		r.byCodepoint[p.Codepoint] = p
	}
	return r
}

// Candidates returns the patterns whose byte sequence starts with b.
// The returned slice is shared; callers must not modify it.
func (r *Registry) Candidates(b byte) []*Pattern {
	return r.index[b]
}

// Lookup returns the pattern for a code point, if one exists.
func (r *Registry) Lookup(cp rune) (*Pattern, bool) {
	p, ok := r.byCodepoint[cp]
	return p, ok
}

// Len returns the number of compiled patterns.
func (r *Registry) Len() int {
	return len(r.patterns)
}

// Empty reports whether the registry holds no patterns.
func (r *Registry) Empty() bool {
	return len(r.patterns) == 0
}
