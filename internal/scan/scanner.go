// Package scan walks buffer lines and reports every occurrence of a
// registered pattern with byte-exact positions.
package scan

import (
	"bytes"

	"github.com/dshills/glyphstorm/internal/pattern"
	"github.com/dshills/glyphstorm/internal/unidata"
)

// Match is one pattern occurrence found in a line.
//
// Spans are 0-based, half-open, and measured in bytes, matching the
// host's highlight and diagnostic addressing.
type Match struct {
	// Line is the 0-based line index within the buffer.
	Line int

	// StartByte is the byte offset of the first matched byte.
	StartByte int

	// EndByte is the byte offset one past the last matched byte.
	EndByte int

	// Kind is the classification of the matched code point.
	Kind unidata.Kind

	// Codepoint is the matched Unicode scalar value.
	Codepoint rune

	// Replacement is the suggested look-alike, if any.
	Replacement string

	// Style is the display style tag from the matched pattern.
	Style string
}

// Scanner finds pattern occurrences using byte-exact matching with the
// registry's first-byte index. Each call is independent; a Scanner holds
// no per-scan state and one value may scan any number of lines.
type Scanner struct {
	reg *pattern.Registry
}

// New creates a scanner over the given registry.
func New(reg *pattern.Registry) *Scanner {
	return &Scanner{reg: reg}
}

// ScanLine reports all matches in a single line, ordered left to right.
//
// At each position the current byte selects a candidate list from the
// first-byte index; the first candidate whose full byte sequence matches
// the window is emitted and the position advances past it. Candidates
// cannot tie: the registry holds at most one pattern per byte sequence.
// A truncated multi-byte sequence at end of line simply never matches;
// it is skipped, not reported as an error.
func (s *Scanner) ScanLine(line []byte, lineNum int) []Match {
	var matches []Match

	for pos := 0; pos < len(line); {
		advance := 1
		for _, p := range s.reg.Candidates(line[pos]) {
			n := len(p.Bytes)
			if pos+n > len(line) {
				continue
			}
			if !bytes.Equal(line[pos:pos+n], p.Bytes) {
				continue
			}
			matches = append(matches, Match{
				Line:        lineNum,
				StartByte:   pos,
				EndByte:     pos + n,
				Kind:        p.Kind,
				Codepoint:   p.Codepoint,
				Replacement: p.Replacement,
				Style:       p.Style,
			})
			advance = n
			break
		}
		pos += advance
	}

	return matches
}

// ScanLines scans every line of a buffer and returns all matches in
// (line, start byte) order.
func (s *Scanner) ScanLines(lines [][]byte) []Match {
	var matches []Match
	for i, line := range lines {
		matches = append(matches, s.ScanLine(line, i)...)
	}
	return matches
}
