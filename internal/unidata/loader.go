package unidata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed tables.toml
var embeddedTables []byte

// maxScalar is the highest valid Unicode scalar value. Values read from
// external sources are range-checked before narrowing to rune.
const maxScalar = 0x10FFFF

// Errors returned by data loading.
var (
	// ErrNoData is returned when a data source yields zero usable records.
	// The engine treats this as fatal at initialization: running with an
	// empty table would silently report "no issues found".
	ErrNoData = errors.New("unidata: classification tables are empty")
)

// tableFile is the TOML shape of a classification table.
type tableFile struct {
	Invisible []int64 `toml:"invisible"`
	Ambiguous []struct {
		Codepoint int64  `toml:"codepoint"`
		LooksLike string `toml:"looks_like"`
	} `toml:"ambiguous"`
}

// Load parses the embedded base tables into a Set.
func Load() (*Set, error) {
	s, err := parseTables(embeddedTables)
	if err != nil {
		return nil, fmt.Errorf("unidata: embedded tables: %w", err)
	}
	if s.Len() == 0 {
		return nil, ErrNoData
	}
	return s, nil
}

// LoadFile parses a user-supplied TOML table file and appends its records
// to the set. The file uses the same shape as the embedded tables.
func (s *Set) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unidata: reading %s: %w", path, err)
	}

	extra, err := parseTables(data)
	if err != nil {
		return fmt.Errorf("unidata: parsing %s: %w", path, err)
	}

	s.Append(extra.Records()...)
	return nil
}

// parseTables decodes TOML table data into a Set. Records with invalid
// code points are dropped, not treated as errors.
func parseTables(data []byte) (*Set, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	s := &Set{}
	for _, cp := range file.Invisible {
		if cp < 0 || cp > maxScalar {
			continue
		}
		s.Append(Record{Kind: KindInvisible, Codepoint: rune(cp)})
	}
	for _, a := range file.Ambiguous {
		if a.Codepoint < 0 || a.Codepoint > maxScalar {
			continue
		}
		s.Append(Record{
			Kind:        KindAmbiguous,
			Codepoint:   rune(a.Codepoint),
			Replacement: a.LooksLike,
		})
	}
	return s, nil
}
