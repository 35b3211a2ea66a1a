// Package unidata supplies the classification data the scanning engine is
// built from: which Unicode code points are invisible, and which are easily
// confused with an ASCII or Latin character.
//
// # Data Sources
//
// The base tables ship with the binary, embedded as TOML. Users can extend
// them two ways:
//
//   - a TOML file in the same shape as the embedded tables
//   - a Lua script that defines `invisible` and `ambiguous` globals
//
// All sources produce the same Record type. Records with invalid code points
// (surrogates, values past U+10FFFF) are dropped during load rather than
// failing the whole load.
//
// # Ordering
//
// A Set preserves insertion order: invisible records first, then ambiguous,
// then user extensions in the order they were loaded. Downstream registry
// building resolves duplicate code points with a last-write-wins rule, so
// later sources deliberately override earlier ones.
package unidata
