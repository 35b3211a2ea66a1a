// Package config defines the typed configuration surface for the engine,
// its defaults, file loading, and change watching.
package config

import (
	"slices"
	"time"
)

// Config is a complete, resolved configuration snapshot. Mutating a
// snapshot does not affect any other holder; the engine swaps whole
// snapshots on reconfiguration.
type Config struct {
	// HighlightAmbiguous enables flagging of ambiguous code points.
	HighlightAmbiguous bool

	// HighlightInvisible enables flagging of invisible code points.
	HighlightInvisible bool

	// AmbiguousStyle is the host style tag for ambiguous marks. The tag
	// is opaque to the engine.
	AmbiguousStyle string

	// InvisibleStyle is the host style tag for invisible marks.
	InvisibleStyle string

	// AutoEnable scans buffers as soon as they open.
	AutoEnable bool

	// FiletypeAllow limits scanning to the listed filetypes. Empty means
	// all filetypes are admitted.
	FiletypeAllow []string

	// FiletypeDeny excludes the listed filetypes. Deny wins over allow.
	FiletypeDeny []string

	// DebounceMS is the re-scan coalescing window in milliseconds. Zero
	// or negative runs scans synchronously.
	DebounceMS int

	// VirtualText enables end-of-match virtual annotations.
	VirtualText bool

	// VirtualTextPrefix is prepended to every virtual annotation.
	VirtualTextPrefix string

	// DataFile is an optional user TOML classification table.
	DataFile string

	// LuaExtension is an optional Lua script contributing classification
	// records.
	LuaExtension string

	// LogLevel is the minimum logging level ("debug", "info", "warn",
	// "error").
	LogLevel string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		HighlightAmbiguous: true,
		HighlightInvisible: true,
		AmbiguousStyle:     "GlyphstormAmbiguous",
		InvisibleStyle:     "GlyphstormInvisible",
		AutoEnable:         true,
		DebounceMS:         200,
		VirtualText:        false,
		VirtualTextPrefix:  " ",
		LogLevel:           "info",
	}
}

// Debounce returns the debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// AdmitsFiletype reports whether a buffer of the given filetype should be
// scanned. The deny list is checked first and wins; a non-empty allow list
// then requires membership; otherwise the filetype is admitted.
func (c Config) AdmitsFiletype(ft string) bool {
	if slices.Contains(c.FiletypeDeny, ft) {
		return false
	}
	if len(c.FiletypeAllow) > 0 {
		return slices.Contains(c.FiletypeAllow, ft)
	}
	return true
}

// File is the TOML shape of a settings file. Pointer fields distinguish
// "not set" from zero values so a partial file only overrides what it
// names.
type File struct {
	HighlightAmbiguous *bool    `toml:"highlight_ambiguous"`
	HighlightInvisible *bool    `toml:"highlight_invisible"`
	AmbiguousStyle     *string  `toml:"ambiguous_style"`
	InvisibleStyle     *string  `toml:"invisible_style"`
	AutoEnable         *bool    `toml:"auto_enable"`
	FiletypeAllow      []string `toml:"filetype_allow_list"`
	FiletypeDeny       []string `toml:"filetype_deny_list"`
	DebounceMS         *int     `toml:"debounce_ms"`
	VirtualText        *bool    `toml:"virtual_text"`
	VirtualTextPrefix  *string  `toml:"virtual_text_prefix"`
	DataFile           *string  `toml:"data_file"`
	LuaExtension       *string  `toml:"lua_extension"`
	LogLevel           *string  `toml:"log_level"`
}

// Merge applies the set fields of a settings file over a base snapshot and
// returns the result. Every field is enumerated explicitly.
func Merge(base Config, file File) Config {
	out := base

	if file.HighlightAmbiguous != nil {
		out.HighlightAmbiguous = *file.HighlightAmbiguous
	}
	if file.HighlightInvisible != nil {
		out.HighlightInvisible = *file.HighlightInvisible
	}
	if file.AmbiguousStyle != nil {
		out.AmbiguousStyle = *file.AmbiguousStyle
	}
	if file.InvisibleStyle != nil {
		out.InvisibleStyle = *file.InvisibleStyle
	}
	if file.AutoEnable != nil {
		out.AutoEnable = *file.AutoEnable
	}
	if file.FiletypeAllow != nil {
		out.FiletypeAllow = slices.Clone(file.FiletypeAllow)
	}
	if file.FiletypeDeny != nil {
		out.FiletypeDeny = slices.Clone(file.FiletypeDeny)
	}
	if file.DebounceMS != nil {
		out.DebounceMS = *file.DebounceMS
	}
	if file.VirtualText != nil {
		out.VirtualText = *file.VirtualText
	}
	if file.VirtualTextPrefix != nil {
		out.VirtualTextPrefix = *file.VirtualTextPrefix
	}
	if file.DataFile != nil {
		out.DataFile = *file.DataFile
	}
	if file.LuaExtension != nil {
		out.LuaExtension = *file.LuaExtension
	}
	if file.LogLevel != nil {
		out.LogLevel = *file.LogLevel
	}

	return out
}
