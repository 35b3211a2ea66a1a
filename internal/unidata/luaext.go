package unidata

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LoadLua runs a user extension script and appends the records it defines.
//
// The script communicates through two optional globals:
//
//	invisible = { 0x2061, 0x2062 }
//	ambiguous = {
//	    { codepoint = 0x0491, looks_like = "r" },
//	    { codepoint = 0x04AE, looks_like = "y" },
//	}
//
// Entries with invalid code points are dropped. A script error aborts the
// load without modifying the set.
func (s *Set) LoadLua(path string) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("unidata: lua extension %s: %w", path, err)
	}

	var extra []Record

	if tbl, ok := L.GetGlobal("invisible").(*lua.LTable); ok {
		tbl.ForEach(func(_, v lua.LValue) {
			n, ok := v.(lua.LNumber)
			if !ok {
				return
			}
			cp := int64(n)
			if cp < 0 || cp > maxScalar {
				return
			}
			extra = append(extra, Record{Kind: KindInvisible, Codepoint: rune(cp)})
		})
	}

	if tbl, ok := L.GetGlobal("ambiguous").(*lua.LTable); ok {
		tbl.ForEach(func(_, v lua.LValue) {
			entry, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			n, ok := entry.RawGetString("codepoint").(lua.LNumber)
			if !ok {
				return
			}
			cp := int64(n)
			if cp < 0 || cp > maxScalar {
				return
			}
			rec := Record{Kind: KindAmbiguous, Codepoint: rune(cp)}
			if repl, ok := entry.RawGetString("looks_like").(lua.LString); ok {
				rec.Replacement = string(repl)
			}
			extra = append(extra, rec)
		})
	}

	s.Append(extra...)
	return nil
}
