package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestCellWidth(t *testing.T) {
	tests := []struct {
		name  string
		r     rune
		width int
	}{
		{"ascii letter", 'a', 1},
		{"space", ' ', 1},
		{"placeholder glyph", '·', 1},
		{"cjk ideograph", '世', 2},
		{"hangul syllable", '한', 2},
		{"fullwidth latin", 'Ａ', 2},
		{"emoji", '😀', 2},
		{"cyrillic", 'о', 1},
		{"greek", 'Α', 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellWidth(tt.r); got != tt.width {
				t.Errorf("cellWidth(%q) = %d, want %d", tt.r, got, tt.width)
			}
		})
	}
}

func TestIsPrintable(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{"ascii letter", 'x', true},
		{"ascii space", ' ', true},
		{"cyrillic", 'о', true},
		{"zero width space", '​', false},
		{"no-break space", ' ', false},
		{"byte order mark", '\uFEFF', false},
		{"delete", 0x7F, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPrintable(tt.r); got != tt.want {
				t.Errorf("isPrintable(%U) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

// simCell fetches the rune drawn at a screen position.
func simCell(t *testing.T, s tcell.SimulationScreen, x, y int) rune {
	t.Helper()
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return 0
	}
	return c.Runes[0]
}

func newSimViewer(t *testing.T, lines [][]byte) (*Viewer, tcell.SimulationScreen) {
	t.Helper()

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(40, 5)

	v := NewViewer("test.txt", lines)
	v.screen = s
	return v, s
}

func TestDrawWideRuneLayout(t *testing.T) {
	// A wide ideograph occupies two cells; everything after it must shift.
	v, s := newSimViewer(t, [][]byte{[]byte("世ab")})

	v.draw()

	if got := simCell(t, s, 0, 0); got != '世' {
		t.Errorf("cell (0,0) = %q, want ideograph", got)
	}
	if got := simCell(t, s, 2, 0); got != 'a' {
		t.Errorf("cell (2,0) = %q, want 'a'", got)
	}
	if got := simCell(t, s, 3, 0); got != 'b' {
		t.Errorf("cell (3,0) = %q, want 'b'", got)
	}
}

func TestDrawHighlightAfterWideRune(t *testing.T) {
	// ZWSP following a wide rune: the placeholder must land in the cell
	// right after the ideograph's two columns.
	line := append([]byte("世"), 0xE2, 0x80, 0x8B)
	v, s := newSimViewer(t, [][]byte{line})

	if err := v.SetHighlight("", "", "GlyphstormInvisible", 0, 3, 6); err != nil {
		t.Fatal(err)
	}

	v.draw()

	if got := simCell(t, s, 2, 0); got != '·' {
		t.Errorf("cell (2,0) = %q, want placeholder", got)
	}
}

func TestDrawAnnotationAfterWideRune(t *testing.T) {
	v, s := newSimViewer(t, [][]byte{[]byte("世a")})

	if err := v.SetVirtualText("", "", 0, 0, "ok", "GlyphstormAmbiguous"); err != nil {
		t.Fatal(err)
	}

	v.draw()

	// Content ends at col 3 (2 for the ideograph, 1 for 'a'); the
	// annotation starts after a one-cell gap.
	if got := simCell(t, s, 4, 0); got != 'o' {
		t.Errorf("cell (4,0) = %q, want 'o'", got)
	}
	if got := simCell(t, s, 5, 0); got != 'k' {
		t.Errorf("cell (5,0) = %q, want 'k'", got)
	}
}

func TestClearMarksResetsState(t *testing.T) {
	v := NewViewer("test.txt", [][]byte{[]byte("abc")})

	if err := v.SetHighlight("", "", "GlyphstormInvisible", 0, 0, 3); err != nil {
		t.Fatal(err)
	}
	if err := v.SetVirtualText("", "", 0, 3, "note", "GlyphstormInvisible"); err != nil {
		t.Fatal(err)
	}
	if err := v.ClearMarks("", ""); err != nil {
		t.Fatal(err)
	}

	if _, ok := v.spanAt(0, 0); ok {
		t.Error("span survived ClearMarks")
	}
	if len(v.annotations[0]) != 0 {
		t.Error("annotation survived ClearMarks")
	}
}
