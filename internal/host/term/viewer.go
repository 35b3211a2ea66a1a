// Package term renders a scanned file in the terminal with match
// highlights and end-of-line annotations. It is a read-only display host
// for the engine, built on tcell.
package term

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glyphstorm/internal/overlay"
)

// span is one applied highlight on a line.
type span struct {
	style     string
	startByte int
	endByte   int
}

// annotation is one applied virtual text entry.
type annotation struct {
	text  string
	style string
}

// Viewer displays a single buffer with its applied marks. It implements
// overlay.Display; the engine's reconciler drives it like any other host.
type Viewer struct {
	mu sync.Mutex

	name  string
	lines [][]byte

	spans       map[int][]span
	annotations map[int][]annotation
	diagCount   int

	screen tcell.Screen
	top    int
}

// NewViewer creates a viewer for one buffer's lines.
func NewViewer(name string, lines [][]byte) *Viewer {
	return &Viewer{
		name:        name,
		lines:       lines,
		spans:       make(map[int][]span),
		annotations: make(map[int][]annotation),
	}
}

// ClearMarks implements overlay.Display. The buffer ID is ignored; a
// viewer holds exactly one buffer.
func (v *Viewer) ClearMarks(_, _ string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spans = make(map[int][]span)
	v.annotations = make(map[int][]annotation)
	return nil
}

// SetHighlight implements overlay.Display.
func (v *Viewer) SetHighlight(_, _, style string, line, startByte, endByte int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spans[line] = append(v.spans[line], span{style: style, startByte: startByte, endByte: endByte})
	return nil
}

// ClearDiagnostics implements overlay.Display.
func (v *Viewer) ClearDiagnostics(_, _ string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.diagCount = 0
	return nil
}

// SetDiagnostics implements overlay.Display.
func (v *Viewer) SetDiagnostics(_, _ string, diags []overlay.Diagnostic) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.diagCount = len(diags)
	return nil
}

// SetVirtualText implements overlay.Display.
func (v *Viewer) SetVirtualText(_, _ string, line, _ int, text, style string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.annotations[line] = append(v.annotations[line], annotation{text: text, style: style})
	return nil
}

// Run opens the terminal and displays the buffer until the user quits
// with q, Escape, or Ctrl-C. Up/Down and PgUp/PgDn scroll.
func (v *Viewer) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("term: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("term: initializing screen: %w", err)
	}
	defer screen.Fini()

	v.mu.Lock()
	v.screen = screen
	v.mu.Unlock()

	for {
		v.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				return nil
			case ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyUp:
				v.scroll(-1)
			case ev.Key() == tcell.KeyDown:
				v.scroll(1)
			case ev.Key() == tcell.KeyPgUp:
				_, h := screen.Size()
				v.scroll(-(h - 1))
			case ev.Key() == tcell.KeyPgDn:
				_, h := screen.Size()
				v.scroll(h - 1)
			}
		}
	}
}

// scroll moves the viewport, clamped to the buffer.
func (v *Viewer) scroll(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.top += delta
	if v.top < 0 {
		v.top = 0
	}
	if max := len(v.lines) - 1; v.top > max && max >= 0 {
		v.top = max
	}
}

// draw renders the visible slice of the buffer.
func (v *Viewer) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	width, height := v.screen.Size()
	if height < 2 {
		v.screen.Show()
		return
	}

	base := tcell.StyleDefault

	for row := 0; row < height-1; row++ {
		lineNum := v.top + row
		if lineNum >= len(v.lines) {
			break
		}

		col := 0
		line := v.lines[lineNum]
		for pos := 0; pos < len(line) && col < width; {
			r, size := utf8.DecodeRune(line[pos:])

			style := base
			glyph := r
			if sp, ok := v.spanAt(lineNum, pos); ok {
				style = styleFor(sp.style)
				if r != utf8.RuneError && !isPrintable(r) {
					// Invisible characters get a visible placeholder so
					// the highlight has something to sit on.
					glyph = '·'
				}
			}
			if r == utf8.RuneError && size == 1 {
				glyph = '?'
			}

			v.screen.SetContent(col, row, glyph, nil, style)
			col += cellWidth(glyph)
			pos += size
		}

		for _, a := range v.annotations[lineNum] {
			col++
			for _, r := range a.text {
				if col >= width {
					break
				}
				v.screen.SetContent(col, row, r, nil, annotationStyle())
				col += cellWidth(r)
			}
		}
	}

	v.drawStatus(width, height-1)
	v.screen.Show()
}

// drawStatus renders the bottom status line.
func (v *Viewer) drawStatus(width, row int) {
	status := []rune(fmt.Sprintf(" %s | %d findings | q to quit ", v.name, v.diagCount))
	style := tcell.StyleDefault.Reverse(true)
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(status) {
			r = status[col]
		}
		v.screen.SetContent(col, row, r, nil, style)
	}
}

// spanAt returns the highlight covering a byte position, if any.
func (v *Viewer) spanAt(line, pos int) (span, bool) {
	for _, sp := range v.spans[line] {
		if pos >= sp.startByte && pos < sp.endByte {
			return sp, true
		}
	}
	return span{}, false
}

// styleFor maps a style tag to a terminal style. Tags containing
// "Invisible" render red; everything else renders yellow.
func styleFor(tag string) tcell.Style {
	if isInvisibleTag(tag) {
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
}

// annotationStyle is the dim style used for virtual text.
func annotationStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.ColorGray)
}

// isInvisibleTag reports whether a style tag names an invisible style.
func isInvisibleTag(tag string) bool {
	return strings.Contains(tag, "Invisible")
}

// isPrintable reports whether a rune has a visible glyph for display
// purposes. Format characters and non-ASCII spaces do not.
func isPrintable(r rune) bool {
	return unicode.IsPrint(r)
}

// cellWidth returns the number of terminal cells a drawn rune occupies.
// Every glyph the viewer emits occupies at least one cell.
func cellWidth(r rune) int {
	if isWideRune(r) {
		return 2
	}
	return 1
}

// isWideRune checks if a rune is a wide (double-width) character.
func isWideRune(r rune) bool {
	if r >= 0x1100 && r <= 0x115F {
		return true
	}
	if r >= 0x2E80 && r <= 0x9FFF {
		return true
	}
	if r >= 0xAC00 && r <= 0xD7A3 {
		return true
	}
	if r >= 0xF900 && r <= 0xFAFF {
		return true
	}
	if r >= 0xFE10 && r <= 0xFE1F {
		return true
	}
	if r >= 0xFE30 && r <= 0xFE6F {
		return true
	}
	if r >= 0xFF00 && r <= 0xFF60 {
		return true
	}
	if r >= 0xFFE0 && r <= 0xFFE6 {
		return true
	}
	if r >= 0x1F300 && r <= 0x1FAFF {
		return true
	}
	if r >= 0x20000 && r <= 0x2FFFF {
		return true
	}
	return false
}
