package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const wrongSpaceRune = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// span is a half-open rune range of one word in the target.
type span struct {
	start int
	end   int
}

// buildStyledRunes styles every target rune by what was typed at its
// position. cursorIndex < 0 hides the cursor.
func buildStyledRunes(target, typed []rune, cursorIndex int) []styledRune {
	current, hasCurrent := spanAt(wordSpans(target), cursorIndex)

	out := make([]styledRune, 0, len(target))
	for i, want := range target {
		shown := want
		style := pendingStyle
		switch {
		case i < len(typed) && want == ' ' && typed[i] != ' ':
			shown = wrongSpaceRune
			style = incorrectStyle
		case i < len(typed) && typed[i] == want:
			style = correctStyle
		case i < len(typed):
			style = incorrectStyle
		case want != ' ' && hasCurrent && i >= current.start && i < current.end:
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(typed) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

func wordSpans(target []rune) []span {
	var spans []span
	start := -1
	for i, r := range target {
		switch {
		case r == ' ' && start >= 0:
			spans = append(spans, span{start: start, end: i})
			start = -1
		case r != ' ' && start < 0:
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(target)})
	}
	return spans
}

// spanAt returns the word holding the cursor, or the next word when the
// cursor sits on a space. A hidden cursor selects the first word.
func spanAt(spans []span, cursorIndex int) (span, bool) {
	if len(spans) == 0 {
		return span{}, false
	}
	if cursorIndex < 0 {
		return spans[0], true
	}
	for _, s := range spans {
		if cursorIndex < s.end {
			return s, true
		}
	}
	return spans[len(spans)-1], true
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring
// to break at the last space on the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	for _, item := range runes {
		for lineWidth+item.width > width && len(line) > 0 {
			cut := lastSpace(line)
			if cut < 0 {
				lines = append(lines, renderStyledRunes(line))
				line = nil
			} else {
				lines = append(lines, renderStyledRunes(line[:cut]))
				line = append([]styledRune(nil), line[cut+1:]...)
			}
			lineWidth = widthOf(line)
		}
		line = append(line, item)
		lineWidth += item.width
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

func widthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpace(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
