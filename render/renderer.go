package render

import (
	"iter"
	"slices"

	"github.com/Roger/tui-grep/rules"

	"github.com/mattn/go-runewidth"
)

// StatusPrefix starts the status row, followed by the pattern being typed
const StatusPrefix = ":filter "

// Source is the line history to draw from
type Source interface {
	Backward(pred func(string) bool) iter.Seq[string]
}

// Filter selects and highlights lines
type Filter interface {
	Matches(line string) bool
	AppendSpans(dst []rules.Span, line string, limit int) []rules.Span
	Pattern() string
}

var (
	clearLine   = Op{Kind: ClearToEndOfLine}
	clearScreen = Op{Kind: ClearToEndOfScreen}
	beginEmph   = Op{Kind: BeginEmphasis}
	endEmph     = Op{Kind: EndEmphasis}
)

// Renderer builds frames. Its buffers are reused between frames, so a
// Renderer is not safe for concurrent use.
type Renderer struct {
	ops   []Op
	rows  []string
	spans []rules.Span
}

// New returns a Renderer
func New() *Renderer {
	return &Renderer{}
}

// Render returns the operations drawing the newest lines accepted by f in
// the top height-1 rows, and the status row below them. The returned slice
// is only valid until the next call.
func (r *Renderer) Render(width, height int, src Source, f Filter) []Op {
	r.ops = r.ops[:0]
	if width <= 0 || height <= 0 {
		return r.ops
	}

	r.rows = r.rows[:0]
	if visible := height - 1; visible > 0 {
		for line := range src.Backward(f.Matches) {
			r.rows = append(r.rows, line)
			if len(r.rows) == visible {
				break
			}
		}
		slices.Reverse(r.rows)
	}

	for row, line := range r.rows {
		r.line(row, line, width, f)
	}

	// erase rows left over from a taller previous frame
	r.ops = append(r.ops, Move(len(r.rows), 0), clearScreen)

	status := Sanitize(StatusPrefix + f.Pattern())
	cut, _ := Truncate(status, width)
	r.ops = append(r.ops, Move(height-1, 0), Write(status[:cut]), clearLine)
	return r.ops
}

func (r *Renderer) line(row int, raw string, width int, f Filter) {
	text := Sanitize(raw)
	cut, cells := Truncate(text, width)

	// clear the tail first so a previously longer line leaves nothing behind
	r.ops = append(r.ops, Move(row, cells), clearLine, Move(row, 0))

	r.spans = f.AppendSpans(r.spans[:0], raw, cut)
	pos := 0
	for _, s := range r.spans {
		if s.Start >= cut {
			break
		}
		end := min(s.End, cut)
		if s.Start > pos {
			r.ops = append(r.ops, Write(text[pos:s.Start]))
		}
		r.ops = append(r.ops, beginEmph, Write(text[s.Start:end]), endEmph)
		pos = end
	}
	if pos < cut {
		r.ops = append(r.ops, Write(text[pos:cut]))
	}
}

// Truncate returns the byte length of the longest prefix of s that fits in
// width terminal cells, and the cells that prefix occupies.
func Truncate(s string, width int) (cut, cells int) {
	for i, c := range s {
		w := runewidth.RuneWidth(c)
		if cells+w > width {
			return i, cells
		}
		cells += w
	}
	return len(s), cells
}

// Sanitize replaces ASCII control bytes so they cannot move the terminal
// cursor: tabs become spaces, the rest become dots. Byte offsets are kept.
func Sanitize(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if isControl(s[i]) {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		switch {
		case b[i] == '\t':
			b[i] = ' '
		case isControl(b[i]):
			b[i] = '.'
		}
	}
	return string(b)
}

func isControl(c byte) bool {
	return c < 0x20 || c == 0x7f
}
