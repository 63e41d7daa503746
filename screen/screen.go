// Package screen adapts a tcell terminal to the render and events packages:
// it paints display operations and decodes key presses.
package screen

import (
	"errors"
	"fmt"
	"io"

	"github.com/Roger/tui-grep/events"
	"github.com/Roger/tui-grep/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ErrNoDisplay is returned when the terminal cannot be opened or has no size
var ErrNoDisplay = errors.New("display unavailable")

// cellScreen is the part of tcell.Screen used here
type cellScreen interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	Sync()
	PollEvent() tcell.Event
	Fini()
}

// Screen paints on a tcell screen. Apply and Size belong to the consumer
// loop; ReadKey is called from the key producer goroutine, which tcell
// supports.
type Screen struct {
	s        cellScreen
	row, col int
	emphasis bool
	plain    tcell.Style
	strong   tcell.Style
}

// New opens the controlling terminal in raw mode
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	s.HideCursor()
	s.Clear()
	return wrap(s), nil
}

func wrap(s cellScreen) *Screen {
	return &Screen{
		s:      s,
		plain:  tcell.StyleDefault,
		strong: tcell.StyleDefault.Reverse(true).Bold(true),
	}
}

// Size reports the terminal size in cells
func (s *Screen) Size() (int, int, error) {
	w, h := s.s.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: terminal size %dx%d", ErrNoDisplay, w, h)
	}
	return w, h, nil
}

// Apply paints ops and flushes them to the terminal once. tcell only sends
// the cells that changed since the previous flush.
func (s *Screen) Apply(ops []render.Op) error {
	w, h, err := s.Size()
	if err != nil {
		return err
	}
	for _, op := range ops {
		switch op.Kind {
		case render.MoveCursor:
			s.row, s.col = op.Row, op.Col
		case render.ClearToEndOfLine:
			s.clear(s.row, s.col, w)
		case render.ClearToEndOfScreen:
			s.clear(s.row, s.col, w)
			for y := s.row + 1; y < h; y++ {
				s.clear(y, 0, w)
			}
		case render.WriteText:
			s.write(op.Text, w)
		case render.BeginEmphasis:
			s.emphasis = true
		case render.EndEmphasis:
			s.emphasis = false
		}
	}
	s.s.Show()
	return nil
}

func (s *Screen) clear(y, from, w int) {
	for x := from; x < w; x++ {
		s.s.SetContent(x, y, ' ', nil, s.plain)
	}
}

func (s *Screen) write(text string, w int) {
	style := s.plain
	if s.emphasis {
		style = s.strong
	}
	// zero-width runes combine with the last cell written by this op
	var (
		baseX     = -1
		base      rune
		combining []rune
	)
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			if baseX >= 0 {
				combining = append(combining, r)
				s.s.SetContent(baseX, s.row, base, combining, style)
			}
			continue
		}
		if s.col+rw > w {
			return
		}
		s.s.SetContent(s.col, s.row, r, nil, style)
		baseX, base, combining = s.col, r, nil
		s.col += rw
	}
}

// ReadKey blocks for the next key press. It returns io.EOF once the screen
// has been closed.
func (s *Screen) ReadKey() (events.Key, error) {
	for {
		switch ev := s.s.PollEvent().(type) {
		case nil:
			return events.Key{}, io.EOF
		case *tcell.EventKey:
			return translate(ev), nil
		case *tcell.EventResize:
			s.s.Sync()
		}
	}
}

func translate(ev *tcell.EventKey) events.Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return events.Char(ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return events.Key{Code: events.KeyBackspace}
	case tcell.KeyEnter:
		return events.Key{Code: events.KeyEnter}
	case tcell.KeyEscape:
		return events.Key{Code: events.KeyEscape}
	}
	return events.Key{Code: events.KeyOther}
}

// Close restores the terminal
func (s *Screen) Close() {
	s.s.Fini()
}
