package events

import "fmt"

// Kind tags the variant carried by an Event
type Kind int

const (
	Input Kind = iota
	KeyPress
	Tick
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case KeyPress:
		return "key"
	case Tick:
		return "tick"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one unit of input to the consumer loop: a line of text, a key
// press or a redraw tick. Only the field matching Kind is meaningful.
type Event struct {
	Kind Kind
	Text string
	Key  Key
}

// InputEvent wraps an ingested line
func InputEvent(text string) Event { return Event{Kind: Input, Text: text} }

// KeyEvent wraps a decoded key press
func KeyEvent(k Key) Event { return Event{Kind: KeyPress, Key: k} }

// TickEvent is a redraw trigger
func TickEvent() Event { return Event{Kind: Tick} }

// KeyCode classifies a decoded key press
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyRune
	KeyBackspace
	KeyEnter
	KeyEscape
)

// Key is a decoded key press. Rune is set only when Code is KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// Char returns the key press for a single character
func Char(r rune) Key { return Key{Code: KeyRune, Rune: r} }

func (k Key) String() string {
	switch k.Code {
	case KeyRune:
		return fmt.Sprintf("%q", k.Rune)
	case KeyBackspace:
		return "backspace"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	}
	return "other"
}
