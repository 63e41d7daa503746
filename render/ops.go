// Package render turns the log store and the active filter into display
// operations for a terminal surface.
package render

import "fmt"

// OpKind is the kind of a display operation
type OpKind int

const (
	MoveCursor OpKind = iota
	ClearToEndOfLine
	ClearToEndOfScreen
	WriteText
	BeginEmphasis
	EndEmphasis
)

func (k OpKind) String() string {
	switch k {
	case MoveCursor:
		return "move"
	case ClearToEndOfLine:
		return "clear-eol"
	case ClearToEndOfScreen:
		return "clear-eos"
	case WriteText:
		return "write"
	case BeginEmphasis:
		return "begin-emphasis"
	case EndEmphasis:
		return "end-emphasis"
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one display operation. Row and Col are used by MoveCursor, Text by
// WriteText.
type Op struct {
	Kind OpKind
	Row  int
	Col  int
	Text string
}

func (op Op) String() string {
	switch op.Kind {
	case MoveCursor:
		return fmt.Sprintf("move(%d,%d)", op.Row, op.Col)
	case WriteText:
		return fmt.Sprintf("write(%q)", op.Text)
	}
	return op.Kind.String()
}

// Move positions the cursor; rows and columns are zero based
func Move(row, col int) Op { return Op{Kind: MoveCursor, Row: row, Col: col} }

// Write emits text at the cursor in the current style
func Write(text string) Op { return Op{Kind: WriteText, Text: text} }

// Surface is a terminal that can report its size and apply operations
type Surface interface {
	Size() (width, height int, err error)
	Apply(ops []Op) error
}
