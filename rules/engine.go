package rules

import (
	"unicode"

	"github.com/Roger/tui-grep/events"

	"go.uber.org/zap"
)

// Mode decides how key presses are interpreted
type Mode int

const (
	// Normal ignores everything but the command and exit keys
	Normal Mode = iota
	// Command edits the filter pattern
	Command
)

func (m Mode) String() string {
	if m == Command {
		return "command"
	}
	return "normal"
}

// Action tells the caller what a key press did
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionFilterChanged
)

// CommandKey switches from Normal to Command mode
var CommandKey = events.Char(':')

type transition func(*Engine, events.Key) Action

var transitions = map[Mode]transition{
	Normal:  (*Engine).onNormal,
	Command: (*Engine).onCommand,
}

// Engine owns the filter pattern being edited and its last good compiled
// form. An edit that does not compile leaves the previous Rule in effect.
type Engine struct {
	mode     Mode
	exitKey  events.Key
	pattern  []rune
	compiled *Rule
	err      error
	log      *zap.Logger
}

// NewEngine returns an engine in Normal mode with an empty pattern
func NewEngine(exitKey events.Key, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{mode: Normal, exitKey: exitKey, log: log}
}

// HandleKey applies one key press to the state machine
func (e *Engine) HandleKey(k events.Key) Action {
	return transitions[e.mode](e, k)
}

func (e *Engine) onNormal(k events.Key) Action {
	switch k {
	case e.exitKey:
		return ActionQuit
	case CommandKey:
		e.mode = Command
	}
	return ActionNone
}

func (e *Engine) onCommand(k events.Key) Action {
	switch {
	case k == e.exitKey:
		return ActionQuit
	case k.Code == events.KeyBackspace:
		if len(e.pattern) == 0 {
			return ActionNone
		}
		e.pattern = e.pattern[:len(e.pattern)-1]
		return e.recompile()
	case k.Code == events.KeyRune && unicode.IsPrint(k.Rune):
		e.pattern = append(e.pattern, k.Rune)
		return e.recompile()
	}
	return ActionNone
}

func (e *Engine) recompile() Action {
	if len(e.pattern) == 0 {
		e.compiled = nil
		e.err = nil
		return ActionFilterChanged
	}
	rule, err := Compile(string(e.pattern))
	if err != nil {
		e.err = err
		e.log.Debug("keeping previous filter", zap.Error(err))
		return ActionNone
	}
	e.compiled = &rule
	e.err = nil
	return ActionFilterChanged
}

// Mode returns the current mode
func (e *Engine) Mode() Mode { return e.mode }

// Pattern returns the pattern text as typed, valid or not
func (e *Engine) Pattern() string { return string(e.pattern) }

// Compiled returns the rule in effect, if any
func (e *Engine) Compiled() (Rule, bool) {
	if e.compiled == nil {
		return Rule{}, false
	}
	return *e.compiled, true
}

// Err returns why the current pattern text is not the one in effect, or nil
func (e *Engine) Err() error { return e.err }

// Matches reports whether line passes the filter. With no rule in effect
// every line passes.
func (e *Engine) Matches(line string) bool {
	if e.compiled == nil {
		return true
	}
	return e.compiled.Match(line)
}

// AppendSpans appends the ranges of line to emphasise that start before limit
func (e *Engine) AppendSpans(dst []Span, line string, limit int) []Span {
	if e.compiled == nil {
		return dst
	}
	return e.compiled.AppendSpans(dst, line, limit)
}
