package rules

import (
	"testing"

	"github.com/Roger/tui-grep/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	exitKey   = events.Char('q')
	backspace = events.Key{Code: events.KeyBackspace}
)

func typeKeys(e *Engine, s string) {
	for _, r := range s {
		e.HandleKey(events.Char(r))
	}
}

func commandEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(exitKey, nil)
	require.Equal(t, ActionNone, e.HandleKey(CommandKey))
	require.Equal(t, Command, e.Mode())
	return e
}

func TestEngineNormalMode(t *testing.T) {
	t.Run("starts in normal mode with no filter", func(t *testing.T) {
		e := NewEngine(exitKey, nil)
		assert.Equal(t, Normal, e.Mode())
		assert.Empty(t, e.Pattern())
		_, ok := e.Compiled()
		assert.False(t, ok)
		assert.True(t, e.Matches("anything"))
	})

	t.Run("exit key quits", func(t *testing.T) {
		e := NewEngine(exitKey, nil)
		assert.Equal(t, ActionQuit, e.HandleKey(exitKey))
		assert.Equal(t, Normal, e.Mode())
	})

	t.Run("other keys leave state unchanged", func(t *testing.T) {
		keys := []events.Key{
			events.Char('a'),
			events.Char('/'),
			events.Char('Q'),
			backspace,
			{Code: events.KeyEnter},
			{Code: events.KeyEscape},
			{Code: events.KeyOther},
		}
		for _, k := range keys {
			e := NewEngine(exitKey, nil)
			assert.Equal(t, ActionNone, e.HandleKey(k), "key %v", k)
			assert.Equal(t, Normal, e.Mode(), "key %v", k)
			assert.Empty(t, e.Pattern(), "key %v", k)
			_, ok := e.Compiled()
			assert.False(t, ok, "key %v", k)
		}
	})
}

func TestEngineCommandMode(t *testing.T) {
	t.Run("printable keys extend the pattern", func(t *testing.T) {
		e := commandEngine(t)
		assert.Equal(t, ActionFilterChanged, e.HandleKey(events.Char('b')))
		assert.Equal(t, "b", e.Pattern())

		assert.True(t, e.Matches("banana"))
		assert.False(t, e.Matches("apple"))
		assert.Equal(t, []Span{{0, 1}}, e.AppendSpans(nil, "banana", -1))
	})

	t.Run("exit key quits while editing", func(t *testing.T) {
		e := commandEngine(t)
		typeKeys(e, "ab")
		assert.Equal(t, ActionQuit, e.HandleKey(exitKey))
		assert.Equal(t, "ab", e.Pattern(), "exit key is never added to the pattern")
	})

	t.Run("non printable keys are ignored", func(t *testing.T) {
		e := commandEngine(t)
		typeKeys(e, "x")
		for _, k := range []events.Key{{Code: events.KeyEnter}, {Code: events.KeyEscape}, events.Char('\t')} {
			assert.Equal(t, ActionNone, e.HandleKey(k))
		}
		assert.Equal(t, "x", e.Pattern())
		assert.Equal(t, Command, e.Mode())
	})

	t.Run("backspace on an empty pattern does nothing", func(t *testing.T) {
		e := commandEngine(t)
		assert.Equal(t, ActionNone, e.HandleKey(backspace))
		assert.Empty(t, e.Pattern())
	})

	t.Run("invalid edit keeps the previous rule", func(t *testing.T) {
		e := commandEngine(t)
		typeKeys(e, "an")
		before, ok := e.Compiled()
		require.True(t, ok)

		assert.Equal(t, ActionNone, e.HandleKey(events.Char('(')))
		assert.Equal(t, "an(", e.Pattern())
		assert.Error(t, e.Err())

		after, ok := e.Compiled()
		require.True(t, ok)
		assert.Equal(t, before, after)
		assert.Equal(t, "an", after.Pattern)
		assert.True(t, e.Matches("banana"))
		assert.False(t, e.Matches("cherry"))
	})

	t.Run("repairing the pattern takes effect again", func(t *testing.T) {
		e := commandEngine(t)
		typeKeys(e, "(an")
		_, ok := e.Compiled()
		assert.False(t, ok, "nothing valid was typed yet")
		assert.True(t, e.Matches("cherry"))

		assert.Equal(t, ActionFilterChanged, e.HandleKey(events.Char(')')))
		assert.NoError(t, e.Err())
		assert.False(t, e.Matches("cherry"))
	})

	t.Run("backspacing every character clears the filter", func(t *testing.T) {
		e := commandEngine(t)
		const pattern = "ch[ae]rr?y"
		typeKeys(e, pattern)
		_, ok := e.Compiled()
		require.True(t, ok)

		for range []rune(pattern) {
			e.HandleKey(backspace)
		}
		assert.Empty(t, e.Pattern())
		_, ok = e.Compiled()
		assert.False(t, ok)
		assert.NoError(t, e.Err())
		assert.True(t, e.Matches("apple"))
	})

	t.Run("backspace removes a whole rune", func(t *testing.T) {
		e := commandEngine(t)
		typeKeys(e, "café")
		e.HandleKey(backspace)
		assert.Equal(t, "caf", e.Pattern())
	})
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "command", Command.String())
}
