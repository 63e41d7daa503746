package config

import (
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Roger/tui-grep/events"
	"github.com/Roger/tui-grep/rules"
	"github.com/Roger/tui-grep/store"

	"github.com/spf13/pflag"
)

// Defaults
const (
	DefaultTickInterval = events.DefaultTickInterval
	DefaultExitKey      = 'q'
	DefaultCapacity     = store.DefaultCapacity
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds the runtime settings of tgrep
type Config struct {
	TickInterval  time.Duration
	ExitKey       rune
	StoreCapacity int
	FollowFile    string
	LogFile       string
}

// Default returns a config with all default values
func Default() Config {
	return Config{
		TickInterval:  DefaultTickInterval,
		ExitKey:       DefaultExitKey,
		StoreCapacity: DefaultCapacity,
		FollowFile:    "",
		LogFile:       "",
	}
}

// BindFlags registers a flag for every field, using the current values as
// defaults
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.TickInterval, "tick", c.TickInterval, "redraw interval")
	fs.Var((*runeValue)(&c.ExitKey), "exit-key", "key that quits, in any mode")
	fs.IntVar(&c.StoreCapacity, "capacity", c.StoreCapacity, "number of lines kept in history")
	fs.StringVar(&c.FollowFile, "file", c.FollowFile, "follow this file instead of reading stdin")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write diagnostics to this file")
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalid, c.TickInterval)
	}
	if c.StoreCapacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, c.StoreCapacity)
	}
	if !unicode.IsPrint(c.ExitKey) {
		return fmt.Errorf("%w: exit key %q is not printable", ErrInvalid, c.ExitKey)
	}
	if c.Exit() == rules.CommandKey {
		return fmt.Errorf("%w: exit key %q would hide the filter prompt", ErrInvalid, c.ExitKey)
	}
	return nil
}

// Exit returns the exit key as a decoded key press
func (c Config) Exit() events.Key {
	return events.Char(c.ExitKey)
}

// ParseExitKey accepts exactly one character
func ParseExitKey(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: exit key must be a single character, got %q", ErrInvalid, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

type runeValue rune

func (v *runeValue) String() string { return string(rune(*v)) }

func (v *runeValue) Set(s string) error {
	r, err := ParseExitKey(s)
	if err != nil {
		return err
	}
	*v = runeValue(r)
	return nil
}

func (v *runeValue) Type() string { return "char" }
