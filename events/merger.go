package events

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Channel capacities. A full line channel blocks the line reader so that a
// slow consumer bounds memory instead of the channel growing.
const (
	lineBuffer = 1024
	keyBuffer  = 64
	tickBuffer = 1
)

// DefaultTickInterval is the redraw rate used when Config leaves it unset
const DefaultTickInterval = 60 * time.Millisecond

// Config configures the producers started by Start
type Config struct {
	TickInterval time.Duration
	ExitKey      Key
	Clock        clock.Clock
	Logger       *zap.Logger
}

// Merger presents the line, key and tick producers as one event stream.
// Pending key presses always win over pending lines and ticks.
type Merger struct {
	keys  <-chan Event
	lines <-chan Event
	ticks <-chan Event
}

// Start launches one goroutine per producer and returns the merge point.
// A nil source disables its producer. Producers stop when their transport
// ends or fails, or when ctx is done.
func Start(ctx context.Context, cfg Config, lines LineSource, keys KeySource) *Merger {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	lineCh := make(chan Event, lineBuffer)
	keyCh := make(chan Event, keyBuffer)
	tickCh := make(chan Event, tickBuffer)

	if lines != nil {
		go readLines(ctx, lines, lineCh, cfg.Logger)
	}
	if keys != nil {
		go readKeys(ctx, keys, cfg.ExitKey, keyCh, cfg.Logger)
	}
	// The ticker is created before its goroutine so a mocked clock can be
	// advanced as soon as Start returns.
	ticker := cfg.Clock.Ticker(cfg.TickInterval)
	go runTicker(ctx, ticker, tickCh)

	return newMerger(keyCh, lineCh, tickCh)
}

func newMerger(keys, lines, ticks <-chan Event) *Merger {
	return &Merger{keys: keys, lines: lines, ticks: ticks}
}

// Next blocks until an event is available or ctx is done. A pending key
// press is returned before anything else; otherwise the first of line, tick
// or key to arrive is returned. Once every producer has stopped, Next blocks
// until ctx is done.
func (m *Merger) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-m.keys:
		return ev, nil
	default:
	}

	select {
	case ev := <-m.keys:
		return ev, nil
	case ev := <-m.lines:
		return ev, nil
	case ev := <-m.ticks:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func readLines(ctx context.Context, src LineSource, out chan<- Event, log *zap.Logger) {
	for ctx.Err() == nil {
		line, err := src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("line reader reached end of input")
			} else {
				log.Debug("line reader stopped", zap.Error(err))
			}
			return
		}
		select {
		case out <- InputEvent(line):
		case <-ctx.Done():
			return
		}
	}
}

func readKeys(ctx context.Context, src KeySource, exit Key, out chan<- Event, log *zap.Logger) {
	for ctx.Err() == nil {
		k, err := src.ReadKey()
		if err != nil {
			log.Debug("key reader stopped", zap.Error(err))
			return
		}
		select {
		case out <- KeyEvent(k):
		case <-ctx.Done():
			return
		}
		if k == exit {
			log.Debug("key reader saw exit key", zap.Stringer("key", k))
			return
		}
	}
}

// runTicker emits one tick immediately, then one per interval. A tick is
// dropped when the previous one has not been consumed yet.
func runTicker(ctx context.Context, t *clock.Ticker, out chan<- Event) {
	defer t.Stop()
	offer := func() {
		select {
		case out <- TickEvent():
		default:
		}
	}
	offer()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			offer()
		}
	}
}
