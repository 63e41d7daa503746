package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Roger/tui-grep/config"
	"github.com/Roger/tui-grep/events"
	"github.com/Roger/tui-grep/logging"
	"github.com/Roger/tui-grep/render"
	"github.com/Roger/tui-grep/rules"
	"github.com/Roger/tui-grep/store"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrMissingInput is returned when stdin is a terminal and no file is followed
var ErrMissingInput = errors.New("missing input: pipe data into tgrep or pass --file")

// EventSource is the merged event stream consumed by Run
type EventSource interface {
	Next(ctx context.Context) (events.Event, error)
}

// Options wires an App to its collaborators
type Options struct {
	Config  config.Config
	Logger  *zap.Logger
	Surface render.Surface
	Events  EventSource
}

// App is the consumer loop. It owns the store, the filter engine and the
// surface; nothing else may touch them while Run is active.
type App struct {
	log      *zap.Logger
	store    *store.Store
	engine   *rules.Engine
	renderer *render.Renderer
	surface  render.Surface
	events   EventSource
}

// New creates an App with an empty history and no filter
func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:      log,
		store:    store.New(opts.Config.StoreCapacity),
		engine:   rules.NewEngine(opts.Config.Exit(), log),
		renderer: render.New(),
		surface:  opts.Surface,
		events:   opts.Events,
	}
}

// RequirePipedInput fails when lines would have to come from an interactive
// stdin. Following a file lifts the requirement.
func RequirePipedInput(stdin *os.File, followFile string) error {
	if followFile != "" {
		return nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return ErrMissingInput
	}
	return nil
}

// Run consumes events until the exit key, a display failure or ctx ends
func (app *App) Run(ctx context.Context) error {
	logging.Action(app.log, "Application run started")
	for {
		ev, err := app.events.Next(ctx)
		if err != nil {
			return err
		}
		quit, err := app.Step(ev)
		if err != nil {
			return err
		}
		if quit {
			logging.Action(app.log, "Application stopped",
				zap.Uint64("lines_seen", app.store.Total()),
				zap.Int("lines_kept", app.store.Len()))
			return nil
		}
	}
}

// Step handles one event and reports whether the operator asked to quit
func (app *App) Step(ev events.Event) (bool, error) {
	switch ev.Kind {
	case events.Input:
		app.store.Append(ev.Text)
	case events.KeyPress:
		switch app.engine.HandleKey(ev.Key) {
		case rules.ActionQuit:
			return true, nil
		case rules.ActionFilterChanged:
			app.log.Debug("filter changed", zap.String("pattern", app.engine.Pattern()))
		}
	case events.Tick:
		if err := app.draw(); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (app *App) draw() error {
	width, height, err := app.surface.Size()
	if err != nil {
		return fmt.Errorf("query display size: %w", err)
	}
	ops := app.renderer.Render(width, height, app.store, app.engine)
	if err := app.surface.Apply(ops); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// Store exposes the line history for inspection
func (app *App) Store() *store.Store { return app.store }

// Engine exposes the filter state for inspection
func (app *App) Engine() *rules.Engine { return app.engine }
