package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Roger/tui-grep/app"
	"github.com/Roger/tui-grep/config"
	"github.com/Roger/tui-grep/events"
	"github.com/Roger/tui-grep/logging"
	"github.com/Roger/tui-grep/screen"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tgrep: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "tgrep",
		Short: "Live terminal viewer for piped logs with an incremental regex filter",
		Long: `tgrep shows the tail of a growing stream of lines and filters it as you type.

Press ':' to start editing the filter, type a regular expression, and matching
text is highlighted. Backspace edits the pattern. The exit key (default 'q')
quits from any mode.

  journalctl -f | tgrep
  tgrep --file /var/log/syslog`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := app.RequirePipedInput(os.Stdin, cfg.FollowFile); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()
	logging.Action(log, "Application started",
		zap.Duration("tick", cfg.TickInterval),
		zap.String("exit_key", string(cfg.ExitKey)),
		zap.Int("capacity", cfg.StoreCapacity),
		zap.String("file", cfg.FollowFile))

	var lines events.LineSource
	if cfg.FollowFile != "" {
		tl, err := events.TailFile(cfg.FollowFile)
		if err != nil {
			return err
		}
		defer tl.Close()
		lines = tl
	} else {
		lines = events.NewReaderLines(os.Stdin)
	}

	scr, err := screen.New()
	if err != nil {
		return err
	}
	defer scr.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	merger := events.Start(ctx, events.Config{
		TickInterval: cfg.TickInterval,
		ExitKey:      cfg.Exit(),
		Logger:       log,
	}, lines, scr)

	viewer := app.New(app.Options{
		Config:  cfg,
		Logger:  log,
		Surface: scr,
		Events:  merger,
	})
	err = viewer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logging.Action(log, "Interrupted")
		return nil
	}
	return err
}
