package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// PlayOptions contains all the configuration for the play command.
type PlayOptions struct {
	Config config.Config
	JSON   bool // NDJSON states on stdout, commands on stdin
	Plain  bool // no markup even on a terminal
	New    bool // start a fresh slot with a generated name
	Stats  bool // print metrics to stderr on exit
	Debug  bool
}

// Streams are the process's standard streams; tests substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns os.Stdin, os.Stdout and os.Stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Play loads the content and runs an interactive session over the configured slot.
func Play(ctx context.Context, opts PlayOptions, std Streams) error {
	cfg := opts.Config
	if cfg.Content == "" {
		return errors.New("no content file given (pass a path or set ARBOR_CONTENT)")
	}
	if opts.New {
		cfg.Slot = uuid.NewString()
	}

	logger, err := createLogger(cfg.LogLevel, opts.Debug, std.Err)
	if err != nil {
		return err
	}

	var reg *prometheus.Registry
	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = createDebugHooks(logger)
	}
	if opts.Stats {
		reg = prometheus.NewRegistry()
		hooks = domain.ComposeHooks(hooks, observability.NewMetrics(reg).Hooks())
	}

	engineOpts := []arbor.Option{arbor.WithLogger(logger), arbor.WithLifecycleHooks(hooks)}
	if cfg.Seed != 0 {
		engineOpts = append(engineOpts, arbor.WithSeed(cfg.Seed))
	}
	eng, err := arbor.Load(cfg.Content, engineOpts...)
	if err != nil {
		return err
	}

	store, kv, err := openStore(ctx, cfg, logger, hooks)
	if err != nil {
		return err
	}
	defer kv.Close()
	defer store.Close()

	logger.Info("session opened", "slot", cfg.Slot, "store", cfg.Store, "new", store.IsNew())

	handler, rich := createHandler(opts, std)
	if rich {
		tui.PrintBanner(std.Out, eng.Meta())
	}
	if opts.New && !opts.JSON {
		fmt.Fprintf(std.Err, "New slot %q. Resume it with --slot %s\n", cfg.Slot, cfg.Slot)
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithSignals(true),
	)
	runErr := r.Run(ctx, eng.Begin(store))

	if reg != nil {
		if err := observability.Dump(std.Err, reg); err != nil {
			logger.Warn("failed to print metrics", "error", err)
		}
	}
	return runErr
}

// createHandler picks JSON, rich or plain IO. Rich output needs a terminal.
func createHandler(opts PlayOptions, std Streams) (runner.IOHandler, bool) {
	if opts.JSON {
		return runner.NewJSONHandler(std.In, std.Out), false
	}

	width, tty := terminalWidth(std.Out)
	renderOpts := []tui.Option{tui.WithWidth(width)}
	if tty && !opts.Plain {
		if render, err := tui.NewRenderer(renderOpts...); err == nil {
			return runner.NewTextHandler(std.In, std.Out, runner.WithTextHandlerRenderer(render)), true
		}
	}
	return runner.NewTextHandler(std.In, std.Out, runner.WithTextHandlerRenderer(tui.NewPlainRenderer(renderOpts...))), false
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return tui.DefaultWidth, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return tui.DefaultWidth, true
	}
	return min(width, 100), true
}

// createLogger writes to w at the configured level; --debug forces debug.
func createLogger(level string, debug bool, w io.Writer) (*slog.Logger, error) {
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, lvl), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStoryletEnter: func(ctx context.Context, e *domain.StoryletEvent) {
			logger.DebugContext(ctx, "enter storylet", "storylet", e.Storylet, "ambient", e.Ambient)
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.DebugContext(ctx, "choice", "id", e.ID, "storylet", e.Storylet)
		},
		OnEffect: func(ctx context.Context, e *domain.EffectEvent) {
			logger.DebugContext(ctx, "effect", "quality", e.Quality, "before", e.Before, "after", e.After)
		},
		OnTransaction: func(ctx context.Context, e *domain.TransactionEvent) {
			logger.DebugContext(ctx, "transaction", "outcome", e.Outcome, "duration", e.Duration)
		},
	}
}
