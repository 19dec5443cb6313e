package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Runner handles the play loop of an Arbor session using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input and Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Signals makes SIGINT/SIGTERM end the loop without an error.
	Signals bool

	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run plays session until input ends, the player quits, or an interrupt
// arrives. Errors from the session end the loop and are returned.
func (r *Runner) Run(ctx context.Context, session Session) error {
	handler := r.resolveHandler()

	ctx, stop := r.signalContext(ctx)
	defer stop.Stop()

	state, err := session.Continue(ctx)
	if err != nil {
		return r.interrupted(stop, fmt.Errorf("failed to start session: %w", err))
	}

	for {
		if err := handler.Output(ctx, state); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		next, err := r.step(ctx, handler, session, state)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return r.interrupted(stop, err)
		}
		state = next
	}
}

// step reads commands until one produces a new state.
func (r *Runner) step(ctx context.Context, handler IOHandler, session Session, state *domain.SessionState) (*domain.SessionState, error) {
	for {
		line, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("input error: %w", err)
		}

		cmd := ParseCommand(line)
		r.Logger.DebugContext(ctx, "command", "input", line, "kind", cmd.Kind, "id", cmd.ID)

		switch cmd.Kind {
		case CommandQuit:
			return nil, io.EOF

		case CommandReset:
			if err := session.Reset(ctx); err != nil {
				return nil, fmt.Errorf("reset failed: %w", err)
			}
			if err := handler.SystemOutput(ctx, "Progress reset."); err != nil {
				return nil, err
			}
			return session.Continue(ctx)

		case CommandContinue:
			if state.Continue == nil {
				if err := handler.SystemOutput(ctx, "Pick one of the choices."); err != nil {
					return nil, err
				}
				continue
			}
			return session.Continue(ctx)

		case CommandChoose:
			if !slices.ContainsFunc(state.Choices, func(c domain.ChoiceView) bool { return c.ID == cmd.ID }) {
				if err := handler.SystemOutput(ctx, fmt.Sprintf("There is no choice %d.", cmd.ID)); err != nil {
					return nil, err
				}
				continue
			}
			return session.Choose(ctx, cmd.ID)

		default:
			if err := handler.SystemOutput(ctx, fmt.Sprintf("Unknown command %q.", line)); err != nil {
				return nil, err
			}
		}
	}
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	var opts []TextHandlerOption
	if r.Renderer != nil {
		opts = append(opts, WithTextHandlerRenderer(r.Renderer))
	}
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = NewTextHandler(r.Input, r.Output, opts...)
	return r.Handler
}

// signalContext returns ctx itself unless signal handling is enabled.
func (r *Runner) signalContext(ctx context.Context) (context.Context, *SignalManager) {
	if !r.Signals {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, &SignalManager{parent: ctx, ctx: ctx, cancel: cancel}
	}
	sm := NewSignalManager(ctx)
	return sm.Context(), sm
}

// interrupted swallows err when a signal caused it.
func (r *Runner) interrupted(sm *SignalManager, err error) error {
	if !r.Signals {
		return err
	}
	sm.CheckRace()
	if sm.Interrupted() {
		r.Logger.Debug("interrupted", "error", err)
		return nil
	}
	return err
}
