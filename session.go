package arbor

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
)

// Session is one player's progress through the content.
// A Session serializes its own calls; it may be shared between goroutines.
type Session struct {
	inner  *runtime.Session
	logger *slog.Logger
}

// Continue advances the story and returns what to show next.
func (s *Session) Continue(ctx context.Context) (*domain.SessionState, error) {
	state, err := s.inner.Continue(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "continue failed", "error", err)
		return nil, err
	}
	s.logState(ctx, "continue", state)
	return state, nil
}

// Choose selects the offered choice with the given id.
// Ids that are not on offer, or whose condition no longer holds, change nothing.
func (s *Session) Choose(ctx context.Context, id int) (*domain.SessionState, error) {
	state, err := s.inner.Choose(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "choose failed", "choice", id, "error", err)
		return nil, err
	}
	s.logState(ctx, "choose", state, "choice", id)
	return state, nil
}

// Reset forgets the player's progress, both stored and in the session.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.inner.Reset(ctx); err != nil {
		s.logger.ErrorContext(ctx, "reset failed", "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "session reset")
	return nil
}

func (s *Session) logState(ctx context.Context, step string, state *domain.SessionState, args ...any) {
	args = append(args,
		"step", step,
		"choices", len(state.Choices),
		"records", len(state.Assignments),
	)
	s.logger.DebugContext(ctx, "session advanced", args...)
}
