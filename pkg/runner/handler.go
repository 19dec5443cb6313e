package runner

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// IOHandler defines the strategy for interacting with the player.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a session state to the player.
	Output(ctx context.Context, state *domain.SessionState) error

	// Input reads one command from the player.
	// It returns io.EOF when no more input will arrive.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (a rejected command, a reset notice).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// Session is the part of arbor.Session the runner drives.
type Session interface {
	Continue(ctx context.Context) (*domain.SessionState, error)
	Choose(ctx context.Context, id int) (*domain.SessionState, error)
	Reset(ctx context.Context) error
}

// ContentRenderer turns a session state into display text.
// This allows TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(*domain.SessionState) (string, error)
