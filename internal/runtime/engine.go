package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Reader is the part of a transaction that evaluation reads from.
// Every call may block on the backing store.
type Reader interface {
	Get(ctx context.Context, id string) (int, error)
	GetLocation(ctx context.Context) (string, bool, error)
}

// Engine evaluates one content model. It holds no player state and is safe
// for concurrent use by many sessions.
type Engine struct {
	model  *domain.Model
	atoms  map[string]atom
	rand   Random
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// atom is what a bare name in an expression or assignment subject refers to.
// rank is 0 for the quality itself and the 1-based rung rank otherwise.
type atom struct {
	quality *domain.Quality
	rank    int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger that receives content diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRandom sets the random source used for storylet picks, shuffles and
// the random operator.
func WithRandom(r Random) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// NewEngine indexes model for evaluation. The model must not be modified afterwards.
func NewEngine(model *domain.Model, opts ...EngineOption) *Engine {
	e := &Engine{
		model:  model,
		atoms:  indexAtoms(model.Qualities),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = NewRandom()
	}
	return e
}

// indexAtoms resolves every name the way a declaration-order scan would:
// the first quality named or the first rung named wins.
func indexAtoms(qualities []domain.Quality) map[string]atom {
	atoms := make(map[string]atom)
	for i := range qualities {
		q := &qualities[i]
		if _, ok := atoms[q.Name]; !ok {
			atoms[q.Name] = atom{quality: q}
		}
		for rank, v := range q.Values {
			if _, ok := atoms[v.Name]; !ok {
				atoms[v.Name] = atom{quality: q, rank: rank + 1}
			}
		}
	}
	return atoms
}

// Model returns the content the engine evaluates.
func (e *Engine) Model() *domain.Model {
	return e.model
}

// NewSession starts a play session over store. Nothing is read until the
// first call.
func (e *Engine) NewSession(store ports.Store) *Session {
	return &Session{engine: e, store: store}
}

func (e *Engine) diagnose(ctx context.Context, reason string, op domain.Operator) {
	err := &domain.ContentError{Reason: reason, Operator: op}
	e.logger.WarnContext(ctx, "content error", "reason", reason, "operator", string(op))
	if e.hooks.OnDiagnostic != nil {
		e.hooks.OnDiagnostic(ctx, &domain.DiagnosticEvent{
			EventBase: domain.NewEventBase(domain.EventDiagnostic),
			Err:       err,
		})
	}
}
