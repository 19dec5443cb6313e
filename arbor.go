package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Engine is the high-level entry point for the Arbor library.
// It holds one piece of content and starts sessions over player stores.
type Engine struct {
	runtime *runtime.Engine
	model   *domain.Model
	random  runtime.Random
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
// Content errors met during play are reported here.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRandom sets the random source shared by every session of the engine.
func WithRandom(r *rand.Rand) Option {
	return func(e *Engine) {
		e.random = runtime.Locked(r)
	}
}

// WithSeed makes storylet picks, shuffles and random expressions reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.random = runtime.NewSeededRandom(seed)
	}
}

// WithName labels the engine, mostly for logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes an Engine for model. The model must not change afterwards.
func New(model *domain.Model, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}

	eng := &Engine{model: model}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("content", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	if eng.random != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithRandom(eng.random))
	}
	eng.runtime = runtime.NewEngine(model, runtimeOpts...)

	eng.logger.Debug("engine ready",
		"qualities", len(model.Qualities),
		"locations", len(model.Locations),
		"storylets", len(model.Storylets),
	)
	return eng, nil
}

// Load reads a YAML or JSON content file and initializes an Engine for it.
// The file name (without extension) becomes the engine name unless WithName is given.
func Load(path string, opts ...Option) (*Engine, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromLoader(context.Background(), file.NewLoader(path), append([]Option{WithName(name)}, opts...)...)
}

// FromLoader initializes an Engine from any ModelLoader.
func FromLoader(ctx context.Context, loader ports.ModelLoader, opts ...Option) (*Engine, error) {
	model, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return New(model, opts...)
}

// Meta returns the content's title, description and credits.
func (e *Engine) Meta() domain.Meta {
	return e.model.Meta
}

// Model returns the content the engine plays.
func (e *Engine) Model() *domain.Model {
	return e.model
}

// Begin starts a session over store. Stores carry player state; the same
// store may be resumed later by a new session.
func (e *Engine) Begin(store ports.Store) *Session {
	return &Session{
		inner:  e.runtime.NewSession(store),
		logger: e.logger,
	}
}
