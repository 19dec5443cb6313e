package runtime_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
)

// reader is a fixed view of player state.
type reader struct {
	values   map[string]int
	location string
	err      error
}

func (r reader) Get(ctx context.Context, id string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.values[id], nil
}

func (r reader) GetLocation(ctx context.Context) (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}
	return r.location, r.location != "", nil
}

func ladderQualities() []domain.Quality {
	return []domain.Quality{
		{Name: "gold", Style: domain.QualityStyle{Currency: true}, SingularLabel: domain.Plain("coin"), PluralLabel: domain.Plain("coins")},
		{Name: "stance", Exclusive: true, Values: []domain.QualityValue{{Name: "guarded"}, {Name: "open"}}},
		{Name: "standing", Values: []domain.QualityValue{{Name: "novice"}, {Name: "adept"}}},
	}
}

// newEngine builds an engine whose diagnostics are collected and logged to a buffer.
func newEngine(t *testing.T, model *domain.Model, opts ...runtime.EngineOption) (*runtime.Engine, *[]*domain.ContentError, *bytes.Buffer) {
	t.Helper()
	var diagnostics []*domain.ContentError
	var logs bytes.Buffer
	base := []runtime.EngineOption{
		runtime.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		runtime.WithRandom(runtime.NewSeededRandom(7)),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnDiagnostic: func(ctx context.Context, e *domain.DiagnosticEvent) {
				diagnostics = append(diagnostics, e.Err)
			},
		}),
	}
	return runtime.NewEngine(model, append(base, opts...)...), &diagnostics, &logs
}

func para(parts ...string) domain.TextNode {
	if len(parts) == 0 {
		return domain.Paragraph()
	}
	children := make([]domain.TextNode, 0, len(parts))
	for _, p := range parts {
		children = append(children, domain.Span(p))
	}
	return domain.Paragraph(children...)
}

func text(parts ...string) domain.Text {
	return domain.Text{para(parts...)}
}
