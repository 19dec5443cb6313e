package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{})
	r := reader{values: map[string]int{"lamp": 1}}

	tests := []struct {
		name     string
		template domain.Template
		want     domain.Text
	}{
		{
			name:     "empty",
			template: nil,
			want:     domain.Text{para()},
		},
		{
			name: "conditional splices its value and newlines split paragraphs",
			template: domain.Template{
				domain.Literal("Hello"),
				domain.When(num(1), domain.Plain("World"), nil),
				domain.Literal(domain.Newline),
				domain.Literal("Next"),
			},
			want: domain.Text{para("Hello", "World"), para("Next")},
		},
		{
			name: "failing conditional without next adds nothing",
			template: domain.Template{
				domain.Literal("A"),
				domain.When(num(0), domain.Plain("B"), nil),
			},
			want: text("A"),
		},
		{
			name: "failing conditional falls to next",
			template: domain.Template{
				domain.When(ref("dark"), domain.Plain("pitch black"), domain.Template{
					domain.When(ref("lamp"), domain.Plain("lamplit"), nil),
				}),
			},
			want: text("lamplit"),
		},
		{
			name:     "trailing newline leaves an empty paragraph",
			template: domain.Plain("A", domain.Newline),
			want:     domain.Text{para("A"), para()},
		},
		{
			name: "markup keeps nesting",
			template: domain.Template{
				domain.Bold(domain.Literal("bold"), domain.Italic(domain.Literal("both"))),
				domain.Anchor("https://example.com", domain.Literal("link")),
			},
			want: domain.Text{domain.Paragraph(
				domain.TextNode{Kind: domain.TextBold, Children: domain.Text{
					domain.Span("bold"),
					{Kind: domain.TextItalic, Children: domain.Text{domain.Span("both")}},
				}},
				domain.TextNode{Kind: domain.TextAnchor, Href: "https://example.com", Children: domain.Text{domain.Span("link")}},
			)},
		},
		{
			name: "newlines inside markup do not split",
			template: domain.Template{
				domain.Bold(domain.Literal("a"), domain.Literal(domain.Newline), domain.Literal("b")),
			},
			want: domain.Text{domain.Paragraph(
				domain.TextNode{Kind: domain.TextBold, Children: domain.Text{
					domain.Span("a"), domain.Span(domain.Newline), domain.Span("b"),
				}},
			)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Render(context.Background(), r, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{})
	ctx := context.Background()
	r := reader{values: map[string]int{"night": 1}}

	v, ok, err := runtime.Resolve(ctx, engine, r, domain.Always("plain"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plain", v)

	chain := domain.If(ref("day"), "sun", domain.If(ref("night"), "moon", nil))
	v, ok, err = runtime.Resolve(ctx, engine, r, chain)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "moon", v)

	v, ok, err = runtime.Resolve(ctx, engine, reader{}, chain)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	chain = domain.If(ref("day"), "sun", domain.Always("fallback"))
	v, _, err = runtime.Resolve(ctx, engine, reader{}, chain)
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, ok, err = runtime.Resolve[string](ctx, engine, r, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
