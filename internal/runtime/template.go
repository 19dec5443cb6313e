package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

var markup = map[domain.NodeKind]domain.TextKind{
	domain.NodeBold:   domain.TextBold,
	domain.NodeItalic: domain.TextItalic,
	domain.NodeAnchor: domain.TextAnchor,
}

// Render evaluates a template into paragraphs. Top-level newline tokens start
// a new paragraph; the result always holds at least one, possibly empty.
func (e *Engine) Render(ctx context.Context, r Reader, t domain.Template) (domain.Text, error) {
	flat, err := e.flatten(ctx, r, t)
	if err != nil {
		return nil, err
	}

	text := domain.Text{domain.Paragraph()}
	for _, node := range flat {
		if node.Kind == domain.TextSpan && node.Text == domain.Newline {
			text = append(text, domain.Paragraph())
			continue
		}
		p := &text[len(text)-1]
		p.Children = append(p.Children, node)
	}
	return text, nil
}

// flatten resolves conditionals in place and keeps markup nesting.
func (e *Engine) flatten(ctx context.Context, r Reader, t domain.Template) (domain.Text, error) {
	var out domain.Text
	for _, node := range t {
		switch node.Kind {
		case domain.NodeText:
			out = append(out, domain.Span(node.Text))

		case domain.NodeBold, domain.NodeItalic, domain.NodeAnchor:
			children, err := e.flatten(ctx, r, node.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, domain.TextNode{Kind: markup[node.Kind], Children: children, Href: node.Href})

		case domain.NodeConditional:
			holds, err := e.Logical(ctx, r, node.Condition)
			if err != nil {
				return nil, err
			}
			branch := node.Next
			if holds {
				branch = node.Children
			}
			children, err := e.flatten(ctx, r, branch)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		}
	}
	return out, nil
}

// renderOptional renders t, leaving absent templates absent.
func (e *Engine) renderOptional(ctx context.Context, r Reader, t domain.Template) (domain.Text, error) {
	if t == nil {
		return nil, nil
	}
	return e.Render(ctx, r, t)
}

// renderIcon resolves an optional icon chain to its name, or "".
func (e *Engine) renderIcon(ctx context.Context, r Reader, icon *domain.Conditional[string]) (string, error) {
	name, _, err := Resolve(ctx, e, r, icon)
	return name, err
}
