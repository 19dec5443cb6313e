package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// result describes a visible change to quality q, or returns nil when the
// change is not worth reporting.
func (e *Engine) result(ctx context.Context, r Reader, q *domain.Quality, effect domain.Effect) (*domain.AssignmentResult, error) {
	if q.Hidden {
		return nil, nil
	}
	if q.Ladder() {
		return e.rungResult(ctx, r, q, effect)
	}

	style := q.Style
	res := &domain.AssignmentResult{Style: style}

	var err error
	if res.Description, err = e.renderOptional(ctx, r, q.Description); err != nil {
		return nil, err
	}

	switch {
	case style.Uncounted:
		if effect.Before > 0 && effect.After > 0 {
			return nil, nil
		}
		res.Operation = domain.OperationSet
		if effect.After == 0 {
			res.Operation = domain.OperationUnset
		}
		res.Label, err = e.label(ctx, r, q, pick(style.Plural, q.PluralLabel), pick(!style.Plural, q.SingularLabel), q.Label)

	case style.Currency:
		res.Operation = direction(effect)
		res.Value = &effect.After
		res.Label, err = e.label(ctx, r, q, pick(effect.After == 1, q.SingularLabel), pick(effect.After != 1, q.PluralLabel), q.Label)

	default:
		res.Operation = direction(effect)
		res.Value = &effect.After
		res.Label, err = e.label(ctx, r, q, pick(style.Plural, q.PluralLabel), pick(!style.Plural, q.SingularLabel), q.Label)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) rungResult(ctx context.Context, r Reader, q *domain.Quality, effect domain.Effect) (*domain.AssignmentResult, error) {
	rank := effect.After
	if rank == 0 {
		rank = effect.Before
	}
	if rank < 1 || rank > len(q.Values) {
		return nil, nil
	}
	rung := &q.Values[rank-1]

	res := &domain.AssignmentResult{Style: q.Style, Operation: domain.OperationSet}
	if effect.After == 0 {
		res.Operation = domain.OperationUnset
	}

	rungLabel, err := e.label(ctx, r, q, rung.Label)
	if err != nil {
		return nil, err
	}

	description := rung.Description
	if description == nil {
		description = q.Description
	}
	if res.Description, err = e.renderOptional(ctx, r, description); err != nil {
		return nil, err
	}

	if q.Style.Uncounted {
		res.Label = rungLabel
		return res, nil
	}

	res.ValueLabel = rungLabel
	res.Label, err = e.label(ctx, r, q, pick(q.Style.Plural, q.PluralLabel), q.Label)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// label renders the first present candidate, falling back to the quality name.
func (e *Engine) label(ctx context.Context, r Reader, q *domain.Quality, candidates ...domain.Template) (domain.Text, error) {
	for _, t := range candidates {
		if t != nil {
			return e.Render(ctx, r, t)
		}
	}
	return e.Render(ctx, r, domain.Plain(q.Name))
}

func pick(when bool, t domain.Template) domain.Template {
	if when {
		return t
	}
	return nil
}

func direction(effect domain.Effect) domain.Operation {
	if effect.After > effect.Before {
		return domain.OperationIncrement
	}
	return domain.OperationDecrement
}
