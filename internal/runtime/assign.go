package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// apply runs one group's assignments in declared order and returns the
// results worth showing. Later assignments see earlier ones' writes.
func (e *Engine) apply(ctx context.Context, tx ports.Transaction, assignments []domain.Assignment) ([]domain.AssignmentResult, error) {
	var results []domain.AssignmentResult
	for _, a := range assignments {
		if a.Condition != nil {
			holds, err := e.Logical(ctx, tx, *a.Condition)
			if err != nil {
				return nil, err
			}
			if !holds {
				continue
			}
		}

		operand, err := e.Numeric(ctx, tx, a.Operand)
		if err != nil {
			return nil, err
		}

		var (
			effect *domain.Effect
			id     = a.Subject
		)
		target, known := e.atoms[a.Subject]
		switch {
		case !known:
			effect, err = e.mutate(ctx, tx, a.Operation, id, operand)
		case target.rank == 0:
			id = target.quality.Name
			effect, err = e.mutate(ctx, tx, a.Operation, id, operand)
		default:
			id = target.quality.Name
			effect, err = e.mutateRung(ctx, tx, a.Operation, target, operand)
		}
		if err != nil {
			return nil, err
		}
		if effect == nil {
			continue
		}

		if e.hooks.OnEffect != nil {
			e.hooks.OnEffect(ctx, &domain.EffectEvent{
				EventBase: domain.NewEventBase(domain.EventEffect),
				Quality:   id,
				Effect:    *effect,
			})
		}

		if !known || target.quality.Hidden {
			continue
		}
		if a.Hidden != nil {
			hidden, err := e.Logical(ctx, tx, *a.Hidden)
			if err != nil {
				return nil, err
			}
			if hidden {
				continue
			}
		}

		res, err := e.result(ctx, tx, target.quality, *effect)
		if err != nil {
			return nil, err
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, nil
}

func (e *Engine) mutate(ctx context.Context, tx ports.Transaction, op domain.Operation, id string, n int) (*domain.Effect, error) {
	switch op {
	case domain.OperationSet:
		return tx.Set(ctx, id, n)
	case domain.OperationUnset:
		return tx.Unset(ctx, id, n)
	case domain.OperationIncrement:
		return tx.Increment(ctx, id, n)
	case domain.OperationDecrement:
		return tx.Decrement(ctx, id, n)
	}
	e.diagnose(ctx, fmt.Sprintf("unknown operation %q on %q", op, id), "")
	return nil, nil
}

// mutateRung translates an assignment to a rung into one on its ladder.
//
// Setting a rung to 1 moves the ladder to the rung's rank; exclusive ladders
// may move down as well as up. Unsetting a rung to 0 clears an exclusive
// ladder and drops any other ladder to just below the rung. Other operands
// are applied to the ladder as raw ranks.
func (e *Engine) mutateRung(ctx context.Context, tx ports.Transaction, op domain.Operation, target atom, n int) (*domain.Effect, error) {
	q := target.quality
	switch {
	case op == domain.OperationSet && n == 1:
		effect, err := tx.Set(ctx, q.Name, target.rank)
		if err != nil || effect != nil || !q.Exclusive {
			return effect, err
		}
		return tx.Unset(ctx, q.Name, target.rank)

	case op == domain.OperationUnset && n == 0:
		floor := target.rank - 1
		if q.Exclusive || floor == 0 {
			return drop(ctx, tx, q.Name)
		}
		return tx.Unset(ctx, q.Name, floor)
	}
	return e.mutate(ctx, tx, op, q.Name, n)
}

// drop lowers id to 0. Unset cannot express that, so decrement by the
// current value instead.
func drop(ctx context.Context, tx ports.Transaction, id string) (*domain.Effect, error) {
	current, err := tx.Get(ctx, id)
	if err != nil || current == 0 {
		return nil, err
	}
	return tx.Decrement(ctx, id, current)
}
