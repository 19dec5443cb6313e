package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// predicates are the operators whose natural result is a boolean.
var predicates = map[domain.Operator]bool{
	domain.OpEqual:              true,
	domain.OpNotEqual:           true,
	domain.OpGreaterThan:        true,
	domain.OpGreaterThanOrEqual: true,
	domain.OpLessThan:           true,
	domain.OpLessThanOrEqual:    true,
	domain.OpAnd:                true,
	domain.OpOr:                 true,
	domain.OpNot:                true,
	domain.OpIn:                 true,
}

// Numeric evaluates expr as an integer. Booleans become 1 or 0.
//
// Malformed operations are reported as diagnostics and evaluate to 0;
// only store errors are returned.
func (e *Engine) Numeric(ctx context.Context, r Reader, expr domain.Expression) (int, error) {
	switch expr.Kind {
	case domain.KindNumber:
		return expr.Number, nil
	case domain.KindRef:
		if a, ok := e.atoms[expr.Ref]; ok && a.rank > 0 {
			return a.rank, nil
		}
		return r.Get(ctx, expr.Ref)
	}

	if !e.wellFormed(ctx, expr) {
		return 0, nil
	}
	if expr.Operator == domain.OpThen {
		branch, err := e.branch(ctx, r, expr.Operands)
		if err != nil {
			return 0, err
		}
		return e.Numeric(ctx, r, branch)
	}
	if predicates[expr.Operator] {
		ok, err := e.predicate(ctx, r, expr)
		return boolInt(ok), err
	}
	return e.arithmetic(ctx, r, expr)
}

// Logical evaluates expr as a condition. Numbers are true when positive.
//
// A rung name is true when the ladder stands exactly on it (exclusive
// ladders) or at or above it (other ladders).
func (e *Engine) Logical(ctx context.Context, r Reader, expr domain.Expression) (bool, error) {
	switch expr.Kind {
	case domain.KindNumber:
		return expr.Number > 0, nil
	case domain.KindRef:
		if a, ok := e.atoms[expr.Ref]; ok && a.rank > 0 {
			current, err := r.Get(ctx, a.quality.Name)
			if err != nil {
				return false, err
			}
			if a.quality.Exclusive {
				return current == a.rank, nil
			}
			return current >= a.rank, nil
		}
		v, err := r.Get(ctx, expr.Ref)
		return v > 0, err
	}

	if !e.wellFormed(ctx, expr) {
		return false, nil
	}
	if expr.Operator == domain.OpThen {
		branch, err := e.branch(ctx, r, expr.Operands)
		if err != nil {
			return false, err
		}
		return e.Logical(ctx, r, branch)
	}
	if predicates[expr.Operator] {
		return e.predicate(ctx, r, expr)
	}
	v, err := e.arithmetic(ctx, r, expr)
	return v > 0, err
}

func (e *Engine) wellFormed(ctx context.Context, expr domain.Expression) bool {
	if expr.Kind != domain.KindOperation {
		e.diagnose(ctx, fmt.Sprintf("unknown expression kind %d", expr.Kind), "")
		return false
	}
	if len(expr.Operands) == 0 {
		e.diagnose(ctx, "insufficient operands", expr.Operator)
		return false
	}
	return true
}

// operand returns the i-th operand, or 0 with a diagnostic when it is missing.
func (e *Engine) operand(ctx context.Context, expr domain.Expression, i int) domain.Expression {
	if i < len(expr.Operands) {
		return expr.Operands[i]
	}
	e.diagnose(ctx, fmt.Sprintf("missing operand %d", i+1), expr.Operator)
	return domain.Num(0)
}

// branch picks the operand a "then" continues with: the first when it holds,
// the second otherwise.
func (e *Engine) branch(ctx context.Context, r Reader, operands []domain.Expression) (domain.Expression, error) {
	ok, err := e.Logical(ctx, r, operands[0])
	if err != nil {
		return domain.Expression{}, err
	}
	if ok {
		return operands[0], nil
	}
	if len(operands) < 2 {
		e.diagnose(ctx, "missing operand 2", domain.OpThen)
		return domain.Num(0), nil
	}
	return operands[1], nil
}

func (e *Engine) predicate(ctx context.Context, r Reader, expr domain.Expression) (bool, error) {
	switch expr.Operator {
	case domain.OpAnd:
		return e.and(ctx, r, expr.Operands)
	case domain.OpNot:
		ok, err := e.and(ctx, r, expr.Operands)
		return !ok, err
	case domain.OpOr:
		for _, operand := range expr.Operands {
			ok, err := e.Logical(ctx, r, operand)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case domain.OpIn:
		location, ok, err := r.GetLocation(ctx)
		if err != nil || !ok {
			return false, err
		}
		target := expr.Operands[0]
		return target.Kind == domain.KindRef && target.Ref == location, nil
	}

	left, err := e.Numeric(ctx, r, e.operand(ctx, expr, 0))
	if err != nil {
		return false, err
	}
	right, err := e.Numeric(ctx, r, e.operand(ctx, expr, 1))
	if err != nil {
		return false, err
	}

	switch expr.Operator {
	case domain.OpEqual:
		return left == right, nil
	case domain.OpNotEqual:
		return left != right, nil
	case domain.OpGreaterThan:
		return left > right, nil
	case domain.OpGreaterThanOrEqual:
		return left >= right, nil
	case domain.OpLessThan:
		return !(left >= right), nil
	default: // OpLessThanOrEqual
		return !(left > right), nil
	}
}

func (e *Engine) and(ctx context.Context, r Reader, operands []domain.Expression) (bool, error) {
	for _, operand := range operands {
		ok, err := e.Logical(ctx, r, operand)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (e *Engine) arithmetic(ctx context.Context, r Reader, expr domain.Expression) (int, error) {
	switch expr.Operator {
	case domain.OpPlus, domain.OpMultiply, domain.OpMinus, domain.OpDivide,
		domain.OpMaximum, domain.OpMinimum, domain.OpRandom:
	default:
		e.diagnose(ctx, "unrecognized operator", expr.Operator)
		return 0, nil
	}

	values := make([]int, 0, len(expr.Operands))
	for i, operand := range expr.Operands {
		v, err := e.Numeric(ctx, r, operand)
		if err != nil {
			return 0, err
		}
		// A zero divisor decides the result; later operands are not read.
		if expr.Operator == domain.OpDivide && i > 0 && v == 0 {
			return 0, nil
		}
		values = append(values, v)
	}

	switch expr.Operator {
	case domain.OpPlus:
		sum := 0
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case domain.OpMultiply:
		product := 1
		for _, v := range values {
			product *= v
		}
		return product, nil
	case domain.OpMinus:
		difference := values[0]
		for _, v := range values[1:] {
			difference -= v
		}
		return max(difference, 0), nil
	case domain.OpDivide:
		quotient := values[0]
		for _, v := range values[1:] {
			quotient /= v
		}
		return quotient, nil
	case domain.OpMaximum:
		return max(0, maxOf(values)), nil
	case domain.OpMinimum:
		return max(0, minOf(values)), nil
	default: // OpRandom
		lo, hi := minOf(values), max(0, maxOf(values))
		if hi > lo {
			return max(0, lo+e.rand.IntN(hi-lo)), nil
		}
		return max(0, lo), nil
	}
}

func minOf(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		m = min(m, v)
	}
	return m
}

func maxOf(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		m = max(m, v)
	}
	return m
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
