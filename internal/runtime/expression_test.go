package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	num = domain.Num
	ref = domain.Ref
	op  = domain.Op
)

func TestNumeric(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{Qualities: ladderQualities()})
	r := reader{values: map[string]int{"gold": 3, "stance": 2, "x": 0, "y": 5}, location: "harbour"}

	tests := []struct {
		name string
		expr domain.Expression
		want int
	}{
		{"number", num(42), 42},
		{"quality", ref("gold"), 3},
		{"absent quality", ref("silver"), 0},
		{"rung rank", ref("open"), 2},
		{"rung rank on unset ladder", ref("adept"), 2},
		{"plus", op(domain.OpPlus, num(1), num(2), ref("gold")), 6},
		{"multiply", op(domain.OpMultiply, num(2), num(3), num(4)), 24},
		{"minus floors at zero", op(domain.OpMinus, num(5), num(2), num(10)), 0},
		{"minus", op(domain.OpMinus, num(10), num(2), num(3)), 5},
		{"divide truncates", op(domain.OpDivide, num(20), num(3)), 6},
		{"divide by zero", op(domain.OpDivide, num(20), num(0)), 0},
		{"divide by zero later", op(domain.OpDivide, num(20), num(2), ref("x")), 0},
		{"equal", op(domain.OpEqual, ref("gold"), num(3)), 1},
		{"not equal", op(domain.OpNotEqual, ref("gold"), num(3)), 0},
		{"greater than", op(domain.OpGreaterThan, num(4), num(3)), 1},
		{"greater than or equal", op(domain.OpGreaterThanOrEqual, num(3), num(3)), 1},
		{"less than", op(domain.OpLessThan, num(2), num(3)), 1},
		{"less than or equal", op(domain.OpLessThanOrEqual, num(4), num(3)), 0},
		{"and", op(domain.OpAnd, ref("x"), ref("y")), 0},
		{"or", op(domain.OpOr, ref("x"), ref("y")), 1},
		{"not", op(domain.OpNot, num(1), num(0)), 1},
		{"maximum", op(domain.OpMaximum, num(3), num(9), num(4)), 9},
		{"minimum", op(domain.OpMinimum, num(3), num(9), num(4)), 3},
		{"minimum floors at zero", op(domain.OpMinimum, num(-5), num(2)), 0},
		{"random with one value", op(domain.OpRandom, num(4), num(4)), 4},
		{"then takes the condition", op(domain.OpThen, ref("gold"), num(7)), 3},
		{"then falls through", op(domain.OpThen, ref("x"), num(7)), 7},
		{"in", op(domain.OpIn, ref("harbour")), 1},
		{"not in", op(domain.OpIn, ref("docks")), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Numeric(context.Background(), r, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogical(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{Qualities: ladderQualities()})

	tests := []struct {
		name   string
		values map[string]int
		expr   domain.Expression
		want   bool
	}{
		{"positive number", nil, num(1), true},
		{"zero", nil, num(0), false},
		{"quality set", map[string]int{"gold": 1}, ref("gold"), true},
		{"quality absent", nil, ref("gold"), false},
		{"and with a zero", map[string]int{"x": 0, "y": 5}, op(domain.OpAnd, ref("x"), ref("y")), false},
		{"and with both set", map[string]int{"x": 3, "y": 5}, op(domain.OpAnd, ref("x"), ref("y")), true},
		{"exclusive ladder below", map[string]int{"stance": 2}, ref("guarded"), false},
		{"exclusive ladder exact", map[string]int{"stance": 2}, ref("open"), true},
		{"ladder at or above", map[string]int{"standing": 2}, ref("novice"), true},
		{"ladder exact", map[string]int{"standing": 2}, ref("adept"), true},
		{"ladder below", map[string]int{"standing": 1}, ref("adept"), false},
		{"arithmetic is positive", nil, op(domain.OpPlus, num(0), num(1)), true},
		{"arithmetic is zero", nil, op(domain.OpMinus, num(1), num(1)), false},
		{"then re-evaluates logically", map[string]int{"stance": 2}, op(domain.OpThen, ref("guarded"), ref("open")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Logical(context.Background(), reader{values: tt.values}, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRandomStaysInRange(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{})
	expr := op(domain.OpRandom, num(5), num(2), num(3))

	seen := map[int]bool{}
	for range 200 {
		v, err := engine.Numeric(context.Background(), reader{}, expr)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 2)
		assert.Less(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestMalformedExpressionsAreNeutralised(t *testing.T) {
	engine, diagnostics, logs := newEngine(t, &domain.Model{})
	ctx := context.Background()

	n, err := engine.Numeric(ctx, reader{}, op(domain.OpPlus))
	require.NoError(t, err)
	assert.Zero(t, n)

	b, err := engine.Logical(ctx, reader{}, op("power", num(2), num(3)))
	require.NoError(t, err)
	assert.False(t, b)

	n, err = engine.Numeric(ctx, reader{}, op("power", num(2), num(3)))
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Len(t, *diagnostics, 3)
	assert.Equal(t, "insufficient operands", (*diagnostics)[0].Reason)
	assert.Equal(t, domain.OpPlus, (*diagnostics)[0].Operator)
	assert.Equal(t, domain.Operator("power"), (*diagnostics)[1].Operator)
	assert.Contains(t, logs.String(), "content error")
}

func TestStoreErrorsPropagate(t *testing.T) {
	engine, _, _ := newEngine(t, &domain.Model{})
	boom := errors.New("connection reset")

	_, err := engine.Numeric(context.Background(), reader{err: boom}, op(domain.OpPlus, num(1), ref("gold")))
	assert.ErrorIs(t, err, boom)

	_, err = engine.Logical(context.Background(), reader{err: boom}, op(domain.OpIn, ref("harbour")))
	assert.ErrorIs(t, err, boom)
}
