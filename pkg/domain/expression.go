package domain

// ExpressionKind discriminates the variants of an Expression.
type ExpressionKind int

const (
	// KindNumber is an integer literal.
	KindNumber ExpressionKind = iota
	// KindRef names a quality or a rung of a quality ladder.
	KindRef
	// KindOperation applies an Operator to its operands.
	KindOperation
)

// Operator is the tag of an operation expression.
type Operator string

const (
	OpPlus               Operator = "plus"
	OpMultiply           Operator = "multiply"
	OpMinus              Operator = "minus"
	OpDivide             Operator = "divide"
	OpEqual              Operator = "equal"
	OpNotEqual           Operator = "notEqual"
	OpGreaterThan        Operator = "greaterThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThan           Operator = "lessThan"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpAnd                Operator = "and"
	OpOr                 Operator = "or"
	OpNot                Operator = "not"
	OpMaximum            Operator = "maximum"
	OpMinimum            Operator = "minimum"
	OpRandom             Operator = "random"
	OpThen               Operator = "then"
	OpIn                 Operator = "in"
)

// Expression is a closed union: a number, a reference, or an operation.
// In content files it is written as a number, a string, or a list whose
// first element is the operator tag.
type Expression struct {
	Kind     ExpressionKind
	Number   int
	Ref      string
	Operator Operator
	Operands []Expression
}

// Num builds a number literal.
func Num(n int) Expression {
	return Expression{Kind: KindNumber, Number: n}
}

// Ref builds a reference to a quality or rung.
func Ref(name string) Expression {
	return Expression{Kind: KindRef, Ref: name}
}

// Op builds an operation.
func Op(op Operator, operands ...Expression) Expression {
	return Expression{Kind: KindOperation, Operator: op, Operands: operands}
}

// Ptr returns a pointer to e, for optional expression fields.
func (e Expression) Ptr() *Expression {
	return &e
}
