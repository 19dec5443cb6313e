package domain

// Conditional is either a bare value or a chain of condition/value pairs.
//
// A bare value has a nil Condition. A node whose condition fails defers to
// Next; a failing node without Next resolves to "no value".
type Conditional[V any] struct {
	Value     V
	Condition *Expression
	Next      *Conditional[V]
}

// Always builds a bare conditional.
func Always[V any](v V) *Conditional[V] {
	return &Conditional[V]{Value: v}
}

// If builds a conditional node. next may be nil.
func If[V any](condition Expression, v V, next *Conditional[V]) *Conditional[V] {
	return &Conditional[V]{Value: v, Condition: &condition, Next: next}
}
