package domain

// Operation is the mutation an Assignment applies.
type Operation string

const (
	OperationSet       Operation = "set"
	OperationUnset     Operation = "unset"
	OperationIncrement Operation = "increment"
	OperationDecrement Operation = "decrement"
)

// Assignment mutates one subject when its condition holds.
// Subject names a quality, a rung of a quality ladder, or an ad hoc id.
type Assignment struct {
	Condition *Expression `yaml:"condition,omitempty"`
	Subject   string      `yaml:"subject"`
	Operation Operation   `yaml:"operation"`
	Operand   Expression  `yaml:"operand"`
	Hidden    *Expression `yaml:"hidden,omitempty"`
}

// AssignmentGroup is a batch of assignments reported together.
type AssignmentGroup struct {
	Assignments []Assignment `yaml:"assignments"`
	Description Template     `yaml:"description,omitempty"`
}

// Choice is one option offered inside a storylet.
type Choice struct {
	Condition   *Expression          `yaml:"condition,omitempty"`
	Label       Template             `yaml:"label"`
	Description Template             `yaml:"description,omitempty"`
	Icon        *Conditional[string] `yaml:"icon,omitempty"`
	Body        Template             `yaml:"body,omitempty"`
	Navigation  *Conditional[string] `yaml:"navigation,omitempty"`
	Assignments []AssignmentGroup    `yaml:"assignments,omitempty"`
}

// ChoiceGroup is a run of choices that may be shuffled and capped together.
type ChoiceGroup struct {
	Limit   *Expression `yaml:"limit,omitempty"`
	Shuffle *Expression `yaml:"shuffle,omitempty"`
	Choices []Choice    `yaml:"choices"`
}

// Choices holds a storylet's choice groups in declared order.
type Choices struct {
	Prompt Template      `yaml:"prompt,omitempty"`
	Groups []ChoiceGroup `yaml:"groups"`
}

// Storylet is a scene. Storylets with a label are listed (offered as a menu);
// storylets without one are ambient (picked at random when eligible).
type Storylet struct {
	Name        string               `yaml:"name"`
	Condition   *Expression          `yaml:"condition,omitempty"`
	Label       Template             `yaml:"label,omitempty"`
	Description Template             `yaml:"description,omitempty"`
	Icon        *Conditional[string] `yaml:"icon,omitempty"`
	Body        Template             `yaml:"body,omitempty"`
	Navigation  *Conditional[string] `yaml:"navigation,omitempty"`
	Assignments []AssignmentGroup    `yaml:"assignments,omitempty"`
	Choices     *Choices             `yaml:"choices,omitempty"`
}

// Listed reports whether the storylet is offered by label rather than picked.
func (s *Storylet) Listed() bool {
	return s.Label != nil
}
