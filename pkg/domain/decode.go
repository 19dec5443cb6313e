package domain

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Content files are YAML or JSON (which yaml.v3 reads as YAML). The closed
// unions below are decoded by inspecting node kinds rather than probing
// properties after the fact.

// UnmarshalYAML decodes a number, a reference string, or an [operator, operands...] list.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.AliasNode:
		return e.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		switch value.ShortTag() {
		case "!!int":
			var n int
			if err := value.Decode(&n); err != nil {
				return err
			}
			*e = Num(n)
		case "!!float":
			var f float64
			if err := value.Decode(&f); err != nil {
				return err
			}
			*e = Num(int(math.Trunc(f)))
		case "!!bool":
			var b bool
			if err := value.Decode(&b); err != nil {
				return err
			}
			if b {
				*e = Num(1)
			} else {
				*e = Num(0)
			}
		default:
			*e = Ref(value.Value)
		}
		return nil
	case yaml.SequenceNode:
		op := Expression{Kind: KindOperation}
		if len(value.Content) > 0 {
			head := value.Content[0]
			if head.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: operator must be a string", head.Line)
			}
			op.Operator = Operator(head.Value)
			for _, child := range value.Content[1:] {
				var operand Expression
				if err := operand.UnmarshalYAML(child); err != nil {
					return err
				}
				op.Operands = append(op.Operands, operand)
			}
		}
		*e = op
		return nil
	default:
		return fmt.Errorf("line %d: expression must be a number, a string or a list", value.Line)
	}
}

// UnmarshalYAML accepts a list of nodes or, as shorthand, a single string.
func (t *Template) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = Plain(value.Value)
		return nil
	}
	nodes := make([]TemplateNode, 0, len(value.Content))
	if err := value.Decode(&nodes); err != nil {
		return err
	}
	*t = nodes
	return nil
}

type templateNodeFields struct {
	B         *Template   `yaml:"b"`
	I         *Template   `yaml:"i"`
	A         *Template   `yaml:"a"`
	Href      string      `yaml:"href"`
	Condition *Expression `yaml:"condition"`
	Value     Template    `yaml:"value"`
	Next      Template    `yaml:"next"`
}

// UnmarshalYAML decodes a string or a {b}, {i}, {a, href} or {condition, value, next} object.
func (n *TemplateNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = Literal(value.Value)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: template node must be a string or an object", value.Line)
	}
	var f templateNodeFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	switch {
	case f.B != nil:
		*n = Bold(*f.B...)
	case f.I != nil:
		*n = Italic(*f.I...)
	case f.A != nil:
		*n = Anchor(f.Href, *f.A...)
	case f.Condition != nil:
		*n = When(*f.Condition, f.Value, f.Next)
	default:
		return fmt.Errorf("line %d: unrecognized template node", value.Line)
	}
	return nil
}

// UnmarshalYAML decodes a bare value or a {condition, value, next} chain.
func (c *Conditional[V]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode && hasKey(value, "condition") {
		var f struct {
			Condition Expression      `yaml:"condition"`
			Value     V               `yaml:"value"`
			Next      *Conditional[V] `yaml:"next"`
		}
		if err := value.Decode(&f); err != nil {
			return err
		}
		*c = Conditional[V]{Value: f.Value, Condition: &f.Condition, Next: f.Next}
		return nil
	}
	var v V
	if err := value.Decode(&v); err != nil {
		return err
	}
	*c = Conditional[V]{Value: v}
	return nil
}

// UnmarshalYAML accepts a list of text nodes or a single string.
func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = Text{Span(value.Value)}
		return nil
	}
	nodes := make([]TextNode, 0, len(value.Content))
	if err := value.Decode(&nodes); err != nil {
		return err
	}
	*t = nodes
	return nil
}

// UnmarshalYAML decodes a string or a {p}, {b}, {i} or {a, href} object.
func (n *TextNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = Span(value.Value)
		return nil
	}
	var f struct {
		P    *Text  `yaml:"p"`
		B    *Text  `yaml:"b"`
		I    *Text  `yaml:"i"`
		A    *Text  `yaml:"a"`
		Href string `yaml:"href"`
	}
	if err := value.Decode(&f); err != nil {
		return err
	}
	switch {
	case f.P != nil:
		*n = TextNode{Kind: TextParagraph, Children: *f.P}
	case f.B != nil:
		*n = TextNode{Kind: TextBold, Children: *f.B}
	case f.I != nil:
		*n = TextNode{Kind: TextItalic, Children: *f.I}
	case f.A != nil:
		*n = TextNode{Kind: TextAnchor, Children: *f.A, Href: f.Href}
	default:
		return fmt.Errorf("line %d: unrecognized text node", value.Line)
	}
	return nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
