package domain

// NodeKind discriminates the variants of a TemplateNode.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeBold
	NodeItalic
	NodeAnchor
	NodeConditional
)

// Newline is the literal text token that separates paragraphs.
const Newline = "\n"

// Template is authored rich text with embedded conditionals.
type Template []TemplateNode

// TemplateNode is one element of a Template.
//
// Text nodes carry Text. Bold, italic and anchor nodes carry Children (and
// Href for anchors). Conditional nodes splice Children when Condition holds,
// otherwise Next.
type TemplateNode struct {
	Kind      NodeKind
	Text      string
	Children  Template
	Href      string
	Condition Expression
	Next      Template
}

// Plain builds a template made of literal strings.
func Plain(parts ...string) Template {
	t := make(Template, 0, len(parts))
	for _, p := range parts {
		t = append(t, TemplateNode{Kind: NodeText, Text: p})
	}
	return t
}

// Bold wraps children in a bold node.
func Bold(children ...TemplateNode) TemplateNode {
	return TemplateNode{Kind: NodeBold, Children: children}
}

// Italic wraps children in an italic node.
func Italic(children ...TemplateNode) TemplateNode {
	return TemplateNode{Kind: NodeItalic, Children: children}
}

// Anchor wraps children in a link to href.
func Anchor(href string, children ...TemplateNode) TemplateNode {
	return TemplateNode{Kind: NodeAnchor, Href: href, Children: children}
}

// When builds a conditional node. next may be nil.
func When(condition Expression, value, next Template) TemplateNode {
	return TemplateNode{Kind: NodeConditional, Condition: condition, Children: value, Next: next}
}

// Literal builds a text node.
func Literal(s string) TemplateNode {
	return TemplateNode{Kind: NodeText, Text: s}
}
