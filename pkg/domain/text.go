package domain

import (
	"encoding/json"
	"strings"
)

// TextKind discriminates the variants of a rendered TextNode.
type TextKind int

const (
	TextSpan TextKind = iota
	TextParagraph
	TextBold
	TextItalic
	TextAnchor
)

// Text is rendered display text: a forest of paragraphs and inline markup.
// It is what templates evaluate to and what presentation layers consume.
type Text []TextNode

// TextNode is one element of rendered Text.
type TextNode struct {
	Kind     TextKind
	Text     string
	Children Text
	Href     string
}

// Span builds a literal text node.
func Span(s string) TextNode {
	return TextNode{Kind: TextSpan, Text: s}
}

// Paragraph wraps children in a paragraph node.
func Paragraph(children ...TextNode) TextNode {
	return TextNode{Kind: TextParagraph, Children: children}
}

// MarshalJSON encodes the node the way content files write it:
// a bare string, or an object keyed by "p", "b", "i" or "a".
func (n TextNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = Text{}
	}
	switch n.Kind {
	case TextParagraph:
		return json.Marshal(map[string]Text{"p": children})
	case TextBold:
		return json.Marshal(map[string]Text{"b": children})
	case TextItalic:
		return json.Marshal(map[string]Text{"i": children})
	case TextAnchor:
		return json.Marshal(struct {
			A    Text   `json:"a"`
			Href string `json:"href"`
		}{A: children, Href: n.Href})
	default:
		return json.Marshal(n.Text)
	}
}

// String flattens the text, separating paragraphs with a blank line.
func (t Text) String() string {
	var b strings.Builder
	writePlain(&b, t)
	return strings.TrimSpace(b.String())
}

// Empty reports whether the text carries no visible characters.
func (t Text) Empty() bool {
	return t.String() == ""
}

func writePlain(b *strings.Builder, t Text) {
	for _, n := range t {
		switch n.Kind {
		case TextSpan:
			b.WriteString(n.Text)
		case TextParagraph:
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			writePlain(b, n.Children)
		default:
			writePlain(b, n.Children)
		}
	}
}
