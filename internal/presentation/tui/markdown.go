package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"golang.org/x/text/message"
)

// Markdown writes rendered text as CommonMark.
func Markdown(t domain.Text) string {
	var b strings.Builder
	writeMarkdown(&b, t)
	return strings.TrimSpace(b.String())
}

func writeMarkdown(b *strings.Builder, t domain.Text) {
	for _, n := range t {
		switch n.Kind {
		case domain.TextSpan:
			b.WriteString(escape(n.Text))
		case domain.TextParagraph:
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			writeMarkdown(b, n.Children)
		case domain.TextBold:
			b.WriteString("**")
			writeMarkdown(b, n.Children)
			b.WriteString("**")
		case domain.TextItalic:
			b.WriteString("_")
			writeMarkdown(b, n.Children)
			b.WriteString("_")
		case domain.TextAnchor:
			b.WriteString("[")
			writeMarkdown(b, n.Children)
			fmt.Fprintf(b, "](%s)", n.Href)
		}
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

// document lays a session state out as blocks. text formats content and
// literal formats engine-made strings (phrases, choice markers).
type document struct {
	printer *message.Printer
	text    func(domain.Text) string
	literal func(string) string
	heading func(level int, s string) string
	item    func(s string) string
}

func (d document) render(state *domain.SessionState) string {
	var blocks []string
	if state.Location != nil {
		blocks = append(blocks, d.heading(2, d.text(state.Location.Label)))
		if !state.Location.Description.Empty() {
			blocks = append(blocks, d.text(state.Location.Description))
		}
	}
	if state.Storylet != nil && !state.Storylet.Label.Empty() {
		blocks = append(blocks, d.heading(3, d.text(state.Storylet.Label)))
	}
	if !state.Body.Empty() {
		blocks = append(blocks, d.text(state.Body))
	}

	for _, record := range state.Assignments {
		var lines []string
		for _, result := range record.Results {
			lines = append(lines, d.item(d.literal(Phrase(d.printer, result))))
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
		if !record.Description.Empty() {
			blocks = append(blocks, d.text(record.Description))
		}
	}

	if !state.Prompt.Empty() {
		blocks = append(blocks, d.text(state.Prompt))
	}
	var choices []string
	for _, c := range state.Choices {
		line := d.literal(fmt.Sprintf("[%d] ", c.ID)) + d.text(c.Label)
		if !c.Description.Empty() {
			line += ": " + d.text(c.Description)
		}
		choices = append(choices, d.item(line))
	}
	if state.Continue != nil {
		label := d.literal("Continue")
		if state.Continue.Label != nil {
			label = d.text(state.Continue.Label)
		}
		choices = append(choices, d.item(d.literal("[enter] ")+label))
	}
	if len(choices) > 0 {
		blocks = append(blocks, strings.Join(choices, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// StateMarkdown lays a whole session state out as CommonMark.
func StateMarkdown(p *message.Printer, state *domain.SessionState) string {
	return document{
		printer: p,
		text:    Markdown,
		literal: escape,
		heading: func(level int, s string) string { return strings.Repeat("#", level) + " " + s },
		item:    func(s string) string { return "- " + s },
	}.render(state)
}
