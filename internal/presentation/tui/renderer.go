package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultWidth is the wrap width when none is configured.
const DefaultWidth = 80

type options struct {
	width   int
	style   string
	printer *message.Printer
}

// Option configures a renderer.
type Option func(*options)

// WithWidth sets the wrap width in cells.
func WithWidth(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
	}
}

// WithStyle selects a glamour style by name ("dark", "light", "notty", ...).
// The default picks one from the terminal background.
func WithStyle(style string) Option {
	return func(o *options) {
		o.style = style
	}
}

// WithLanguage formats numbers in phrases for tag.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.printer = message.NewPrinter(tag)
	}
}

func resolve(opts []Option) options {
	o := options{width: DefaultWidth, printer: message.NewPrinter(language.English)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRenderer returns a renderer that turns session states into ANSI output using glamour.
func NewRenderer(opts ...Option) (func(*domain.SessionState) (string, error), error) {
	o := resolve(opts)

	style := glamour.WithAutoStyle()
	if o.style != "" {
		style = glamour.WithStandardStyle(o.style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(o.width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(state *domain.SessionState) (string, error) {
		return r.Render(StateMarkdown(o.printer, state))
	}, nil
}

// NewPlainRenderer returns a renderer for terminals without markup support:
// paragraphs are word-wrapped and list items hang-indented.
func NewPlainRenderer(opts ...Option) func(*domain.SessionState) (string, error) {
	o := resolve(opts)
	wrap := func(s string) string {
		return wordwrap.String(s, o.width)
	}

	doc := document{
		printer: o.printer,
		text: func(t domain.Text) string {
			return wrap(t.String())
		},
		literal: func(s string) string { return s },
		heading: func(level int, s string) string {
			if level == 2 {
				return strings.ToUpper(s)
			}
			return s
		},
		item: func(s string) string {
			body := wordwrap.String(s, o.width-2)
			return "* " + strings.TrimPrefix(indent.String(body, 2), "  ")
		},
	}
	return func(state *domain.SessionState) (string, error) {
		return doc.render(state), nil
	}
}
