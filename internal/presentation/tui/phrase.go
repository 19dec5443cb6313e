package tui

import (
	"unicode/utf8"

	"github.com/aretw0/arbor/pkg/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var upper = cases.Upper(language.English)

// Phrase turns one assignment result into an English sentence, such as
// "You now have 3 coins." or "You are no longer Wounded.".
// Numbers are formatted by p; a nil p formats for English.
func Phrase(p *message.Printer, r domain.AssignmentResult) string {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	label := r.Label.String()
	style := r.Style
	now := r.Operation == domain.OperationSet

	switch {
	case r.Value != nil:
		n := *r.Value
		switch {
		case style.Currency && style.Personal:
			if n == 0 {
				return p.Sprintf("You no longer have any %s.", label)
			}
			return p.Sprintf("You now have %d %s.", n, label)
		case style.Currency:
			switch n {
			case 0:
				return p.Sprintf("There are no longer any %s.", label)
			case 1:
				return p.Sprintf("There is now 1 %s.", label)
			}
			return p.Sprintf("There are now %d %s.", n, label)
		case style.Personal:
			return p.Sprintf("Your %s %s now %d.", label, verb(style), n)
		}
		return p.Sprintf("%s %s now %d.", capitalize(label), verb(style), n)

	case !r.ValueLabel.Empty():
		value := r.ValueLabel.String()
		subject := capitalize(label)
		if style.Personal {
			subject = "Your " + label
		}
		return p.Sprintf("%s %s %s %s.", subject, verb(style), when(now), value)
	}

	switch {
	case style.Possessive && style.Personal:
		return p.Sprintf("You %s %s.", pick(now, "now have", "no longer have"), label)
	case style.Possessive:
		there := "There is"
		if style.Plural {
			there = "There are"
		}
		return p.Sprintf("%s %s %s.", there, when(now), label)
	case style.Personal:
		return p.Sprintf("You are %s %s.", when(now), label)
	}
	return p.Sprintf("It is %s %s.", when(now), label)
}

func verb(style domain.QualityStyle) string {
	return pick(style.Plural, "are", "is")
}

func when(now bool) string {
	return pick(now, "now", "no longer")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// capitalize upper-cases the first letter only.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upper.String(s[:size]) + s[size:]
}
