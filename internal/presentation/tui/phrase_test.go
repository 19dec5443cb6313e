package tui

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func label(s string) domain.Text {
	return domain.Text{domain.Paragraph(domain.Span(s))}
}

func TestPhrase(t *testing.T) {
	n := func(v int) *int { return &v }

	tests := []struct {
		name   string
		result domain.AssignmentResult
		want   string
	}{
		{
			name:   "personal currency",
			result: domain.AssignmentResult{Operation: domain.OperationIncrement, Label: label("coins"), Value: n(3), Style: domain.QualityStyle{Currency: true, Personal: true}},
			want:   "You now have 3 coins.",
		},
		{
			name:   "personal currency spent",
			result: domain.AssignmentResult{Operation: domain.OperationDecrement, Label: label("coins"), Value: n(0), Style: domain.QualityStyle{Currency: true, Personal: true}},
			want:   "You no longer have any coins.",
		},
		{
			name:   "currency single",
			result: domain.AssignmentResult{Operation: domain.OperationIncrement, Label: label("lantern"), Value: n(1), Style: domain.QualityStyle{Currency: true}},
			want:   "There is now 1 lantern.",
		},
		{
			name:   "currency grouped",
			result: domain.AssignmentResult{Operation: domain.OperationIncrement, Label: label("fish"), Value: n(1500), Style: domain.QualityStyle{Currency: true}},
			want:   "There are now 1,500 fish.",
		},
		{
			name:   "personal amount",
			result: domain.AssignmentResult{Operation: domain.OperationIncrement, Label: label("health"), Value: n(5), Style: domain.QualityStyle{Personal: true}},
			want:   "Your health is now 5.",
		},
		{
			name:   "impersonal plural amount",
			result: domain.AssignmentResult{Operation: domain.OperationDecrement, Label: label("guards"), Value: n(2), Style: domain.QualityStyle{Plural: true}},
			want:   "Guards are now 2.",
		},
		{
			name:   "ladder personal",
			result: domain.AssignmentResult{Operation: domain.OperationSet, Label: label("standing"), ValueLabel: label("Adept"), Style: domain.QualityStyle{Personal: true}},
			want:   "Your standing is now Adept.",
		},
		{
			name:   "ladder unset",
			result: domain.AssignmentResult{Operation: domain.OperationUnset, Label: label("weather"), ValueLabel: label("stormy")},
			want:   "Weather is no longer stormy.",
		},
		{
			name:   "uncounted personal",
			result: domain.AssignmentResult{Operation: domain.OperationUnset, Label: label("Wounded"), Style: domain.QualityStyle{Personal: true, Uncounted: true}},
			want:   "You are no longer Wounded.",
		},
		{
			name:   "uncounted possessive personal",
			result: domain.AssignmentResult{Operation: domain.OperationSet, Label: label("a map"), Style: domain.QualityStyle{Personal: true, Possessive: true, Uncounted: true}},
			want:   "You now have a map.",
		},
		{
			name:   "uncounted possessive plural",
			result: domain.AssignmentResult{Operation: domain.OperationSet, Label: label("rats"), Style: domain.QualityStyle{Plural: true, Possessive: true, Uncounted: true}},
			want:   "There are now rats.",
		},
		{
			name:   "uncounted impersonal",
			result: domain.AssignmentResult{Operation: domain.OperationSet, Label: label("night"), Style: domain.QualityStyle{Uncounted: true}},
			want:   "It is now night.",
		},
	}

	p := message.NewPrinter(language.English)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phrase(p, tt.result))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Émile's debt", capitalize("émile's debt"))
	assert.Equal(t, "", capitalize(""))
}
