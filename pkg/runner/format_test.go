package runner

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) domain.Text {
	return domain.Text{domain.Paragraph(domain.Span(s))}
}

func TestFormat(t *testing.T) {
	three := 3
	state := &domain.SessionState{
		Location: &domain.LocationView{Label: text("Harbour")},
		Body:     text("The tide is out."),
		Assignments: []domain.AssignmentRecord{{
			Description: text("You sell your catch."),
			Results: []domain.AssignmentResult{
				{Operation: domain.OperationIncrement, Label: text("coins"), Value: &three},
				{Operation: domain.OperationUnset, Label: text("Wounded")},
				{Operation: domain.OperationSet, Label: text("Standing"), ValueLabel: text("Adept")},
			},
		}},
		Prompt: text("Where now?"),
		Choices: []domain.ChoiceView{
			{ID: 0, Label: text("Market")},
			{ID: 1, Label: text("Tavern"), Description: text("Loud.")},
		},
	}

	got, err := Format(state)
	require.NoError(t, err)
	assert.Equal(t, `== Harbour ==

The tide is out.

You sell your catch.
  * coins: 3
  * no longer Wounded
  * Standing: Adept

Where now?
[0] Market
[1] Tavern: Loud.`, got)
}

func TestFormat_Continue(t *testing.T) {
	got, err := Format(&domain.SessionState{Continue: &domain.Continue{}})
	require.NoError(t, err)
	assert.Equal(t, "[enter] Continue", got)

	got, err = Format(&domain.SessionState{Continue: &domain.Continue{Label: text("Onwards")}})
	require.NoError(t, err)
	assert.Equal(t, "[enter] Onwards", got)
}
