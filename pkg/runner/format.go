package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Format is the plain ContentRenderer: no markup, one block per section.
func Format(state *domain.SessionState) (string, error) {
	var blocks []string
	if state.Location != nil {
		blocks = append(blocks, "== "+state.Location.Label.String()+" ==")
	}
	if state.Storylet != nil && !state.Storylet.Label.Empty() {
		blocks = append(blocks, "-- "+state.Storylet.Label.String()+" --")
	}
	if !state.Body.Empty() {
		blocks = append(blocks, state.Body.String())
	}
	for _, record := range state.Assignments {
		var lines []string
		if !record.Description.Empty() {
			lines = append(lines, record.Description.String())
		}
		for _, result := range record.Results {
			lines = append(lines, "  * "+FormatResult(result))
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}

	var lines []string
	if !state.Prompt.Empty() {
		lines = append(lines, state.Prompt.String())
	}
	for _, c := range state.Choices {
		line := fmt.Sprintf("[%d] %s", c.ID, c.Label)
		if !c.Description.Empty() {
			line += ": " + c.Description.String()
		}
		lines = append(lines, line)
	}
	if state.Continue != nil {
		label := "Continue"
		if state.Continue.Label != nil {
			label = state.Continue.Label.String()
		}
		lines = append(lines, "[enter] "+label)
	}
	if len(lines) > 0 {
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// FormatResult renders one assignment result tersely, e.g. "coins: 3" or "no longer Wounded".
func FormatResult(result domain.AssignmentResult) string {
	label := result.Label.String()
	switch {
	case result.Value != nil:
		return fmt.Sprintf("%s: %d", label, *result.Value)
	case !result.ValueLabel.Empty():
		if result.Operation == domain.OperationUnset {
			return fmt.Sprintf("%s: no longer %s", label, result.ValueLabel)
		}
		return fmt.Sprintf("%s: %s", label, result.ValueLabel)
	case result.Operation == domain.OperationUnset:
		return "no longer " + label
	default:
		return label
	}
}
