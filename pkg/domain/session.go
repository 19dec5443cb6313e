package domain

import "encoding/json"

// LocationView is the rendered current location.
type LocationView struct {
	Label       Text `json:"label"`
	Description Text `json:"description,omitempty"`
}

// StoryletView is the rendered active storylet.
type StoryletView struct {
	Label Text `json:"label,omitempty"`
}

// AssignmentResult describes one visible quality change.
//
// Value holds the new amount for counted qualities; ValueLabel holds the rung
// label for ladder qualities. Both are empty for uncounted qualities.
type AssignmentResult struct {
	Operation   Operation    `json:"operation"`
	Label       Text         `json:"label"`
	Value       *int         `json:"value,omitempty"`
	ValueLabel  Text         `json:"valueLabel,omitempty"`
	Description Text         `json:"description,omitempty"`
	Style       QualityStyle `json:"style"`
}

// AssignmentRecord reports one assignment group.
type AssignmentRecord struct {
	Results     []AssignmentResult `json:"results,omitempty"`
	Description Text               `json:"description,omitempty"`
}

// ChoiceView is one offered choice. ID is what Choose expects back.
type ChoiceView struct {
	ID          int    `json:"id"`
	Label       Text   `json:"label"`
	Description Text   `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Continue is the affordance offered when there is nothing to choose.
// A nil Label means the generic affordance.
type Continue struct {
	Label Text
}

// MarshalJSON encodes the generic affordance as true and a custom one as its text.
func (c Continue) MarshalJSON() ([]byte, error) {
	if c.Label == nil {
		return []byte("true"), nil
	}
	return json.Marshal(c.Label)
}

// SessionState is returned by every Continue and Choose call.
// Exactly one of Choices and Continue is set.
type SessionState struct {
	Location    *LocationView      `json:"location,omitempty"`
	Storylet    *StoryletView      `json:"storylet,omitempty"`
	Body        Text               `json:"body,omitempty"`
	Assignments []AssignmentRecord `json:"assignments,omitempty"`
	Choices     []ChoiceView       `json:"choices,omitempty"`
	Continue    *Continue          `json:"continue,omitempty"`
	Prompt      Text               `json:"prompt,omitempty"`
}
