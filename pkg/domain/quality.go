package domain

// QualityStyle selects how changes to a quality are phrased.
type QualityStyle struct {
	Currency   bool `yaml:"currency" json:"currency"`
	Personal   bool `yaml:"personal" json:"personal"`
	Plural     bool `yaml:"plural" json:"plural"`
	Possessive bool `yaml:"possessive" json:"possessive"`
	Uncounted  bool `yaml:"uncounted" json:"uncounted"`
}

// QualityValue is one named rung of a quality ladder.
// Its 1-based position in the ladder is its rank.
type QualityValue struct {
	Name        string               `yaml:"name"`
	Label       Template             `yaml:"label,omitempty"`
	Description Template             `yaml:"description,omitempty"`
	Icon        *Conditional[string] `yaml:"icon,omitempty"`
}

// Quality is a named numeric stat or flag.
type Quality struct {
	Name          string               `yaml:"name"`
	Hidden        bool                 `yaml:"hidden,omitempty"`
	Label         Template             `yaml:"label,omitempty"`
	SingularLabel Template             `yaml:"singularLabel,omitempty"`
	PluralLabel   Template             `yaml:"pluralLabel,omitempty"`
	Description   Template             `yaml:"description,omitempty"`
	Icon          *Conditional[string] `yaml:"icon,omitempty"`
	Style         QualityStyle         `yaml:"style,omitempty"`
	Exclusive     bool                 `yaml:"exclusive,omitempty"`
	Values        []QualityValue       `yaml:"values,omitempty"`
}

// Ladder reports whether the quality is backed by named rungs.
func (q *Quality) Ladder() bool {
	return len(q.Values) > 0
}

// Rank returns the 1-based rank of the rung called name, or 0.
func (q *Quality) Rank(name string) int {
	for i, v := range q.Values {
		if v.Name == name {
			return i + 1
		}
	}
	return 0
}
