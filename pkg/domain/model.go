package domain

// Meta is free-text metadata about a piece of content.
type Meta struct {
	Title       Text   `yaml:"title,omitempty" json:"title,omitempty"`
	Description Text   `yaml:"description,omitempty" json:"description,omitempty"`
	Credits     []Text `yaml:"credits,omitempty" json:"credits,omitempty"`
}

// Model is the compiled content. It is loaded once and treated as immutable.
type Model struct {
	Meta      Meta       `yaml:"meta,omitempty"`
	Qualities []Quality  `yaml:"qualities"`
	Locations []Location `yaml:"locations"`
	Storylets []Storylet `yaml:"storylets"`
}

// Location returns the location called name.
func (m *Model) Location(name string) (*Location, bool) {
	for i := range m.Locations {
		if m.Locations[i].Name == name {
			return &m.Locations[i], true
		}
	}
	return nil, false
}

// Storylet returns the storylet called name.
func (m *Model) Storylet(name string) (*Storylet, bool) {
	for i := range m.Storylets {
		if m.Storylets[i].Name == name {
			return &m.Storylets[i], true
		}
	}
	return nil, false
}
