package domain

// Location is a place the player can be in.
type Location struct {
	Name        string   `yaml:"name"`
	Label       Template `yaml:"label"`
	Description Template `yaml:"description,omitempty"`
	Body        Template `yaml:"body,omitempty"`
}
