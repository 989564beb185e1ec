package entity

import (
	"gopkg.in/yaml.v3"
)

// Toggles maps toggle keys to their switch state. It is built once and never written to.
type Toggles struct {
	values map[string]bool
}

func NewToggles(values map[string]bool) Toggles {
	copied := make(map[string]bool, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Toggles{values: copied}
}

// Enabled reports the switch state of key; unknown keys are disabled.
func (t Toggles) Enabled(key string) bool {
	return t.values[key]
}

func (t Toggles) Known(key string) bool {
	_, ok := t.values[key]
	return ok
}

func (t *Toggles) UnmarshalYAML(node *yaml.Node) error {
	var values map[string]bool
	if err := node.Decode(&values); err != nil {
		return err
	}

	*t = NewToggles(values)
	return nil
}
