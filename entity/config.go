package entity

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/femnad/kur/settings"
)

type Config struct {
	FlatpakRemotes []FlatpakRemote   `yaml:"flatpak_remote"`
	Fonts          []FontSpec        `yaml:"font"`
	Packages       []string          `yaml:"package"`
	Repos          []AptRepo         `yaml:"apt_repo"`
	Settings       settings.Settings `yaml:"settings"`
	Targets        []Target          `yaml:"target"`
	Toggles        Toggles           `yaml:"toggle"`
}

func (c Config) FlatpakRemote(name string) (FlatpakRemote, bool) {
	for _, remote := range c.FlatpakRemotes {
		if remote.Name == name {
			return remote, true
		}
	}
	return FlatpakRemote{}, false
}

// UnmarshalConfig decodes a catalog, rejecting unknown keys.
func UnmarshalConfig(data []byte) (Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("error decoding catalog: %w", err)
	}

	return config, nil
}
