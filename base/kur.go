// Package base holds the catalog compiled into the binary.
package base

import (
	_ "embed"
	"fmt"

	"github.com/femnad/kur/entity"
)

//go:embed catalog.yml
var catalog []byte

// ReadConfig decodes and validates the embedded catalog.
func ReadConfig() (entity.Config, error) {
	config, err := entity.UnmarshalConfig(catalog)
	if err != nil {
		return config, err
	}

	if err = config.Validate(); err != nil {
		return config, fmt.Errorf("invalid catalog: %w", err)
	}

	return config, nil
}
