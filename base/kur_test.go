package base

import (
	"testing"

	"github.com/femnad/kur/entity"
)

func TestReadConfig(t *testing.T) {
	config, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if len(config.Targets) == 0 || len(config.Fonts) == 0 || len(config.Packages) == 0 {
		t.Errorf("ReadConfig() returned an incomplete catalog: %+v", config)
	}

	for _, target := range config.Targets {
		if target.Kind() == "" {
			t.Errorf("target %s has no unique action", target.Name)
		}
		if src, ok := target.Release(); ok && src.Fallback == "" {
			t.Errorf("target %s has no pinned fallback", target.Name)
		}
	}

	if !config.Toggles.Known(entity.FontToggle) {
		t.Errorf("catalog has fonts but no %s toggle", entity.FontToggle)
	}
}

func TestUnmarshalConfigRejectsUnknownFields(t *testing.T) {
	_, err := entity.UnmarshalConfig([]byte("target:\n  - name: Git\n    toggel: INSTALL_GIT\n"))
	if err == nil {
		t.Errorf("UnmarshalConfig() expected an error for a misspelled key")
	}
}
