package font

import (
	"path/filepath"
	"strings"

	"github.com/femnad/kur/common"
	"github.com/femnad/kur/entity"
)

// Class is the font technology, which is also the directory name under the font root.
type Class string

const (
	Opentype Class = "opentype"
	Truetype Class = "truetype"
)

var (
	// Placement order.
	classes = []Class{Truetype, Opentype}

	extensions = map[string]Class{
		".otf": Opentype,
		".ttc": Opentype,
		".ttf": Truetype,
	}
)

func ClassOf(filename string) (Class, bool) {
	class, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	return class, ok
}

// InstalledClasses lists the classes with a non-empty dir for the font under root.
func InstalledClasses(root string, spec entity.FontSpec) []Class {
	var installed []Class
	for _, class := range classes {
		if common.DirNonEmpty(filepath.Join(root, string(class), spec.Slug())) {
			installed = append(installed, class)
		}
	}
	return installed
}
