package internal

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ExpandUserWithHome replaces a leading ~ with the given home directory.
func ExpandUserWithHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}

func SetFromList[T comparable](items []T) mapset.Set[T] {
	set := mapset.NewSet[T]()
	for _, item := range items {
		set.Add(item)
	}
	return set
}
