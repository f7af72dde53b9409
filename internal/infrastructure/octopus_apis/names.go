package octopus_apis

import (
	"strings"

	"github.com/samber/lo"
)

// findByName returns the item whose name matches exactly. When there is no exact match and ignoreCase
// is set, the first item whose name matches ignoring case is returned instead.
func findByName[T any](items []T, name string, ignoreCase bool, getName func(item T) string) *T {
	if exact, found := lo.Find(items, func(item T) bool {
		return getName(item) == name
	}); found {
		return &exact
	}

	if !ignoreCase {
		return nil
	}

	if match, found := lo.Find(items, func(item T) bool {
		return strings.EqualFold(getName(item), name)
	}); found {
		return &match
	}

	return nil
}
