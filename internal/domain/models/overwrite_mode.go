package models

import (
	"strings"

	"golang.org/x/exp/slices"
)

// OverwriteMode controls what the server does when a pushed package or build information already exists
type OverwriteMode string

const (
	FailIfExists      OverwriteMode = "FailIfExists"
	OverwriteExisting OverwriteMode = "OverwriteExisting"
	IgnoreIfExists    OverwriteMode = "IgnoreIfExists"
)

var OverwriteModes = []OverwriteMode{FailIfExists, OverwriteExisting, IgnoreIfExists}

// ParseOverwriteMode returns the mode with the name, ignoring case. An empty name is FailIfExists.
func ParseOverwriteMode(name string) (OverwriteMode, bool) {
	name = strings.TrimSpace(name)

	if name == "" {
		return FailIfExists, true
	}

	index := slices.IndexFunc(OverwriteModes, func(mode OverwriteMode) bool {
		return strings.EqualFold(string(mode), name)
	})

	if index < 0 {
		return "", false
	}

	return OverwriteModes[index], true
}
