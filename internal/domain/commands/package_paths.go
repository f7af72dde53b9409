package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

var ErrNoPackagesMatched = errors.New("no packages matched the package paths")

// ResolvePackagePaths returns every file under the workspace matching one of the patterns. Patterns
// use '/' as the separator and are relative to the workspace. '*' matches within a directory, '**'
// matches across directories, and a leading "**/" also matches files in the workspace itself.
func ResolvePackagePaths(workspace string, patterns []string) ([]string, error) {
	matchers := []glob.Glob{}

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(pattern)), "./")

		compiled, err := compilePattern(pattern)

		if err != nil {
			return nil, err
		}

		matchers = append(matchers, compiled...)
	}

	matches := []string{}

	err := filepath.WalkDir(workspace, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		relative, err := filepath.Rel(workspace, path)

		if err != nil {
			return err
		}

		relative = filepath.ToSlash(relative)

		if lo.SomeBy(matchers, func(item glob.Glob) bool {
			return item.Match(relative)
		}) {
			matches = append(matches, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search the workspace %q for packages: %w", workspace, err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackagesMatched, strings.Join(patterns, ", "))
	}

	sort.Strings(matches)

	return matches, nil
}

func compilePattern(pattern string) ([]glob.Glob, error) {
	patterns := []string{pattern}

	if strings.HasPrefix(pattern, "**/") {
		patterns = append(patterns, strings.TrimPrefix(pattern, "**/"))
	}

	compiled := []glob.Glob{}

	for _, item := range patterns {
		matcher, err := glob.Compile(item, '/')

		if err != nil {
			return nil, fmt.Errorf("octobuildstep-commands-globerror - the package path %q is not a valid pattern: %w", pattern, err)
		}

		compiled = append(compiled, matcher)
	}

	return compiled, nil
}
