package inputs

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Variable is a name/value pair supplied to a deployment
type Variable struct {
	Name  string
	Value string
}

// SplitValues splits a field that accepts several values, one per line or separated by commas.
// Values are trimmed, and blank values are dropped.
func SplitValues(text string) []string {
	values := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})

	return lo.FilterMap(values, func(item string, index int) (string, bool) {
		trimmed := strings.TrimSpace(item)
		return trimmed, trimmed != ""
	})
}

// SplitLines splits a field that accepts one value per line. Commas are kept, which matters for
// values like file patterns.
func SplitLines(text string) []string {
	return lo.FilterMap(strings.Split(text, "\n"), func(item string, index int) (string, bool) {
		trimmed := strings.TrimSpace(item)
		return trimmed, trimmed != ""
	})
}

// ParseVariables reads one variable per line. Each line is split at whichever of '=' or ':' appears
// first, so "Url=http://example.org" and "Name:Value" both work.
func ParseVariables(text string) ([]Variable, error) {
	variables := []Variable{}

	for index, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		separator := strings.IndexAny(line, "=:")

		if separator <= 0 {
			return nil, fmt.Errorf("variable on line %d must be in the format name=value or name:value", index+1)
		}

		name := strings.TrimSpace(line[:separator])

		if name == "" {
			return nil, fmt.Errorf("variable on line %d has no name", index+1)
		}

		variables = append(variables, Variable{
			Name:  name,
			Value: strings.TrimSpace(line[separator+1:]),
		})
	}

	return variables, nil
}

// VariableMap is ParseVariables keyed by name. Later lines win.
func VariableMap(text string) (map[string]string, error) {
	variables, err := ParseVariables(text)

	if err != nil {
		return nil, err
	}

	return lo.Associate(variables, func(item Variable) (string, string) {
		return item.Name, item.Value
	}), nil
}
