// Package interpolation expands ${VAR} and ${VAR:default} references to
// environment variables in configuration values.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrUndefinedVar is returned for a reference with no default to a variable
// that is not set.
var ErrUndefinedVar = errors.New("environment variable not defined")

// Matches ${NAME} and ${NAME:default}; the colon is captured on its own so an
// empty default can be told apart from no default.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars replaces every reference in input. Undefined variables without
// a default are left in place and reported together.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	out := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := m[1], m[2] == ":", m[3]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Errorf("%w: %s", ErrUndefinedVar, name))
		return match
	})
	return out, errors.Join(missing...)
}
