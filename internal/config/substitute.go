package config

import (
	"os"
	"regexp"
)

// envPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// SubstituteEnv replaces environment variable references in a string.
//
// Supports two syntaxes:
// - ${VAR_NAME} - Replaced with the value of VAR_NAME, or empty string if not set
// - ${VAR_NAME:-default} - Replaced with VAR_NAME value, or default if VAR_NAME not set
//
// If a variable is set to an empty string, the empty value is used (not the default).
// Defaults are only used when the variable is completely unset.
func SubstituteEnv(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		if envValue, exists := os.LookupEnv(groups[1]); exists {
			return envValue
		}

		if len(groups) > 2 {
			return groups[2]
		}
		return ""
	})
}
