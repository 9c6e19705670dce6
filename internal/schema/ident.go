package schema

import (
	"strings"
	"unicode"
)

// IsValidIdent checks if a string is a valid definition or field name:
// a letter or underscore followed by letters, digits or underscores.
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// IsValidCategory checks a trimmed, possibly hierarchical category name.
// Every dot-separated segment must be non-empty and free of the label
// qualifier separator.
func IsValidCategory(s string) bool {
	if s == "" || strings.Contains(s, "::") {
		return false
	}

	for _, seg := range strings.Split(s, ".") {
		if strings.TrimSpace(seg) == "" || seg != strings.TrimSpace(seg) {
			return false
		}
	}

	return true
}
