package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for lookup and fuzzy matching.
// The normalization pipeline:
// 1. Tokenize CamelCase.
// 2. Case-fold to lower.
// 3. Strip separators (_, -, spaces).
func NormalizeIdent(s string) string {
	tokens := tokenizeCamelCase(s)

	joined := strings.ToLower(strings.Join(tokens, ""))

	return stripSeparators(joined)
}

// KebabIdent renders an identifier as lower-case tokens joined by '-'.
// Examples:
//   - "LabelMap" -> "label-map"
//   - "point_cloud" -> "point-cloud"
//   - "BBox" -> "b-box"
func KebabIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "-")
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "LabelMap" -> ["Label", "Map"]
//   - "rotatedBBox" -> ["rotated", "B", "Box"]
//   - "PointCloud" -> ["Point", "Cloud"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if unicode.IsUpper(r) && !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// End of acronym: "BBox" splits before the second 'B'.
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return unicode.IsUpper(r) && unicode.IsUpper(prev) && hasNextLower
}

func stripSeparators(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}
