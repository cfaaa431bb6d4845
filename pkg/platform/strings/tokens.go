// Package strings normalizes string lists that travel in signed payloads.
package strings

import (
	"slices"
	"strings"
)

// Tokens lowercases and trims each value, then drops blanks and repeats while
// keeping first-seen order. The result is never nil, so it encodes as [] in JSON.
func Tokens(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		token := strings.ToLower(strings.TrimSpace(v))
		if token == "" || slices.Contains(out, token) {
			continue
		}
		out = append(out, token)
	}
	return out
}
