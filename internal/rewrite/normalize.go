package rewrite

import (
	"fmt"
	"regexp"
	"strconv"
)

// malformedTokenPattern matches the shapes a model is liable to mangle a
// placeholder token into: missing braces, doubled braces, or stray
// whitespace around the digits.
var malformedTokenPattern = regexp.MustCompile(`(?:\{{1,3}\s*)?SBY_TOKEN_(\d+)(?:\s*\}{1,3})?`)

// Normalize coerces every malformed token rendering in s back to the
// canonical {{SBY_TOKEN_NNNNNN}} shape.
func Normalize(s string) string {
	return malformedTokenPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := malformedTokenPattern.FindStringSubmatch(m)
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			return m
		}
		return fmt.Sprintf("{{SBY_TOKEN_%06d}}", n)
	})
}
