// Package rewrite implements the LLM rewrite protocol (§4.13): protect
// fragile Markdown spans behind placeholder tokens, chunk the protected
// text to a character budget, call a configured backend per chunk,
// normalize and verify its response, and restore the protected spans.
package rewrite

import (
	"fmt"
	"regexp"
	"strconv"
)

// tokenPattern matches a canonical placeholder token: {{SBY_TOKEN_NNNNNN}}.
var tokenPattern = regexp.MustCompile(`\{\{SBY_TOKEN_(\d{6})\}\}`)

// Store holds the original text of every protected span on one page,
// indexed by token id. A flat slice (rather than a map) keeps restoration
// deterministic: token N always refers to originals[N].
type Store struct {
	originals []string
}

// NewStore returns an empty placeholder store.
func NewStore() *Store {
	return &Store{}
}

// Protect records original as the next token and returns its canonical
// placeholder, a 6-digit zero-padded monotonic marker.
func (s *Store) Protect(original string) string {
	id := len(s.originals)
	s.originals = append(s.originals, original)
	return fmt.Sprintf("{{SBY_TOKEN_%06d}}", id)
}

// Original returns the text a token stands for, or ok=false if the token
// id is out of range (a hallucinated token the model invented).
func (s *Store) Original(id int) (string, bool) {
	if id < 0 || id >= len(s.originals) {
		return "", false
	}
	return s.originals[id], true
}

func parseTokenID(match []string) (int, bool) {
	if len(match) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
