package rewrite

// ExpectedTokens returns every canonical token present in chunk, the set
// the rewritten output must preserve.
func ExpectedTokens(chunk string) []string {
	return tokenPattern.FindAllString(chunk, -1)
}

// MissingTokens returns the expected tokens absent from output.
func MissingTokens(expected []string, output string) []string {
	present := map[string]bool{}
	for _, tok := range tokenPattern.FindAllString(output, -1) {
		present[tok] = true
	}
	var missing []string
	for _, tok := range expected {
		if !present[tok] {
			missing = append(missing, tok)
		}
	}
	return missing
}
