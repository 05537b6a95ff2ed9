package rewrite

// maxUnprotectPasses bounds restoration passes: a restored original can
// itself contain a token when a later protection pass wrapped a span that
// already held one (e.g. inline code inside a link destination), so a
// handful of passes is enough to reach a fixed point.
const maxUnprotectPasses = 8

// Unprotect replaces every token in text with its stored original,
// repeating until no token remains or the pass budget is exhausted, so
// tokens that resurface inside a just-restored span are also resolved.
func Unprotect(text string, store *Store) string {
	for pass := 0; pass < maxUnprotectPasses; pass++ {
		replacedAny := false
		text = tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
			match := tokenPattern.FindStringSubmatch(tok)
			id, ok := parseTokenID(match)
			if !ok {
				return tok
			}
			original, ok := store.Original(id)
			if !ok {
				return tok
			}
			replacedAny = true
			return original
		})
		if !replacedAny {
			break
		}
	}
	return text
}
