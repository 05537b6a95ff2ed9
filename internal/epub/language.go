package epub

import "strings"

// LanguageTag derives a BCP-47 language tag from a StartJobRequest's free-
// text language field: recognized Japanese/English spellings map to their
// codes, an already-tag-shaped string (letters/digits/hyphen/underscore,
// containing at least one separator) passes through with underscores
// normalized to hyphens, and anything else falls back to "und".
func LanguageTag(language string) string {
	trimmed := strings.TrimSpace(language)
	switch strings.ToLower(trimmed) {
	case "日本語", "japanese", "ja":
		return "ja"
	case "英", "english", "en":
		return "en"
	}
	if isTagShaped(trimmed) {
		return strings.ReplaceAll(trimmed, "_", "-")
	}
	return "und"
}

func isTagShaped(s string) bool {
	if s == "" {
		return false
	}
	hasSeparator := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_':
			hasSeparator = true
		default:
			return false
		}
	}
	return hasSeparator
}
