package rewrite

import "strings"

// Chunk splits protected text into pieces no larger than maxChars,
// splitting only at line boundaries so a placeholder token is never torn
// in two. A single line that itself exceeds maxChars is hard-split at
// safe character boundaries: any boundary that would fall inside a token
// span snaps forward to the end of that span.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		return []string{text}
	}
	lines := strings.Split(text, "\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range lines {
		if current.Len() > 0 && current.Len()+1+len(line) > maxChars {
			flush()
		}
		if len(line) > maxChars {
			parts := hardSplitLine(line, maxChars)
			for _, p := range parts[:len(parts)-1] {
				flush()
				chunks = append(chunks, p)
			}
			current.WriteString(parts[len(parts)-1])
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}

// hardSplitLine splits a single over-budget line into pieces of at most
// maxChars, never cutting through a placeholder token.
func hardSplitLine(line string, maxChars int) []string {
	spans := tokenPattern.FindAllStringIndex(line, -1)

	var parts []string
	start := 0
	for start < len(line) {
		end := start + maxChars
		if end >= len(line) {
			parts = append(parts, line[start:])
			break
		}
		for _, sp := range spans {
			if end > sp[0] && end < sp[1] {
				end = sp[1]
				break
			}
		}
		if end <= start {
			end = start + maxChars
		}
		if end > len(line) {
			end = len(line)
		}
		parts = append(parts, line[start:end])
		start = end
	}
	if len(parts) == 0 {
		parts = append(parts, line)
	}
	return parts
}
