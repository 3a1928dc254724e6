package testmail

import "strings"

const codeFence = "```"

// Normalize trims raw model output and strips a code fence wrapped around
// it: an opening "```" with an optional language tag, and a closing "```".
// Fences inside the text are left alone. Stripping repeats until neither end
// carries a fence, which makes Normalize idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		prev := s
		if rest, ok := strings.CutPrefix(s, codeFence); ok {
			s = strings.TrimSpace(strings.TrimLeftFunc(rest, isFenceTagRune))
		}
		if rest, ok := strings.CutSuffix(s, codeFence); ok {
			s = strings.TrimSpace(rest)
		}
		if s == prev {
			return s
		}
	}
}

// isFenceTagRune matches language tags such as json, json5 or objective-c.
func isFenceTagRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '+', r == '-':
		return true
	}
	return false
}
