package service

import "strings"

var titleStopwords = map[string]struct{}{
	"THE": {}, "AND": {}, "OF": {}, "A": {}, "AN": {},
	"IN": {}, "ON": {}, "AT": {}, "TO": {}, "FOR": {},
}

// NormalizeCode canonicalizes a course code: uppercase, alphanumeric only.
// "CS 101-A" and "cs101a" normalize to the same string.
func NormalizeCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeTitle canonicalizes a course title: uppercase, punctuation replaced
// with spaces, whitespace collapsed. When removeStopwords is set, a fixed list
// of filler words is dropped.
func NormalizeTitle(title string, removeStopwords bool) string {
	upper := strings.ToUpper(strings.TrimSpace(title))
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ':', '-':
			return ' '
		}
		return r
	}, upper)

	fields := strings.Fields(replaced)
	if removeStopwords {
		kept := fields[:0]
		for _, f := range fields {
			if _, stop := titleStopwords[f]; !stop {
				kept = append(kept, f)
			}
		}
		fields = kept
	}
	return strings.Join(fields, " ")
}
