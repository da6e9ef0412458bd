package signals

import (
	"regexp"
	"strings"
)

// extractDomain extracts the lowercased domain from an email address.
// Accepts both bare addresses and "Display Name <user@domain>" forms.
func extractDomain(addr string) string {
	addr = strings.TrimSpace(addr)
	if i := strings.LastIndexByte(addr, '<'); i >= 0 {
		addr = strings.TrimSuffix(addr[i+1:], ">")
	}
	at := strings.LastIndexByte(addr, '@')
	if at < 0 || at == len(addr)-1 {
		return "" // Malformed address
	}
	return strings.ToLower(addr[at+1:])
}

// lexicon is a phrase list compiled into case-insensitive word-boundary
// patterns. Compiled once at extractor construction, matched per
// document.
type lexicon struct {
	phrases  []string
	patterns []*regexp.Regexp
}

func newLexicon(phrases []string) lexicon {
	lex := lexicon{}
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		lex.phrases = append(lex.phrases, phrase)
		lex.patterns = append(lex.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	return lex
}

// matches returns the distinct lexicon phrases found in text, in
// lexicon order.
func (l lexicon) matches(text string) []string {
	var matched []string
	for i, pattern := range l.patterns {
		if pattern.MatchString(text) {
			matched = append(matched, l.phrases[i])
		}
	}
	return matched
}

// matchesAny reports whether any lexicon phrase appears in text.
func (l lexicon) matchesAny(text string) bool {
	for _, pattern := range l.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
