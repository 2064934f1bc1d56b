// Package moderation holds the static content filter applied to chat text
// before it is stored or broadcast.
package moderation

import (
	"regexp"
	"strings"

	"mindbridge/backend/internal/config"
)

// Filter masks banned substrings case-insensitively. It does not respect word
// boundaries, so "skill" becomes "s***".
type Filter struct {
	pattern *regexp.Regexp
	mask    string
}

// NewFilter builds a filter for words. An empty list yields a no-op filter.
func NewFilter(words []string, mask string) *Filter {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	f := &Filter{mask: mask}
	if len(quoted) > 0 {
		f.pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	}
	return f
}

// Default is the filter over config.BannedWords.
func Default() *Filter {
	return NewFilter(config.BannedWords, config.FilterMask)
}

// Clean returns text with every banned substring replaced by the mask.
func (f *Filter) Clean(text string) string {
	if f.pattern == nil {
		return text
	}
	return f.pattern.ReplaceAllLiteralString(text, f.mask)
}

// Flagged reports whether Clean would change text.
func (f *Filter) Flagged(text string) bool {
	return f.pattern != nil && f.pattern.MatchString(text)
}
