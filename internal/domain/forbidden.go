package domain

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// ForbiddenTerms are the variants of the regulator's name, in Cyrillic and
// Latin script. Typing any of them into the add form is a honeypot: instead of
// adding an application, the panel locks itself down.
var ForbiddenTerms = []string{"роскомнадзор", "roskomnadzor", "rkn", "ркн"}

// ForbiddenFilter detects forbidden terms anywhere in an application name.
type ForbiddenFilter struct {
	mu      sync.Mutex // Matcher.Match mutates internal counters
	terms   []string
	matcher *ahocorasick.Matcher
}

// NewForbiddenFilter builds the matcher. With no terms, ForbiddenTerms is used.
func NewForbiddenFilter(terms ...string) *ForbiddenFilter {
	if len(terms) == 0 {
		terms = ForbiddenTerms
	}

	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := foldName(t); n != "" {
			folded = append(folded, n)
		}
	}

	f := &ForbiddenFilter{terms: folded}
	if len(folded) > 0 {
		f.matcher = ahocorasick.NewStringMatcher(folded)
	}
	return f
}

// Match reports whether name contains a forbidden term and returns the first
// term found.
func (f *ForbiddenFilter) Match(name string) (string, bool) {
	if f.matcher == nil {
		return "", false
	}
	text := foldName(name)
	if text == "" {
		return "", false
	}

	f.mu.Lock()
	hits := f.matcher.Match([]byte(text))
	f.mu.Unlock()

	if len(hits) == 0 {
		return "", false
	}
	return f.terms[hits[0]], true
}

// foldName trims and applies Unicode case folding so "РКН", "Ркн" and "ркн"
// compare equal.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
