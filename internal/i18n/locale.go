// Package i18n holds the panel's parallel string tables. Switching locale only
// changes presentation text, never panel state.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the supported UI languages.
type Locale string

const (
	RU Locale = "ru"
	EN Locale = "en"
)

// Default is the locale the panel starts in.
const Default = RU

// Supported lists every locale with a complete table.
var Supported = []Locale{RU, EN}

var matcher = language.NewMatcher([]language.Tag{language.Russian, language.English})

// ParseLocale accepts "ru"/"en" in any case.
func ParseLocale(raw string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Supported {
		if l == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported locale %q", raw)
}

// Match picks the supported locale closest to an Accept-Language header.
// It falls back to def when nothing usable is offered.
func Match(acceptLanguage string, def Locale) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return def
	}
	return Supported[idx]
}

// Toggle returns the other locale.
func (l Locale) Toggle() Locale {
	if l == EN {
		return RU
	}
	return EN
}

// T returns the string for key in locale l, or the key name when missing.
func T(l Locale, key Key) string {
	if table, ok := tables[l]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return string(key)
}

// Table returns a copy of the full table for l, keyed by the dotted key name.
// Used by the page template and the state endpoint.
func Table(l Locale) map[string]string {
	src := tables[l]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[string(k)] = v
	}
	return out
}
