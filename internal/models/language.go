package models

import (
	"fmt"
	"strings"
)

// Language is an output language code for generated content.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageItalian Language = "it"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
)

// Languages lists the supported codes in display order.
var Languages = []Language{
	LanguageEnglish,
	LanguageItalian,
	LanguageSpanish,
	LanguageFrench,
	LanguageGerman,
}

// Valid reports whether l is one of the supported codes.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if l == v {
			return true
		}
	}
	return false
}

// Upper returns the code in upper case, as used in prompts and log lines.
func (l Language) Upper() string {
	return strings.ToUpper(string(l))
}

// ParseLanguage accepts an exact supported code, ignoring surrounding whitespace.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.TrimSpace(s))
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q (want one of en, it, es, fr, de)", s)
	}
	return l, nil
}

// LanguageCodes returns the supported codes as plain strings.
func LanguageCodes() []string {
	out := make([]string, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, string(l))
	}
	return out
}
