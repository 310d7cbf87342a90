// Package ident normalises identifier and namespace-segment text the way
// spec.md §3 requires: "All identifier and namespace segment strings are
// lower-cased on construction; equality is therefore case-insensitive."
//
// Because the grammar's identifiers are explicitly unicode (spec.md §4.5),
// Fold combines two mappings: strings.ToLower's per-rune simple mapping,
// which lowers the dotted capital I (U+0130) to a plain "i", followed by
// golang.org/x/text's cases.Fold, which applies Unicode full case folding
// (for example "ß" becomes "ss"). Folding is the same for every locale.
package ident

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var folder = cases.Fold()

// Fold returns the case-folded form of s used for identifier comparisons.
func Fold(s string) string {
	return folder.String(strings.ToLower(s))
}

// FoldAll folds every element of a namespace path.
func FoldAll(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = Fold(s)
	}
	return out
}

// Locale wraps golang.org/x/text/language.Tag as the opaque locale
// identifier used by pkg/scope for localised name resolution (spec.md
// §4.6, §6, glossary "Locale").
type Locale struct {
	tag language.Tag
}

// ParseLocale parses a BCP 47 language tag such as "en", "es-VE", or
// "pt-BR" into a Locale.
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, err
	}
	return Locale{tag: tag}, nil
}

// MustLocale is like ParseLocale but panics on a malformed tag; intended
// for package-level locale constants, not for parsing host input.
func MustLocale(s string) Locale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String renders the locale as its canonical BCP 47 tag.
func (l Locale) String() string { return l.tag.String() }

// IsZero reports whether l is the unset locale (global-name resolution,
// spec.md §4.6 "if locale is absent, the global-name view is used").
func (l Locale) IsZero() bool { return l.tag == language.Und }

// Equal compares two locales by canonical tag.
func (l Locale) Equal(other Locale) bool { return l.tag == other.tag }
