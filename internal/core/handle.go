package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CanonicalHandle derives the instagram handle of an influencer name:
// NFC-normalized, lowercased, and reduced to letters and digits.
// "Jane Doe" and "jane.doe" both yield "janedoe".
//
// A name without any letter or digit falls back to its lowercased form with
// whitespace removed, so the handle is never empty for a non-empty name.
func CanonicalHandle(name string) string {
	// Casers are stateful and not safe for concurrent use.
	lowered := cases.Lower(language.Und).String(norm.NFC.String(name))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		return b.String()
	}

	return strings.Join(strings.Fields(lowered), "")
}
