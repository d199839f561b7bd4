// Package arabic canonicalizes noisy Arabic free text for catalog matching.
//
// Normalization is deliberately lossy: it trades linguistic precision for
// match recall on casually typed product names. Seated-hamza alef variants
// fold to bare alef, teh marbuta folds to heh, alef maksura folds to yeh,
// and all diacritical marks (tashkeel) are stripped.
//
// Normalize is total and idempotent and is safe for concurrent use.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ' // kashida elongation, carries no meaning

// stripMarks decomposes to NFD, removes all nonspacing marks and recomposes.
// Removing marks under NFD both strips tashkeel and reduces the seated-hamza
// alef forms (أ إ آ) to bare alef, since the hamza/madda seats decompose
// into combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text into a comparable form.
//
// Steps, in order: trim and lowercase, strip marks (tashkeel and hamza
// seats), fold teh marbuta to heh and alef maksura to yeh, replace every
// character that is neither a letter, a digit nor whitespace with a space,
// and collapse whitespace runs.
//
// Empty or whitespace-only input normalizes to the empty string.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case r == tatweel:
			// Dropped entirely, does not break a word.
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(foldLetter(r))
		default:
			// Punctuation, symbols and whitespace all act as separators.
			pendingSpace = true
		}
	}
	return b.String()
}

// foldLetter maps Arabic letter variants to their canonical form.
func foldLetter(r rune) rune {
	switch r {
	case 'ة': // teh marbuta
		return 'ه' // heh
	case 'ى': // alef maksura
		return 'ي' // yeh
	}
	return r
}
