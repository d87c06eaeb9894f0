package normalise

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// paddedPunctuation is split off into its own token. Commas are removed
// instead and periods are only split when they do not sit inside a number.
const paddedPunctuation = `-/()[]{};:!?"*=<>|`

// Doubled letters that legitimately end English words.
var finalDoubles = map[string]struct{}{
	"ss": {}, "ll": {}, "ff": {}, "zz": {}, "ee": {}, "oo": {},
	"tt": {}, "dd": {}, "rr": {}, "gg": {}, "bb": {},
}

// controlToSpace maps control characters (tabs, line breaks, stray escapes)
// to spaces so whitespace collapsing sees them.
var controlToSpace = runes.Map(func(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
})

// Fold applies compatibility normalisation so that full-width letters and
// ligatures compare equal to their plain forms.
func Fold(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKC, controlToSpace), text)
	if err != nil {
		return text
	}
	return folded
}

// Cleanup removes commas, pads punctuation with spaces and collapses
// whitespace. Letter case is left alone.
func Cleanup(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	prev := rune(-1)
	for i, r := range text {
		switch {
		case r == ',':
			b.WriteByte(' ')
		case strings.ContainsRune(paddedPunctuation, r):
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		case r == '.':
			next, _ := utf8.DecodeRuneInString(text[i+1:])
			if unicode.IsDigit(prev) && unicode.IsDigit(next) {
				b.WriteRune(r)
			} else {
				b.WriteString(" . ")
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return CollapseWhitespace(b.String())
}

// CollapseWhitespace trims text and reduces every whitespace run to one space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Lower case-folds text with Unicode rules.
func Lower(text string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(text)
}

// CollapseRepeats shortens runs of three or more identical letters to two and
// drops a doubled final letter unless the pair is a normal English ending,
// so "brokennn" and "brokenn" both become "broken".
func CollapseRepeats(text string) string {
	rs := []rune(text)
	out := make([]rune, 0, len(rs))

	wordStart := 0
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !unicode.IsLetter(r) {
			out = collapseFinalDouble(out, wordStart)
			out = append(out, r)
			wordStart = len(out)
			continue
		}
		n := len(out)
		if n-wordStart >= 2 && out[n-1] == r && out[n-2] == r {
			continue
		}
		out = append(out, r)
	}
	out = collapseFinalDouble(out, wordStart)
	return string(out)
}

func collapseFinalDouble(out []rune, wordStart int) []rune {
	n := len(out)
	if n-wordStart < 4 || out[n-1] != out[n-2] {
		return out
	}
	pair := strings.ToLower(string(out[n-2:]))
	if _, ok := finalDoubles[pair]; ok {
		return out
	}
	return out[:n-1]
}
